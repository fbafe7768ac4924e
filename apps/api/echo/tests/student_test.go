package tests

import (
	"encoding/json"
	"net/http"
	"testing"
)

func Test_studentApi_query(t *testing.T) {
	app := setup(t)
	student := createAccount(t, "anna", "anna@test.cd", "student")
	teacher := createAccount(t, "mr_t", "t@test.cd", "teacher")

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "student may list", token: getToken(t, student), wantCode: http.StatusOK},
		{name: "teacher may list", token: getToken(t, teacher), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/students", tt.token)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v, want %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
		})
	}
}

func Test_studentApi_create(t *testing.T) {
	app := setup(t)
	student := createAccount(t, "anna", "anna@test.cd", "student")
	teacher := createAccount(t, "mr_t", "t@test.cd", "teacher")

	body := marchallObj(t, map[string]string{"name": "Roster Kid", "email": "kid@test.cd", "department": "Maths"})

	tests := []httpTest{
		{name: "auth required", body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "teacher required", body: body, token: getToken(t, student), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "teacher creates", body: body, token: getToken(t, teacher), wantCode: http.StatusCreated},
		{name: "validation", body: marchallObj(t, map[string]string{"name": ""}), token: getToken(t, teacher), wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/students", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v, want %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
			if rec.Code == http.StatusCreated {
				var std struct {
					ID           string `json:"id"`
					DepartmentID string `json:"department_id"`
					UserID       string `json:"user_id"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &std); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if std.DepartmentID == "" {
					t.Error("department was not resolved")
				}
				if std.UserID != "" {
					t.Error("roster-only student must not be linked to an account")
				}
			}
		})
	}
}

func Test_studentApi_update(t *testing.T) {
	app := setup(t)
	student := createAccount(t, "anna", "anna@test.cd", "student")
	other := createAccount(t, "bob", "bob@test.cd", "student")
	teacher := createAccount(t, "mr_t", "t@test.cd", "teacher")

	ownID := getStudentProfile(t, student).ID
	otherID := getStudentProfile(t, other).ID

	body := marchallObj(t, map[string]string{"name": "Anna Prime"})

	tests := []httpTest{
		{name: "auth required", path: "/v1/students/" + ownID, body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "teacher may not edit", path: "/v1/students/" + ownID, body: body, token: getToken(t, teacher), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "student edits own", path: "/v1/students/" + ownID, body: body, token: getToken(t, student), wantCode: http.StatusOK},
		{name: "student may not edit others", path: "/v1/students/" + otherID, body: body, token: getToken(t, student), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "unknown student", path: "/v1/students/nope", body: body, token: getToken(t, student), wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v, want %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
			if rec.Code == http.StatusOK {
				var std struct {
					Name  string `json:"name"`
					Email string `json:"email"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &std); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if std.Name != "Anna Prime" {
					t.Errorf("name = %v, want Anna Prime", std.Name)
				}
				if std.Email != "anna@test.cd" { // untouched field falls back
					t.Errorf("email = %v, want anna@test.cd", std.Email)
				}
			}
		})
	}
}

func Test_studentApi_destroy(t *testing.T) {
	app := setup(t)
	student := createAccount(t, "anna", "anna@test.cd", "student")
	victim := createAccount(t, "bob", "bob@test.cd", "student")
	teacher := createAccount(t, "mr_t", "t@test.cd", "teacher")

	victimID := getStudentProfile(t, victim).ID

	tests := []httpTest{
		{name: "auth required", path: "/v1/students/" + victimID, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "teacher required", path: "/v1/students/" + victimID, token: getToken(t, student), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "teacher deletes", path: "/v1/students/" + victimID, token: getToken(t, teacher), wantCode: http.StatusNoContent},
		{name: "already gone", path: "/v1/students/" + victimID, token: getToken(t, teacher), wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodDelete, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v, want %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
		})
	}

	// the account outlives its profile
	t.Run("account untouched", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"username": "bob", "password": "s3cret"})
		req, rec := newRequest(http.MethodPost, "/v1/users/login", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("login after profile delete: code = %v, want %v", rec.Code, http.StatusOK)
		}
	})
}

func Test_teacherApi_query(t *testing.T) {
	app := setup(t)
	student := createAccount(t, "anna", "anna@test.cd", "student")
	createAccount(t, "mr_t", "t@test.cd", "teacher")

	req, rec := newAuthRequest(http.MethodGet, "/v1/teachers", getToken(t, student))
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v, want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var teachers []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &teachers); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if len(teachers) != 1 || teachers[0].Name != "mr_t" {
		t.Errorf("teachers = %v", teachers)
	}
}
