package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/shule/core/course"
)

func createCourse(t *testing.T, title, teacherID string) course.Course {
	t.Helper()
	crs, err := crsSvc.Create(context.Background(), course.NewCourse{Title: title}, teacherID)
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	return crs
}

func Test_courseApi_query(t *testing.T) {
	app := setup(t)
	student := createAccount(t, "anna", "anna@test.cd", "student")
	teacher := createAccount(t, "mr_t", "t@test.cd", "teacher")

	algebra := createCourse(t, "Algebra", "")
	createCourse(t, "Biology", "")

	stdID := getStudentProfile(t, student).ID
	if _, err := crsSvc.Toggle(context.Background(), algebra.ID, stdID); err != nil {
		t.Fatalf("Toggle(): %v", err)
	}

	decode := func(rec []byte) map[string]bool {
		var courses []struct {
			ID         string `json:"id"`
			IsEnrolled bool   `json:"is_enrolled"`
		}
		if err := json.Unmarshal(rec, &courses); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		flags := make(map[string]bool, len(courses))
		for _, crs := range courses {
			flags[crs.ID] = crs.IsEnrolled
		}
		return flags
	}

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/courses")
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("student sees own enrollment flags", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/courses", getToken(t, student))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		flags := decode(rec.Body.Bytes())
		if len(flags) != 2 || !flags[algebra.ID] {
			t.Errorf("flags = %v", flags)
		}
	})

	t.Run("teacher sees all flags down", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/courses", getToken(t, teacher))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		for id, enrolled := range decode(rec.Body.Bytes()) {
			if enrolled {
				t.Errorf("course %v flagged enrolled for a teacher", id)
			}
		}
	})
}

func Test_courseApi_create(t *testing.T) {
	app := setup(t)
	student := createAccount(t, "anna", "anna@test.cd", "student")
	teacher := createAccount(t, "mr_t", "t@test.cd", "teacher")

	body := marchallObj(t, map[string]interface{}{"title": "Algebra", "description": "intro", "credits": 3})

	tests := []httpTest{
		{name: "auth required", body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "teacher required", body: body, token: getToken(t, student), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "teacher creates", body: body, token: getToken(t, teacher), wantCode: http.StatusCreated},
		{name: "validation", body: marchallObj(t, map[string]string{"title": ""}), token: getToken(t, teacher), wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/courses", tt.token, tt.body)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v, want %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
			if rec.Code == http.StatusCreated {
				var crs struct {
					TeacherID string `json:"teacher_id"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &crs); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if want := getTeacherProfile(t, teacher).ID; crs.TeacherID != want {
					t.Errorf("teacherID = %v, want %v", crs.TeacherID, want)
				}
			}
		})
	}
}

func Test_courseApi_toggleEnrollment(t *testing.T) {
	app := setup(t)
	student := createAccount(t, "anna", "anna@test.cd", "student")
	teacher := createAccount(t, "mr_t", "t@test.cd", "teacher")

	crs := createCourse(t, "Algebra", "")
	path := "/v1/courses/" + crs.ID + "/enroll"

	wantState := func(rec []byte, want course.EnrollmentState) {
		t.Helper()
		var resp struct {
			State course.EnrollmentState `json:"state"`
		}
		if err := json.Unmarshal(rec, &resp); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if resp.State != want {
			t.Errorf("state = %v, want %v", resp.State, want)
		}
	}

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, path)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("student required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, getToken(t, teacher))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("toggle flips and flips back", func(t *testing.T) {
		token := getToken(t, student)

		req, rec := newAuthRequest(http.MethodPost, path, token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		wantState(rec.Body.Bytes(), course.Enrolled)

		req, rec = newAuthRequest(http.MethodPost, path, token)
		app.ServeHTTP(rec, req)
		wantState(rec.Body.Bytes(), course.Unenrolled)

		req, rec = newAuthRequest(http.MethodPost, path, token)
		app.ServeHTTP(rec, req)
		wantState(rec.Body.Bytes(), course.Enrolled)
	})

	t.Run("unknown course", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/courses/nope/enroll", getToken(t, student))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %v, want %v; body %s", rec.Code, http.StatusNotFound, rec.Body.String())
		}
	})
}

func Test_courseApi_roster(t *testing.T) {
	app := setup(t)
	student := createAccount(t, "anna", "anna@test.cd", "student")

	crs := createCourse(t, "Algebra", "")
	stdID := getStudentProfile(t, student).ID
	if _, err := crsSvc.Toggle(context.Background(), crs.ID, stdID); err != nil {
		t.Fatalf("Toggle(): %v", err)
	}

	req, rec := newAuthRequest(http.MethodGet, "/v1/courses/"+crs.ID+"/students", getToken(t, student))
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var students []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &students); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if len(students) != 1 || students[0].ID != stdID {
		t.Errorf("roster = %v, want [%v]", students, stdID)
	}
}

func Test_courseApi_assignTeacher(t *testing.T) {
	app := setup(t)
	student := createAccount(t, "anna", "anna@test.cd", "student")
	teacher := createAccount(t, "mr_t", "t@test.cd", "teacher")

	crs := createCourse(t, "Algebra", "")
	tchID := getTeacherProfile(t, teacher).ID
	path := "/v1/courses/" + crs.ID + "/teacher"
	body := marchallObj(t, map[string]string{"teacher_id": tchID})

	tests := []httpTest{
		{name: "auth required", body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "teacher required", body: body, token: getToken(t, student), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "teacher assigns", body: body, token: getToken(t, teacher), wantCode: http.StatusOK},
		{name: "unknown teacher", body: marchallObj(t, map[string]string{"teacher_id": "nope"}), token: getToken(t, teacher), wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v, want %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
			if rec.Code == http.StatusOK {
				var resp struct {
					TeacherID string `json:"teacher_id"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if resp.TeacherID != tchID {
					t.Errorf("teacherID = %v, want %v", resp.TeacherID, tchID)
				}
			}
		})
	}
}

func Test_courseApi_destroy(t *testing.T) {
	app := setup(t)
	student := createAccount(t, "anna", "anna@test.cd", "student")
	teacher := createAccount(t, "mr_t", "t@test.cd", "teacher")

	crs := createCourse(t, "Algebra", "")
	path := "/v1/courses/" + crs.ID

	tests := []httpTest{
		{name: "teacher required", path: path, token: getToken(t, student), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "teacher deletes", path: path, token: getToken(t, teacher), wantCode: http.StatusNoContent},
		{name: "already gone", path: path, token: getToken(t, teacher), wantCode: http.StatusNotFound},
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
}
