package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/course"
	"github.com/trezcool/shule/core/department"
	"github.com/trezcool/shule/core/profile"
	"github.com/trezcool/shule/core/user"
	emailsvc "github.com/trezcool/shule/services/email"
	logsvc "github.com/trezcool/shule/services/logger"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
)

var (
	usrSvc  *user.Service
	profSvc *profile.Service
	crsSvc  *course.Service
	binder  *profile.Binder

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

func setup(t *testing.T) Server {
	t.Helper()
	core.Conf.Debug = false
	core.Conf.TestMode = true

	// set up DB & repos
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	usrRepo := dummydb.NewUserRepository(db)
	stdRepo := dummydb.NewStudentRepository(db)
	tchRepo := dummydb.NewTeacherRepository(db)
	deptRepo := dummydb.NewDepartmentRepository(db)
	crsRepo := dummydb.NewCourseRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc = user.NewService(usrRepo)
	deptSvc := department.NewService(deptRepo)
	profSvc = profile.NewService(stdRepo, tchRepo, deptSvc)
	crsSvc = course.NewService(crsRepo, stdRepo, tchRepo)
	binder = profile.NewBinder(stdRepo, tchRepo, mailSvc)

	// set up server
	return NewServer(
		&Options{
			DisableReqLogs: true,
			Logger:         logsvc.NewNopLogger(),
			UserSvc:        usrSvc,
			Binder:         binder,
			ProfileSvc:     profSvc,
			CourseSvc:      crsSvc,
		},
	)
}

// createAccount registers an account and binds its profile, same as the API
// registration flow.
func createAccount(t *testing.T, uname, email, role string) user.User {
	t.Helper()
	ctx := context.Background()
	usr, err := usrSvc.Register(ctx, user.NewUser{Username: uname, Email: email, Password: "s3cret", Role: role})
	if err != nil {
		t.Fatalf("Register(): %v", err)
	}
	if _, err = binder.Bind(ctx, usr, email); err != nil {
		t.Fatalf("Bind(): %v", err)
	}
	return usr
}

func getStudentProfile(t *testing.T, usr user.User) profile.Student {
	t.Helper()
	std, err := profSvc.GetStudentByUserID(context.Background(), usr.ID)
	if err != nil {
		t.Fatalf("GetStudentByUserID(): %v", err)
	}
	return std
}

func getTeacherProfile(t *testing.T, usr user.User) profile.Teacher {
	t.Helper()
	tch, err := profSvc.GetTeacherByUserID(context.Background(), usr.ID)
	if err != nil {
		t.Fatalf("GetTeacherByUserID(): %v", err)
	}
	return tch
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
