package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aeroprep/aeroprep/apps/api/echo"
	"github.com/aeroprep/aeroprep/core"
	"github.com/aeroprep/aeroprep/core/billing"
	"github.com/aeroprep/aeroprep/core/course"
	"github.com/aeroprep/aeroprep/core/exam"
	"github.com/aeroprep/aeroprep/core/question"
	"github.com/aeroprep/aeroprep/core/user"
	emailsvc "github.com/aeroprep/aeroprep/services/email"
	dummydb "github.com/aeroprep/aeroprep/storage/database/dummy"
	"github.com/aeroprep/aeroprep/storage/questionbank"
)

var (
	conf *core.Config

	usrRepo     user.Repository
	qRepo       question.Repository
	courseRepo  course.Repository
	billingRepo billing.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errPermDenied   = httpErr{Error: "permission denied"}
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// setup builds a Server on a fresh in-memory database.
func setup(t *testing.T) echoapi.Server {
	t.Helper()

	// set up DB & repos
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	usrRepo = dummydb.NewUserRepository(db)
	qRepo = dummydb.NewQuestionRepository(db)
	courseRepo = dummydb.NewCourseRepository(db)
	billingRepo = dummydb.NewBillingRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleService(conf)
	usrSvc := user.NewServiceMock(conf, nopLogger{}, usrRepo, mailSvc)
	loader := question.NewLoader(conf, nopLogger{}, questionbank.DefaultSources(),
		question.WithFallbacks(questionbank.Fallback(), questionbank.Minimal()))
	questionSvc := question.NewService(qRepo, loader)
	examSvc := exam.NewService(nopLogger{}, dummydb.NewExamRepository(db), questionSvc)
	billingSvc := billing.NewService(conf, nopLogger{}, billingRepo, mailSvc)
	courseSvc := course.NewService(nopLogger{}, courseRepo, billingSvc)

	// set up server
	return echoapi.NewServer(
		&echoapi.Deps{
			Conf:           conf,
			Logger:         nopLogger{},
			DisableReqLogs: true,
			UserSvc:        usrSvc,
			QuestionSvc:    questionSvc,
			ExamSvc:        examSvc,
			CourseSvc:      courseSvc,
			BillingSvc:     billingSvc,
		},
	)
}

func createUser(t *testing.T, name, uname, email, pwd string, roles []string, isActive bool, createdAt ...time.Time) user.User {
	t.Helper()

	usr := user.User{
		Name:     name,
		Username: uname,
		Email:    email,
		IsActive: isActive,
		Roles:    roles,
	}
	if len(createdAt) > 0 {
		usr.CreatedAt = createdAt[0].UTC()
	} else {
		usr.CreatedAt = time.Now().UTC()
	}
	usr.UpdatedAt = usr.CreatedAt
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("SetPassword() failed: %v", err)
		}
	}

	usr, err := usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
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
	claims := echoapi.GetUserClaims(conf, usr)
	token, err := echoapi.GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
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
	return assert.ElementsMatch(t, j1, j2), nil
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
