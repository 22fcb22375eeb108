package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/doctorprep/backend/core"
	"github.com/doctorprep/backend/core/auth"
	"github.com/doctorprep/backend/core/question"
	"github.com/doctorprep/backend/core/quiz"
	"github.com/doctorprep/backend/core/student"
	roadmapsvc "github.com/doctorprep/backend/services/roadmap"
	"github.com/doctorprep/backend/storage/kvstore"
	"github.com/doctorprep/backend/storage/recordstore"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

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

type testLogger struct{}

func (testLogger) Enable(bool)                  {}
func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

type testEmailService struct{}

func (testEmailService) SendMessages(...*core.EmailMessage) {}

type testApp struct {
	server Server
	conf   *core.Config
	stdSvc student.Service
	qstSvc question.Service
	quiz   *quiz.Manager
}

func setupApp(t *testing.T) *testApp {
	t.Helper()

	conf := core.NewTestConfig()
	conf.Debug = false // keep structured error bodies
	store := kvstore.NewStore(kvstore.NewMemBackend(), testLogger{})

	stdRepo, err := recordstore.NewStudentRepository(store)
	if err != nil {
		t.Fatalf("setupApp() failed: %v", err)
	}
	qstRepo, err := recordstore.NewQuestionRepository(store)
	if err != nil {
		t.Fatalf("setupApp() failed: %v", err)
	}

	stdSvc := student.NewService(stdRepo, testEmailService{}, conf)
	qstSvc := question.NewService(qstRepo)
	quizMgr := quiz.NewManager(qstSvc)

	authenticator, err := auth.NewAuthenticator(conf, stdSvc)
	if err != nil {
		t.Fatalf("setupApp() failed: %v", err)
	}

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	question.InitValidators(validate, translator)

	server := NewServer(ServerDeps{
		Conf:        conf,
		Logger:      testLogger{},
		StudentSvc:  stdSvc,
		QuestionSvc: qstSvc,
		Auth:        authenticator,
		Quiz:        quizMgr,
		RoadmapGen:  roadmapsvc.NewCannedGenerator(),
		Validate:    validate,
		Translator:  translator,
	})

	return &testApp{server: server, conf: conf, stdSvc: stdSvc, qstSvc: qstSvc, quiz: quizMgr}
}

func (app *testApp) createStudent(t *testing.T, name, email, pwd string) student.Student {
	t.Helper()
	std, err := app.stdSvc.Create(student.NewStudent{
		Name: name, Email: email, Password: pwd, PasswordConfirm: pwd,
	})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return std
}

func (app *testApp) createQuestion(t *testing.T, text, correct, category, difficulty string) question.Question {
	t.Helper()
	q, err := app.qstSvc.Create(question.NewQuestion{
		Text:          text,
		Options:       map[string]string{"A": "a", "B": "b", "C": "c", "D": "d"},
		CorrectAnswer: correct,
		Category:      category,
		Difficulty:    difficulty,
		Explanation:   "because " + correct,
	})
	if err != nil {
		t.Fatalf("createQuestion() failed: %v", err)
	}
	return q
}

func (app *testApp) studentToken(t *testing.T, std student.Student) string {
	t.Helper()
	return app.token(t, auth.Result{Role: auth.RoleStudent, Student: &std})
}

func (app *testApp) adminToken(t *testing.T) string {
	t.Helper()
	return app.token(t, auth.Result{Role: auth.RoleAdmin})
}

func (app *testApp) token(t *testing.T, res auth.Result) string {
	t.Helper()
	token, err := GenerateToken(app.conf, GetAuthClaims(app.conf, res))
	if err != nil {
		t.Fatalf("token() failed: %v", err)
	}
	return token
}

func (app *testApp) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
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
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
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
