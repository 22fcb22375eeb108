package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/doctorprep/backend/core"
	"github.com/doctorprep/backend/core/auth"
	"github.com/doctorprep/backend/core/question"
	"github.com/doctorprep/backend/core/quiz"
	"github.com/doctorprep/backend/core/roadmap"
	"github.com/doctorprep/backend/core/student"
	mediasvc "github.com/doctorprep/backend/services/media"
)

type (
	ServerDeps struct {
		Conf        *core.Config
		Logger      core.Logger
		StudentSvc  student.Service
		QuestionSvc question.Service
		Auth        *auth.Authenticator
		Quiz        *quiz.Manager
		RoadmapGen  roadmap.Generator
		Uploader    mediasvc.Uploader   // nil disables upload endpoints
		VideoAuth   mediasvc.VideoAuthorizer // nil enables mock video auth
		Validate    *validator.Validate
		Translator  ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps       ServerDeps
		app        *echo.Echo
		errCh      chan error
		shutdownCh chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:       deps,
		app:        echo.New(),
		errCh:      make(chan error, 1),
		shutdownCh: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(newJWTConfig(conf))

	registerStudentAPI(v1, jwt, s.deps)
	registerQuestionAPI(v1, jwt, s.deps)
	registerPracticeAPI(v1, jwt, s.deps)
	registerRoadmapAPI(v1, jwt, s.deps)
	registerMediaAPI(v1, jwt, s.deps)
}

func (s *server) Start() {
	signal.Notify(s.shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	s.errCh <- s.app.Start(s.deps.Conf.Server.Addr)
}

func (s *server) Errors() <-chan error            { return s.errCh }
func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdownCh }

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

// signalShutdown requests a graceful stop; used when an unrecoverable error
// surfaces in a handler.
func (s *server) signalShutdown() {
	s.shutdownCh <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to DoctorPrep API!")
}
