package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/aeroprep/aeroprep/core"
	"github.com/aeroprep/aeroprep/core/billing"
	"github.com/aeroprep/aeroprep/core/course"
	"github.com/aeroprep/aeroprep/core/exam"
	"github.com/aeroprep/aeroprep/core/question"
	"github.com/aeroprep/aeroprep/core/user"
)

type (
	Deps struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool

		UserSvc     user.Service
		QuestionSvc question.Service
		ExamSvc     exam.Service
		CourseSvc   course.Service
		BillingSvc  billing.Service
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
		deps   *Deps
		app    *echo.Echo
		errCh  chan error
		shutCh chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps *Deps) Server {
	s := &server{
		deps:   deps,
		app:    echo.New(),
		errCh:  make(chan error, 1),
		shutCh: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutCh, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(newJWTConfig(conf))

	registerUserAPI(v1, jwt, conf, s.deps.UserSvc)
	registerQuestionAPI(v1, jwt, s.deps.QuestionSvc)
	registerExamAPI(v1, jwt, s.deps.ExamSvc)
	registerCourseAPI(v1, jwt, s.deps.CourseSvc)
	registerBillingAPI(v1, jwt, conf, s.deps.BillingSvc, s.deps.UserSvc)
}

func (s *server) Start() {
	go func() {
		s.errCh <- s.app.Start(s.deps.Conf.Server.Addr)
	}()
}

func (s *server) Errors() <-chan error { return s.errCh }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutCh }

// signalShutdown requests a graceful shutdown, for unrecoverable errors.
func (s *server) signalShutdown() {
	s.shutCh <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to AeroPrep API!")
}
