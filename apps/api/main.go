package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/aeroprep/aeroprep/apps/api/echo"
	"github.com/aeroprep/aeroprep/core"
	"github.com/aeroprep/aeroprep/core/billing"
	"github.com/aeroprep/aeroprep/core/course"
	"github.com/aeroprep/aeroprep/core/exam"
	"github.com/aeroprep/aeroprep/core/question"
	"github.com/aeroprep/aeroprep/core/user"
	emailsvc "github.com/aeroprep/aeroprep/services/email"
	logsvc "github.com/aeroprep/aeroprep/services/logger"
	"github.com/aeroprep/aeroprep/storage/database"
	sqlxrepos "github.com/aeroprep/aeroprep/storage/database/sqlx"
	"github.com/aeroprep/aeroprep/storage/questionbank"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Error("failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrRepo := sqlxrepos.NewUserRepository(db)
	questionRepo := sqlxrepos.NewQuestionRepository(db)
	examRepo := sqlxrepos.NewExamRepository(db)
	courseRepo := sqlxrepos.NewCourseRepository(db)
	billingRepo := sqlxrepos.NewBillingRepository(db)

	usrSvc := user.NewService(conf, logger, usrRepo, mailSvc)

	sources := append(questionbank.DefaultSources(), questionRepo.Source())
	loader := question.NewLoader(conf, logger, sources,
		question.WithFallbacks(questionbank.Fallback(), questionbank.Minimal()),
	)
	questionSvc := question.NewService(questionRepo, loader)

	examSvc := exam.NewService(logger, examRepo, questionSvc)
	billingSvc := billing.NewService(conf, logger, billingRepo, mailSvc)
	courseSvc := course.NewService(logger, courseRepo, billingSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	core.InitValidators()
	question.InitValidators()
	user.InitValidators()

	core.ParseEmailTemplates(conf)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddr, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(&echoapi.Deps{
		Conf:        conf,
		Logger:      logger,
		UserSvc:     usrSvc,
		QuestionSvc: questionSvc,
		ExamSvc:     examSvc,
		CourseSvc:   courseSvc,
		BillingSvc:  billingSvc,
	})
	server.Start()

	// warm the practice cache in the background
	go loader.Preload(context.Background())

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}
