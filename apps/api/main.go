package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/doctorprep/backend/apps/api/echo"
	"github.com/doctorprep/backend/core"
	"github.com/doctorprep/backend/core/auth"
	"github.com/doctorprep/backend/core/question"
	"github.com/doctorprep/backend/core/quiz"
	"github.com/doctorprep/backend/core/roadmap"
	"github.com/doctorprep/backend/core/student"
	emailsvc "github.com/doctorprep/backend/services/email"
	logsvc "github.com/doctorprep/backend/services/logger"
	mediasvc "github.com/doctorprep/backend/services/media"
	roadmapsvc "github.com/doctorprep/backend/services/roadmap"
	"github.com/doctorprep/backend/storage/database"
	sqlxrepos "github.com/doctorprep/backend/storage/database/sqlx"
	"github.com/doctorprep/backend/storage/kvstore"
	"github.com/doctorprep/backend/storage/recordstore"
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

	// set up repositories
	studentRepo, questionRepo, closeStorage, err := setUpStorage(conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	defer closeStorage()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	stdSvc := student.NewService(studentRepo, mailSvc, conf)
	qstSvc := question.NewService(questionRepo)
	quizMgr := quiz.NewManager(qstSvc)

	authenticator, err := auth.NewAuthenticator(conf, stdSvc)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up authenticator: %v", err), err)
	}

	var roadmapGen roadmap.Generator
	if key := conf.OpenAI.APIKey; key == "" || strings.Contains(key, "dummy") {
		roadmapGen = roadmapsvc.NewCannedGenerator()
	} else {
		roadmapGen = roadmapsvc.NewOpenAIGenerator(conf, logger)
	}

	var uploader mediasvc.Uploader
	if conf.AWS.UploadBucket != "" {
		if uploader, err = mediasvc.NewS3Uploader(conf); err != nil {
			logger.Error(fmt.Sprintf("setting up uploads: %v", err), err)
		}
	}
	var videoAuth mediasvc.VideoAuthorizer
	if conf.AWS.CloudFrontKeyID != "" && conf.AWS.CloudFrontPrivateKey != "" {
		if videoAuth, err = mediasvc.NewCloudFrontAuthorizer(conf); err != nil {
			logger.Error(fmt.Sprintf("setting up video auth: %v", err), err)
		}
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	question.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddr, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			StudentSvc:  stdSvc,
			QuestionSvc: qstSvc,
			Auth:        authenticator,
			Quiz:        quizMgr,
			RoadmapGen:  roadmapGen,
			Uploader:    uploader,
			VideoAuth:   videoAuth,
			Validate:    validate,
			Translator:  translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpStorage builds the repository pair for the configured engine and
// returns a cleanup func.
func setUpStorage(conf *core.Config, logger core.Logger) (student.Repository, question.Repository, func(), error) {
	switch conf.Storage.Engine {
	case "postgres":
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, nil, nil, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, nil, nil, err
		}
		if err = database.Migrate(db.DB); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		cleanup := func() {
			if err := db.Close(); err != nil {
				logger.Error("closing database", err)
			}
		}
		return sqlxrepos.NewStudentRepository(db), sqlxrepos.NewQuestionRepository(db), cleanup, nil

	default: // "records"
		backend, err := kvstore.NewFileBackend(conf.Storage.Dir)
		if err != nil {
			return nil, nil, nil, err
		}
		store := kvstore.NewStore(backend, logger)
		studentRepo, err := recordstore.NewStudentRepository(store)
		if err != nil {
			return nil, nil, nil, err
		}
		questionRepo, err := recordstore.NewQuestionRepository(store)
		if err != nil {
			return nil, nil, nil, err
		}
		return studentRepo, questionRepo, func() {}, nil
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
