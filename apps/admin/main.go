package main

import (
	"log"
	"os"

	"github.com/doctorprep/backend/core"
	"github.com/doctorprep/backend/storage/database"
	sqlxrepos "github.com/doctorprep/backend/storage/database/sqlx"
	"github.com/doctorprep/backend/storage/kvstore"
	"github.com/doctorprep/backend/storage/recordstore"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	cli := commandLine{conf: conf}
	errAndDie(setUpStorage(conf, &cli))
	if cli.db != nil {
		defer cli.db.Close()
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func setUpStorage(conf *core.Config, cli *commandLine) error {
	switch conf.Storage.Engine {
	case "postgres":
		if err := database.CreateIfNotExist(conf); err != nil {
			return err
		}
		db, err := database.Open(conf)
		if err != nil {
			return err
		}
		if err = db.Ping(); err != nil {
			return err
		}
		cli.db = db
		cli.stdRepo = sqlxrepos.NewStudentRepository(db)
		cli.qstRepo = sqlxrepos.NewQuestionRepository(db)
		return nil

	default: // "records"
		backend, err := kvstore.NewFileBackend(conf.Storage.Dir)
		if err != nil {
			return err
		}
		store := kvstore.NewStore(backend, consoleLogger{})
		if cli.stdRepo, err = recordstore.NewStudentRepository(store); err != nil {
			return err
		}
		cli.qstRepo, err = recordstore.NewQuestionRepository(store)
		return err
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

// consoleLogger satisfies core.Logger for the record store without pulling in
// the rollbar service.
type consoleLogger struct{}

func (consoleLogger) Enable(bool)                        {}
func (consoleLogger) Debug(msg string, _ ...interface{}) { logger.Println(msg) }
func (consoleLogger) Info(msg string, _ ...interface{})  { logger.Println(msg) }
func (consoleLogger) Warn(msg string, _ ...interface{})  { logger.Println(msg) }
func (consoleLogger) Error(msg string, _ ...interface{}) { logger.Println(msg) }
func (consoleLogger) Fatal(msg string, _ ...interface{}) { logger.Fatalln(msg) }
