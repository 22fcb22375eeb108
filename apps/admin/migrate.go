package main

import (
	"database/sql"
	"errors"

	"github.com/pressly/goose/v3"

	"github.com/doctorprep/backend/storage/database"
)

var migrateFunc = database.Migrate // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errors.New("migrations require the postgres storage engine")
	}

	command := "up"
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "up":
		return migrateFunc(cli.db.DB)
	case "down":
		return gooseRun(cli.db.DB, goose.Down)
	case "status":
		return gooseRun(cli.db.DB, goose.Status)
	default:
		return errors.New("unknown migrate command: " + command)
	}
}

func gooseRun(db *sql.DB, run func(*sql.DB, string, ...goose.OptionsFunc) error) error {
	goose.SetBaseFS(database.MigrationsFS())
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return run(db, "migrations")
}
