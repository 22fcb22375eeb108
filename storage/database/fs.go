package database

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsFS exposes the embedded migration files for external goose runs.
func MigrationsFS() fs.FS { return migrationsFS }
