// Package migrations embeds the SQL schema migrations and applies them with goose.
package migrations

import (
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"

	"ridelink/internal/errors"
)

//go:embed *.sql
var embedMigrations embed.FS

// Migrate applies all pending migrations against the given database handle.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "migration error setting dialect for db")
	}

	if err := goose.Up(db, "."); err != nil {
		return errors.Wrap(err, "migration error")
	}

	return nil
}
