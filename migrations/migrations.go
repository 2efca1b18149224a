// Package migrations holds the subscription-store schema as embedded goose
// SQL files.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var files embed.FS

const dialect = "sqlite3"

// Prepare points goose at the embedded files. Callers driving goose commands
// directly (the migrate CLI) call it once before issuing them.
func Prepare() error {
	goose.SetBaseFS(files)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Up brings db to the newest schema version.
func Up(db *sql.DB) error {
	if err := Prepare(); err != nil {
		return err
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
