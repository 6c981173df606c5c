package accounts

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded schema migrations. dialect is a goose
// dialect name, e.g. "sqlite3" or "postgres".
func RunMigrations(ctx context.Context, db *sql.DB, dialect string) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect(dialect); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "unknown migration dialect")
	}

	if err := goose.UpContext(ctx, db, "data/sql/migrations"); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to run schema migrations")
	}

	return nil
}
