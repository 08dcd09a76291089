package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/securex/securex/internal"
)

var log = internal.GetLogger()

//go:embed *.sql
var sqlMigrations embed.FS

// Migrate applies the embedded SQL migrations that have not yet run.
func Migrate(ctx context.Context, db *bun.DB) error {
	migrations := migrate.NewMigrations()

	if err := migrations.Discover(sqlMigrations); err != nil {
		return fmt.Errorf("failed to discover migrations: %w", err)
	}

	migrator := migrate.NewMigrator(db, migrations)

	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to init migrator: %w", err)
	}

	if err := migrator.Lock(ctx); err != nil {
		return fmt.Errorf("failed to lock migrator: %w", err)
	}
	defer func() {
		if err := migrator.Unlock(ctx); err != nil {
			log.Errorf("failed to unlock migrator: %v", err)
		}
	}()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		if _, rbErr := migrator.Rollback(ctx); rbErr != nil {
			return fmt.Errorf(
				"failed to apply migrations and rollback was unsuccessful: %w",
				errors.Join(err, rbErr),
			)
		}
		return fmt.Errorf("failed to apply migrations. rolled back successfully: %w", err)
	}

	if group.IsZero() {
		log.Info("there are no new migrations to run (database is up to date)")
		return nil
	}
	log.Infof("migrated to %s", group)

	return nil
}
