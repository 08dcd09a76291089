package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// CleanDB drops all tables managed by the store, including migration bookkeeping.
func CleanDB(t *testing.T, db *bun.DB) {
	for _, schema := range tableList {
		_, err := db.NewDropTable().
			Model(schema).
			Cascade().
			IfExists().
			Exec(context.Background())
		require.NoError(t, err)
	}

	for _, table := range []string{"bun_migrations", "bun_migration_locks"} {
		_, err := db.NewDropTable().
			Table(table).
			IfExists().
			Exec(context.Background())
		require.NoError(t, err)
	}
}
