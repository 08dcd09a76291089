package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// purgeDeleted hard deletes all soft deleted rows.
func purgeDeleted(ctx context.Context, db *bun.DB) error {
	log.Debugf("purging deleted rows")

	for _, schema := range tableList {
		log.Debugf("purging schema %T", schema)
		_, err := db.NewDelete().
			Model(schema).
			WhereDeleted().
			ForceDelete().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("error purging rows from %T: %w", schema, err)
		}
	}
	log.Info("completed purging deleted rows")

	return nil
}
