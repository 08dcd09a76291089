package store

import "github.com/securex/securex/pkg/models"

// BaseStore is the base implementation of a models.Store. Client is the underlying datastore client, such as a
// database connection.
type BaseStore[T any] struct {
	Client T
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageBounds clamps a requested page to sane limits.
func PageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// CheckRecordProtected rejects a record that carries the plaintext of a field
// flagged for anonymization.
func CheckRecordProtected(record *models.Record) error {
	for name, f := range record.Fields {
		if f.Anonymize && f.State != models.FieldCiphertext {
			return models.NewValidationError("field %s must be encrypted before it is stored", name)
		}
	}
	return nil
}
