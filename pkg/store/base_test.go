package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/securex/securex/pkg/models"
)

func TestPageBounds(t *testing.T) {
	tests := []struct {
		limit, offset       int
		wantLimit, wantOffs int
	}{
		{0, 0, DefaultPageSize, 0},
		{-5, -1, DefaultPageSize, 0},
		{10, 30, 10, 30},
		{1000, 0, MaxPageSize, 0},
	}

	for _, tt := range tests {
		limit, offset := PageBounds(tt.limit, tt.offset)
		assert.Equal(t, tt.wantLimit, limit)
		assert.Equal(t, tt.wantOffs, offset)
	}
}

func TestStorageErrorUnwrap(t *testing.T) {
	err := NewStorageError("failed to get record", sql.ErrConnDone)
	assert.True(t, errors.Is(err, sql.ErrConnDone))
	assert.Contains(t, err.Error(), "failed to get record")
}

func TestCheckRecordProtected(t *testing.T) {
	record := &models.Record{Fields: map[string]models.FieldValue{
		"district":                   {Name: "district", Value: "Mysuru", State: models.FieldPlaintext},
		"complainant_informant_name": {Name: "complainant_informant_name", Value: "c2VjcmV0", State: models.FieldCiphertext, Anonymize: true},
	}}
	assert.NoError(t, CheckRecordProtected(record))

	record.Fields["complainant_informant_age"] = models.FieldValue{Value: "42", State: models.FieldPlaintext, Anonymize: true}
	assert.ErrorIs(t, CheckRecordProtected(record), models.ErrValidation)
}
