package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/uptrace/bun"

	"github.com/securex/securex/pkg/models"
	"github.com/securex/securex/pkg/store"
)

type RecordDAO struct {
	db *bun.DB
}

func NewRecordDAO(db *bun.DB) *RecordDAO {
	return &RecordDAO{
		db: db,
	}
}

// Create inserts a record. Fields flagged for anonymization must already be ciphertext.
func (dao *RecordDAO) Create(
	ctx context.Context,
	record *models.Record,
) (*models.Record, error) {
	if err := store.CheckRecordProtected(record); err != nil {
		return nil, err
	}

	recordDB := &RecordSchema{
		CrimeNo: record.CrimeNo,
		Fields:  record.Fields,
	}
	_, err := dao.db.NewInsert().Model(recordDB).Returning("*").Exec(ctx)
	if err != nil {
		return nil, store.NewStorageError("failed to create record", err)
	}

	return recordSchemaToRecord(recordDB)
}

// Get gets a record by UUID.
func (dao *RecordDAO) Get(ctx context.Context, recordUUID uuid.UUID) (*models.Record, error) {
	record := new(RecordSchema)
	err := dao.db.NewSelect().Model(record).Where("uuid = ?", recordUUID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("record " + recordUUID.String())
		}
		return nil, store.NewStorageError("failed to get record", err)
	}
	return recordSchemaToRecord(record)
}

// List returns records newest first.
func (dao *RecordDAO) List(ctx context.Context, limit, offset int) ([]*models.Record, error) {
	limit, offset = store.PageBounds(limit, offset)

	var records []RecordSchema
	err := dao.db.NewSelect().
		Model(&records).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, store.NewStorageError("failed to list records", err)
	}

	out := make([]*models.Record, len(records))
	for i := range records {
		if out[i], err = recordSchemaToRecord(&records[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Delete soft-deletes a record.
func (dao *RecordDAO) Delete(ctx context.Context, recordUUID uuid.UUID) error {
	r, err := dao.db.NewDelete().
		Model((*RecordSchema)(nil)).
		Where("uuid = ?", recordUUID).
		Exec(ctx)
	if err != nil {
		return store.NewStorageError("failed to delete record", err)
	}
	return checkRowsAffected(r, "record "+recordUUID.String())
}

func recordSchemaToRecord(schema *RecordSchema) (*models.Record, error) {
	record := &models.Record{}
	if err := copier.Copy(record, schema); err != nil {
		return nil, fmt.Errorf("failed to copy record: %w", err)
	}
	return record, nil
}

func checkRowsAffected(r sql.Result, resource string) error {
	n, err := r.RowsAffected()
	if err != nil {
		return store.NewStorageError("failed to get rows affected", err)
	}
	if n == 0 {
		return models.NewNotFoundError(resource)
	}
	return nil
}
