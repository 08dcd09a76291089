// Package postgres is the models.Store backed by postgres through bun.
package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/securex/securex/internal"
	"github.com/securex/securex/pkg/models"
	"github.com/securex/securex/pkg/store"
)

var log = internal.GetLogger()

// Force compiler to validate that Store implements the models.Store interface.
var _ models.Store = &Store{}

type Store struct {
	store.BaseStore[*bun.DB]
	records   *RecordDAO
	documents *DocumentDAO
}

// NewStore returns a new Store, creating the schema if needed. Use this to correctly initialize the store.
func NewStore(ctx context.Context, client *bun.DB) (*Store, error) {
	if client == nil {
		return nil, store.NewStorageError("nil db client received", nil)
	}

	s := &Store{
		BaseStore: store.BaseStore[*bun.DB]{Client: client},
		records:   NewRecordDAO(client),
		documents: NewDocumentDAO(client),
	}

	if err := CreateSchema(ctx, client); err != nil {
		return nil, store.NewStorageError("failed to ensure postgres schema setup", err)
	}
	return s, nil
}

func (s *Store) CreateRecord(ctx context.Context, record *models.Record) (*models.Record, error) {
	return s.records.Create(ctx, record)
}

func (s *Store) GetRecord(ctx context.Context, recordUUID uuid.UUID) (*models.Record, error) {
	return s.records.Get(ctx, recordUUID)
}

func (s *Store) ListRecords(ctx context.Context, limit, offset int) ([]*models.Record, error) {
	return s.records.List(ctx, limit, offset)
}

func (s *Store) DeleteRecord(ctx context.Context, recordUUID uuid.UUID) error {
	return s.records.Delete(ctx, recordUUID)
}

func (s *Store) CreateDocument(ctx context.Context, document *models.Document) (*models.Document, error) {
	return s.documents.Create(ctx, document)
}

func (s *Store) GetDocument(ctx context.Context, documentUUID uuid.UUID) (*models.Document, error) {
	return s.documents.Get(ctx, documentUUID)
}

func (s *Store) ListDocuments(ctx context.Context, limit, offset int) ([]*models.Document, error) {
	return s.documents.List(ctx, limit, offset)
}

func (s *Store) UpdateDocumentAnalysis(
	ctx context.Context,
	documentUUID uuid.UUID,
	analysis *models.DocumentAnalysis,
) error {
	return s.documents.UpdateAnalysis(ctx, documentUUID, analysis)
}

func (s *Store) DeleteDocument(ctx context.Context, documentUUID uuid.UUID) error {
	return s.documents.Delete(ctx, documentUUID)
}

// PurgeDeleted hard deletes soft deleted records and documents.
func (s *Store) PurgeDeleted(ctx context.Context) error {
	return purgeDeleted(ctx, s.Client)
}

func (s *Store) Close() error {
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}
