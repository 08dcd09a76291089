package models

import (
	"context"

	"github.com/google/uuid"
)

// RecordStore persists FIR records. Implementations must never receive the
// plaintext of a field flagged for anonymization.
type RecordStore interface {
	CreateRecord(ctx context.Context, record *Record) (*Record, error)
	GetRecord(ctx context.Context, recordUUID uuid.UUID) (*Record, error)
	ListRecords(ctx context.Context, limit, offset int) ([]*Record, error)
	DeleteRecord(ctx context.Context, recordUUID uuid.UUID) error
}

// DocumentStore persists uploaded documents and their analysis.
type DocumentStore interface {
	CreateDocument(ctx context.Context, document *Document) (*Document, error)
	GetDocument(ctx context.Context, documentUUID uuid.UUID) (*Document, error)
	ListDocuments(ctx context.Context, limit, offset int) ([]*Document, error)
	UpdateDocumentAnalysis(
		ctx context.Context,
		documentUUID uuid.UUID,
		analysis *DocumentAnalysis,
	) error
	DeleteDocument(ctx context.Context, documentUUID uuid.UUID) error
}

// Store bundles the stores backed by one database.
type Store interface {
	RecordStore
	DocumentStore
	// Close is called when the application is shutting down.
	Close() error
}
