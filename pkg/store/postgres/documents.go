package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/uptrace/bun"

	"github.com/securex/securex/pkg/models"
	"github.com/securex/securex/pkg/store"
)

type DocumentDAO struct {
	db *bun.DB
}

func NewDocumentDAO(db *bun.DB) *DocumentDAO {
	return &DocumentDAO{
		db: db,
	}
}

// Create inserts a document in the pending state.
func (dao *DocumentDAO) Create(
	ctx context.Context,
	document *models.Document,
) (*models.Document, error) {
	documentDB := &DocumentSchema{
		Name:     document.Name,
		Text:     document.Text,
		Language: document.Language,
		Status:   document.Status,
	}
	if documentDB.Status == "" {
		documentDB.Status = models.DocumentPending
	}
	if documentDB.Language == "" {
		documentDB.Language = "en"
	}

	_, err := dao.db.NewInsert().Model(documentDB).Returning("*").Exec(ctx)
	if err != nil {
		return nil, store.NewStorageError("failed to create document", err)
	}

	return documentSchemaToDocument(documentDB)
}

// Get gets a document by UUID.
func (dao *DocumentDAO) Get(ctx context.Context, documentUUID uuid.UUID) (*models.Document, error) {
	document := new(DocumentSchema)
	err := dao.db.NewSelect().Model(document).Where("uuid = ?", documentUUID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("document " + documentUUID.String())
		}
		return nil, store.NewStorageError("failed to get document", err)
	}
	return documentSchemaToDocument(document)
}

// List returns documents newest first, without their text.
func (dao *DocumentDAO) List(ctx context.Context, limit, offset int) ([]*models.Document, error) {
	limit, offset = store.PageBounds(limit, offset)

	var documents []DocumentSchema
	err := dao.db.NewSelect().
		Model(&documents).
		ExcludeColumn("text").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, store.NewStorageError("failed to list documents", err)
	}

	out := make([]*models.Document, len(documents))
	for i := range documents {
		if out[i], err = documentSchemaToDocument(&documents[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpdateAnalysis stores the outcome of analyzing a document. Spans are stored
// sorted by start.
func (dao *DocumentDAO) UpdateAnalysis(
	ctx context.Context,
	documentUUID uuid.UUID,
	analysis *models.DocumentAnalysis,
) error {
	spans := make(models.ResolvedSpanSet, len(analysis.Spans))
	copy(spans, analysis.Spans)
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	documentDB := &DocumentSchema{
		Status: analysis.Status,
		Spans:  spans,
		Error:  analysis.Error,
	}
	r, err := dao.db.NewUpdate().
		Model(documentDB).
		Column("status", "spans", "error", "updated_at").
		Where("uuid = ?", documentUUID).
		Exec(ctx)
	if err != nil {
		return store.NewStorageError("failed to update document analysis", err)
	}
	return checkRowsAffected(r, "document "+documentUUID.String())
}

// Delete soft-deletes a document.
func (dao *DocumentDAO) Delete(ctx context.Context, documentUUID uuid.UUID) error {
	r, err := dao.db.NewDelete().
		Model((*DocumentSchema)(nil)).
		Where("uuid = ?", documentUUID).
		Exec(ctx)
	if err != nil {
		return store.NewStorageError("failed to delete document", err)
	}
	return checkRowsAffected(r, "document "+documentUUID.String())
}

func documentSchemaToDocument(schema *DocumentSchema) (*models.Document, error) {
	document := &models.Document{}
	if err := copier.Copy(document, schema); err != nil {
		return nil, fmt.Errorf("failed to copy document: %w", err)
	}
	return document, nil
}
