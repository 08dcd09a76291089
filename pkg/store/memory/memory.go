// Package memory is an in-process models.Store for tests and single-node
// deployments without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/securex/securex/pkg/models"
	"github.com/securex/securex/pkg/store"
)

var _ models.Store = &Store{}

type data struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]*models.Record
	documents map[uuid.UUID]*models.Document
	// insertion order, newest last
	recordOrder   []uuid.UUID
	documentOrder []uuid.UUID
}

type Store struct {
	store.BaseStore[*data]
}

func NewStore() *Store {
	return &Store{
		BaseStore: store.BaseStore[*data]{
			Client: &data{
				records:   map[uuid.UUID]*models.Record{},
				documents: map[uuid.UUID]*models.Document{},
			},
		},
	}
}

func (s *Store) Close() error {
	return nil
}

// cloneRecord and cloneDocument copy values so callers never share maps or
// slices with the store.
func cloneRecord(src *models.Record) *models.Record {
	dst := *src
	dst.Fields = make(map[string]models.FieldValue, len(src.Fields))
	for k, v := range src.Fields {
		dst.Fields[k] = v
	}
	return &dst
}

func cloneDocument(src *models.Document) *models.Document {
	dst := *src
	if src.Spans != nil {
		dst.Spans = make(models.ResolvedSpanSet, len(src.Spans))
		copy(dst.Spans, src.Spans)
	}
	return &dst
}

func page(order []uuid.UUID, limit, offset int) []uuid.UUID {
	limit, offset = store.PageBounds(limit, offset)
	newestFirst := make([]uuid.UUID, len(order))
	for i, id := range order {
		newestFirst[len(order)-1-i] = id
	}
	if offset >= len(newestFirst) {
		return nil
	}
	return newestFirst[offset:min(offset+limit, len(newestFirst))]
}

func (s *Store) CreateRecord(_ context.Context, record *models.Record) (*models.Record, error) {
	if err := store.CheckRecordProtected(record); err != nil {
		return nil, err
	}
	stored := cloneRecord(record)
	now := time.Now().UTC()
	stored.UUID = uuid.New()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	d := s.Client
	d.mu.Lock()
	d.records[stored.UUID] = stored
	d.recordOrder = append(d.recordOrder, stored.UUID)
	d.mu.Unlock()

	return cloneRecord(stored), nil
}

func (s *Store) GetRecord(_ context.Context, recordUUID uuid.UUID) (*models.Record, error) {
	d := s.Client
	d.mu.RLock()
	defer d.mu.RUnlock()

	record, ok := d.records[recordUUID]
	if !ok {
		return nil, models.NewNotFoundError("record " + recordUUID.String())
	}
	return cloneRecord(record), nil
}

func (s *Store) ListRecords(_ context.Context, limit, offset int) ([]*models.Record, error) {
	d := s.Client
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := page(d.recordOrder, limit, offset)
	out := make([]*models.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneRecord(d.records[id]))
	}
	return out, nil
}

func (s *Store) DeleteRecord(_ context.Context, recordUUID uuid.UUID) error {
	d := s.Client
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.records[recordUUID]; !ok {
		return models.NewNotFoundError("record " + recordUUID.String())
	}
	delete(d.records, recordUUID)
	d.recordOrder = remove(d.recordOrder, recordUUID)
	return nil
}

func (s *Store) CreateDocument(_ context.Context, document *models.Document) (*models.Document, error) {
	stored := cloneDocument(document)
	now := time.Now().UTC()
	stored.UUID = uuid.New()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.Status == "" {
		stored.Status = models.DocumentPending
	}

	d := s.Client
	d.mu.Lock()
	d.documents[stored.UUID] = stored
	d.documentOrder = append(d.documentOrder, stored.UUID)
	d.mu.Unlock()

	return cloneDocument(stored), nil
}

func (s *Store) GetDocument(_ context.Context, documentUUID uuid.UUID) (*models.Document, error) {
	d := s.Client
	d.mu.RLock()
	defer d.mu.RUnlock()

	document, ok := d.documents[documentUUID]
	if !ok {
		return nil, models.NewNotFoundError("document " + documentUUID.String())
	}
	return cloneDocument(document), nil
}

func (s *Store) ListDocuments(_ context.Context, limit, offset int) ([]*models.Document, error) {
	d := s.Client
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := page(d.documentOrder, limit, offset)
	out := make([]*models.Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneDocument(d.documents[id]))
	}
	return out, nil
}

func (s *Store) UpdateDocumentAnalysis(
	_ context.Context,
	documentUUID uuid.UUID,
	analysis *models.DocumentAnalysis,
) error {
	d := s.Client
	d.mu.Lock()
	defer d.mu.Unlock()

	document, ok := d.documents[documentUUID]
	if !ok {
		return models.NewNotFoundError("document " + documentUUID.String())
	}

	spans := make(models.ResolvedSpanSet, len(analysis.Spans))
	copy(spans, analysis.Spans)
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	document.Status = analysis.Status
	document.Spans = spans
	document.Error = analysis.Error
	document.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) DeleteDocument(_ context.Context, documentUUID uuid.UUID) error {
	d := s.Client
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.documents[documentUUID]; !ok {
		return models.NewNotFoundError("document " + documentUUID.String())
	}
	delete(d.documents, documentUUID)
	d.documentOrder = remove(d.documentOrder, documentUUID)
	return nil
}

func remove(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
