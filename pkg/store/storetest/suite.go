// Package storetest holds the behaviour every models.Store must share.
package storetest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securex/securex/pkg/models"
	"github.com/securex/securex/pkg/testutils"
)

// RunStoreTests runs the shared store tests against stores built by newStore.
func RunStoreTests(t *testing.T, newStore func(t *testing.T) models.Store) {
	t.Run("records", func(t *testing.T) { testRecords(t, newStore(t)) })
	t.Run("record pagination", func(t *testing.T) { testRecordPagination(t, newStore(t)) })
	t.Run("record plaintext rejected", func(t *testing.T) { testRecordPlaintextRejected(t, newStore(t)) })
	t.Run("documents", func(t *testing.T) { testDocuments(t, newStore(t)) })
	t.Run("document not found", func(t *testing.T) { testDocumentNotFound(t, newStore(t)) })
}

func testRecord(crimeNo string) *models.Record {
	return &models.Record{
		CrimeNo: crimeNo,
		Fields: map[string]models.FieldValue{
			"crime_no": {
				Name:    "crime_no",
				Title:   "Crime No",
				Section: 1,
				Value:   crimeNo,
				State:   models.FieldPlaintext,
			},
			"complainant_informant_name": {
				Name:      "complainant_informant_name",
				Title:     "Name",
				Section:   5,
				Value:     "bm9uY2UrY2lwaGVydGV4dA==",
				State:     models.FieldCiphertext,
				Anonymize: true,
			},
		},
	}
}

func testRecords(t *testing.T, s models.Store) {
	ctx := context.Background()

	created, err := s.CreateRecord(ctx, testRecord("0142/2024"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.UUID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetRecord(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, "0142/2024", got.CrimeNo)
	assert.Equal(t, created.Fields, got.Fields)

	// returned values are copies
	got.Fields["crime_no"] = models.FieldValue{Value: "tampered"}
	again, err := s.GetRecord(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, "0142/2024", again.Fields["crime_no"].Value)

	require.NoError(t, s.DeleteRecord(ctx, created.UUID))

	_, err = s.GetRecord(ctx, created.UUID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = s.DeleteRecord(ctx, created.UUID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func testRecordPagination(t *testing.T, s models.Store) {
	ctx := context.Background()

	for _, crimeNo := range []string{"1/2024", "2/2024", "3/2024", "4/2024", "5/2024"} {
		_, err := s.CreateRecord(ctx, testRecord(crimeNo))
		require.NoError(t, err)
	}

	first, err := s.ListRecords(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "5/2024", first[0].CrimeNo)
	assert.Equal(t, "4/2024", first[1].CrimeNo)

	last, err := s.ListRecords(ctx, 2, 4)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "1/2024", last[0].CrimeNo)

	none, err := s.ListRecords(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testRecordPlaintextRejected(t *testing.T, s models.Store) {
	record := testRecord("9/2024")
	f := record.Fields["complainant_informant_name"]
	f.Value = "Ravi Kumar"
	f.State = models.FieldPlaintext
	record.Fields["complainant_informant_name"] = f

	_, err := s.CreateRecord(context.Background(), record)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func testDocuments(t *testing.T, s models.Store) {
	ctx := context.Background()

	name := testutils.GenerateRandomString(12) + ".txt"
	created, err := s.CreateDocument(ctx, &models.Document{
		Name:     name,
		Text:     "My aadhar number is 222818318317.",
		Language: "en",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DocumentPending, created.Status)
	assert.Empty(t, created.Spans)

	spans := models.ResolvedSpanSet{{Start: 20, End: 32, EntityType: "IN_AADHAAR", Score: 0.99}}
	require.NoError(t, s.UpdateDocumentAnalysis(ctx, created.UUID, &models.DocumentAnalysis{
		Status: models.DocumentAnalyzed,
		Spans:  spans,
	}))

	got, err := s.GetDocument(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentAnalyzed, got.Status)
	assert.Equal(t, spans, got.Spans)
	assert.Equal(t, "My aadhar number is 222818318317.", got.Text)

	require.NoError(t, s.UpdateDocumentAnalysis(ctx, created.UUID, &models.DocumentAnalysis{
		Status: models.DocumentFailed,
		Error:  "entity recognizer presidio unavailable",
	}))
	got, err = s.GetDocument(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentFailed, got.Status)
	assert.Equal(t, "entity recognizer presidio unavailable", got.Error)
	assert.Empty(t, got.Spans)

	list, err := s.ListDocuments(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.UUID, list[0].UUID)
	assert.Equal(t, name, list[0].Name)

	require.NoError(t, s.DeleteDocument(ctx, created.UUID))
	_, err = s.GetDocument(ctx, created.UUID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func testDocumentNotFound(t *testing.T, s models.Store) {
	ctx := context.Background()
	missing := uuid.New()

	_, err := s.GetDocument(ctx, missing)
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = s.UpdateDocumentAnalysis(ctx, missing, &models.DocumentAnalysis{Status: models.DocumentAnalyzed})
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = s.DeleteDocument(ctx, missing)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
