package tasks

import (
	"encoding/json"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securex/securex/pkg/models"
	"github.com/securex/securex/pkg/testutils"
)

func createTestDocument(t *testing.T, appState *models.AppState) *models.Document {
	t.Helper()
	doc, err := appState.DocumentStore.CreateDocument(testCtx, &models.Document{
		Name:     "fir-0142.txt",
		Text:     testutils.FIRText,
		Language: "en",
	})
	require.NoError(t, err)
	return doc
}

func TestDocumentAnalyzerTask_Process(t *testing.T) {
	recognizer := &testutils.StubRecognizer{Spans: testutils.FIRTextSpans}
	appState := newTestAppState(t, recognizer)
	doc := createTestDocument(t, appState)

	task := NewDocumentAnalyzerTask(appState)
	require.NoError(t, task.Process(testCtx, doc.UUID))

	got, err := appState.DocumentStore.GetDocument(testCtx, doc.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentAnalyzed, got.Status)
	assert.Empty(t, got.Error)

	// the overlapping PHONE_NUMBER candidate inside the Aadhaar number is dropped
	require.Len(t, got.Spans, len(testutils.FIRTextSpans)-1)
	assert.NoError(t, got.Spans.Validate(models.TextLen(got.Text)))
	assert.Equal(t, "IN_AADHAAR", got.Spans[1].EntityType)

	requests := recognizer.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, testutils.FIRText, requests[0].Text)
	assert.Equal(t, "en", requests[0].Language)
}

func TestDocumentAnalyzerTask_RecognizerUnavailable(t *testing.T) {
	recognizer := &testutils.StubRecognizer{
		Err: models.NewRecognizerUnavailableError("stub", 503, nil),
	}
	appState := newTestAppState(t, recognizer)
	doc := createTestDocument(t, appState)

	task := NewDocumentAnalyzerTask(appState)
	err := task.Process(testCtx, doc.UUID)
	assert.ErrorIs(t, err, models.ErrRecognizerUnavailable)

	got, err := appState.DocumentStore.GetDocument(testCtx, doc.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentFailed, got.Status)
	assert.Contains(t, got.Error, "entity recognizer stub unavailable")
	assert.Empty(t, got.Spans)
}

func TestDocumentAnalyzerTask_InvalidSpans(t *testing.T) {
	recognizer := &testutils.StubRecognizer{
		Spans: []models.Span{{Start: 0, End: 1 << 20, EntityType: "PERSON", Score: 0.9}},
	}
	appState := newTestAppState(t, recognizer)
	doc := createTestDocument(t, appState)

	task := NewDocumentAnalyzerTask(appState)
	assert.NoError(t, task.Process(testCtx, doc.UUID))

	got, err := appState.DocumentStore.GetDocument(testCtx, doc.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentFailed, got.Status)
	assert.Contains(t, got.Error, "out of bounds")
	assert.Empty(t, got.Spans)
}

func TestDocumentAnalyzerTask_MissingDocument(t *testing.T) {
	recognizer := &testutils.StubRecognizer{}
	appState := newTestAppState(t, recognizer)

	task := NewDocumentAnalyzerTask(appState)
	assert.NoError(t, task.Process(testCtx, uuid.New()))
	assert.Empty(t, recognizer.Requests())
}

func TestDocumentAnalyzerTask_Execute(t *testing.T) {
	appState := newTestAppState(t, &testutils.StubRecognizer{Spans: testutils.FIRTextSpans})
	doc := createTestDocument(t, appState)

	payload, err := json.Marshal(models.DocumentTask{UUID: doc.UUID})
	require.NoError(t, err)

	task := NewDocumentAnalyzerTask(appState)
	require.NoError(t, task.Execute(testCtx, message.NewMessage(watermill.NewUUID(), payload)))

	got, err := appState.DocumentStore.GetDocument(testCtx, doc.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentAnalyzed, got.Status)

	err = task.Execute(testCtx, message.NewMessage(watermill.NewUUID(), []byte("not json")))
	assert.Error(t, err)
}
