package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securex/securex/pkg/models"
	"github.com/securex/securex/pkg/testutils"
)

func TestRunTaskRouter(t *testing.T) {
	ctx, done := context.WithTimeout(testCtx, 10*time.Second)
	defer done()

	appState := newTestAppState(t, &testutils.StubRecognizer{Spans: testutils.FIRTextSpans})

	// run the router
	err := RunTaskRouter(ctx, appState, NewChannelQueue())
	require.NoError(t, err)

	// check that the router is configured
	require.NotNil(t, appState.TaskRouter, "task router is nil")
	require.NotNil(t, appState.TaskPublisher, "task publisher is nil")
	assert.True(t, appState.TaskRouter.IsRunning())

	doc := createTestDocument(t, appState)
	err = appState.TaskPublisher.Publish(
		models.DocumentAnalyzerTopic,
		map[string]string{"document_uuid": doc.UUID.String()},
		models.DocumentTask{UUID: doc.UUID},
	)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		got, err := appState.DocumentStore.GetDocument(ctx, doc.UUID)
		return err == nil && got.Status == models.DocumentAnalyzed
	}, 5*time.Second, 50*time.Millisecond)

	err = appState.TaskRouter.Close()
	assert.NoError(t, err, "failed to close task router")
}

func TestRunTaskRouter_InvalidSpansNotRetried(t *testing.T) {
	ctx, done := context.WithTimeout(testCtx, 10*time.Second)
	defer done()

	recognizer := &testutils.StubRecognizer{
		Spans: []models.Span{{Start: 0, End: 1 << 20, EntityType: "PERSON", Score: 0.9}},
	}
	appState := newTestAppState(t, recognizer)

	err := RunTaskRouter(ctx, appState, NewChannelQueue())
	require.NoError(t, err)

	doc := createTestDocument(t, appState)
	err = appState.TaskPublisher.Publish(
		models.DocumentAnalyzerTopic,
		map[string]string{"document_uuid": doc.UUID.String()},
		models.DocumentTask{UUID: doc.UUID},
	)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		got, err := appState.DocumentStore.GetDocument(ctx, doc.UUID)
		return err == nil && got.Status == models.DocumentFailed
	}, 5*time.Second, 50*time.Millisecond)

	// a redelivery loop would keep calling the recognizer
	time.Sleep(2 * time.Second)
	assert.Len(t, recognizer.Requests(), 1)

	err = appState.TaskRouter.Close()
	assert.NoError(t, err, "failed to close task router")
}

func TestRunTaskRouter_DisabledTask(t *testing.T) {
	ctx, done := context.WithTimeout(testCtx, 10*time.Second)
	defer done()

	appState := newTestAppState(t, &testutils.StubRecognizer{})
	appState.Config.Tasks.DocumentAnalyzer.Enabled = false

	router, err := NewTaskRouter(appState, NewChannelQueue())
	require.NoError(t, err)

	Initialize(ctx, appState, router)
	assert.Empty(t, router.Handlers())
	assert.NoError(t, router.Close())
}
