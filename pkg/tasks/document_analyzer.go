package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/securex/securex/pkg/anonymizer"
	"github.com/securex/securex/pkg/models"
)

var _ models.Task = &DocumentAnalyzerTask{}

func NewDocumentAnalyzerTask(
	appState *models.AppState,
) *DocumentAnalyzerTask {
	return &DocumentAnalyzerTask{
		BaseTask: BaseTask{
			appState: appState,
		},
		service: anonymizer.NewServiceFromAppState(appState),
	}
}

// DocumentAnalyzerTask runs entity recognition over an uploaded document and
// stores the resolved spans on it.
type DocumentAnalyzerTask struct {
	BaseTask
	service *anonymizer.Service
}

func (dt *DocumentAnalyzerTask) Execute(
	ctx context.Context,
	msg *message.Message,
) error {
	ctx, done := context.WithTimeout(ctx, TaskTimeout*time.Second)
	defer done()

	var task models.DocumentTask
	err := json.Unmarshal(msg.Payload, &task)
	if err != nil {
		return fmt.Errorf("failed to unmarshal document task payload: %w", err)
	}
	log.Debugf("DocumentAnalyzerTask called for document %s", task.UUID)

	err = dt.Process(ctx, task.UUID)
	if err != nil {
		return err
	}

	msg.Ack()

	return nil
}

// Process analyzes one document. Any analysis failure marks the document
// failed. Only an unavailable recognizer is returned so the message is
// retried; other failures would fail again and are acked.
func (dt *DocumentAnalyzerTask) Process(ctx context.Context, documentUUID uuid.UUID) error {
	store := dt.appState.DocumentStore

	document, err := store.GetDocument(ctx, documentUUID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warnf("DocumentAnalyzerTask document not found. Was it deleted? %v", err)
			// Don't error out
			return nil
		}
		return fmt.Errorf("DocumentAnalyzerTask get document failed: %w", err)
	}

	spans, err := dt.service.Analyze(
		ctx,
		document.Text,
		&models.AnalyzeOptions{Language: document.Language},
	)
	if err != nil {
		updateErr := store.UpdateDocumentAnalysis(ctx, documentUUID, &models.DocumentAnalysis{
			Status: models.DocumentFailed,
			Error:  err.Error(),
		})
		if updateErr != nil {
			log.Errorf("DocumentAnalyzerTask failed to mark document %s failed: %v", documentUUID, updateErr)
		}
		if errors.Is(err, models.ErrRecognizerUnavailable) {
			return fmt.Errorf("DocumentAnalyzerTask analyze failed: %w", err)
		}
		log.Warnf("DocumentAnalyzerTask document %s cannot be analyzed: %v", documentUUID, err)
		return nil
	}

	err = store.UpdateDocumentAnalysis(ctx, documentUUID, &models.DocumentAnalysis{
		Status: models.DocumentAnalyzed,
		Spans:  spans,
	})
	if err != nil {
		return fmt.Errorf("DocumentAnalyzerTask update document failed: %w", err)
	}
	log.Debugf("DocumentAnalyzerTask found %d entities in document %s", len(spans), documentUUID)

	return nil
}
