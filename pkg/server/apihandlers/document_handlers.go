package apihandlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/securex/securex/internal"
	"github.com/securex/securex/pkg/anonymizer"
	"github.com/securex/securex/pkg/models"
	"github.com/securex/securex/pkg/server/handlertools"
)

var log = internal.GetLogger()

// CreateDocumentHandler stores the plain text of an uploaded document and
// queues it for analysis.
//
//	POST /api/v1/documents
func CreateDocumentHandler(appState *models.AppState) http.HandlerFunc {
	store := appState.DocumentStore
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateDocumentRequest
		if err := handlertools.DecodeJSON(r, &req); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		language := req.Language
		if language == "" {
			language = appState.Config.Recognizer.Language
		}

		document, err := store.CreateDocument(r.Context(), &models.Document{
			Name:     req.Name,
			Text:     req.Text,
			Language: language,
		})
		if err != nil {
			handlertools.RenderServiceError(w, err)
			return
		}
		log.Debugf("document %s created, %s", document.UUID, internal.TextSize(document.Text))

		if appState.TaskPublisher != nil {
			err = appState.TaskPublisher.Publish(
				models.DocumentAnalyzerTopic,
				map[string]string{"document_uuid": document.UUID.String()},
				models.DocumentTask{UUID: document.UUID},
			)
			if err != nil {
				// annotations fall back to analyzing on demand
				log.Errorf("failed to queue analysis of document %s: %v", document.UUID, err)
			}
		}

		handlertools.RenderJSON(w, document, http.StatusAccepted)
	}
}

// GetDocumentListHandler lists documents newest first.
//
//	GET /api/v1/documents?limit=&offset=
func GetDocumentListHandler(appState *models.AppState) http.HandlerFunc {
	store := appState.DocumentStore
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := handlertools.IntFromQuery[int](r, "limit")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		offset, err := handlertools.IntFromQuery[int](r, "offset")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		documents, err := store.ListDocuments(r.Context(), limit, offset)
		if err != nil {
			handlertools.RenderServiceError(w, err)
			return
		}

		handlertools.RenderJSON(w, documents, http.StatusOK)
	}
}

// GetDocumentHandler returns a document and its analysis status.
//
//	GET /api/v1/documents/{documentId}
func GetDocumentHandler(appState *models.AppState) http.HandlerFunc {
	store := appState.DocumentStore
	return func(w http.ResponseWriter, r *http.Request) {
		documentUUID := handlertools.UUIDFromURL(r, w, "documentId")
		if documentUUID == uuid.Nil {
			return
		}

		document, err := store.GetDocument(r.Context(), documentUUID)
		if err != nil {
			handlertools.RenderServiceError(w, err)
			return
		}

		handlertools.RenderJSON(w, document, http.StatusOK)
	}
}

// GetDocumentAnnotationsHandler splits a document into plain and entity
// segments, analyzing it now if the queued analysis has not completed.
//
//	GET /api/v1/documents/{documentId}/annotations
func GetDocumentAnnotationsHandler(appState *models.AppState) http.HandlerFunc {
	service := anonymizer.NewServiceFromAppState(appState)
	store := appState.DocumentStore
	return func(w http.ResponseWriter, r *http.Request) {
		documentUUID := handlertools.UUIDFromURL(r, w, "documentId")
		if documentUUID == uuid.Nil {
			return
		}

		document, err := store.GetDocument(r.Context(), documentUUID)
		if err != nil {
			handlertools.RenderServiceError(w, err)
			return
		}

		var resp *models.AnnotateResponse
		if document.Status == models.DocumentAnalyzed {
			resp, err = anonymizer.AnnotateSpans(document.Text, document.Spans)
		} else {
			resp, err = service.AnnotateText(
				r.Context(),
				document.Text,
				&models.AnalyzeOptions{Language: document.Language},
			)
		}
		if err != nil {
			handlertools.RenderServiceError(w, err)
			return
		}

		handlertools.RenderJSON(w, resp, http.StatusOK)
	}
}

// AnonymizeDocumentHandler applies operators to a stored document.
//
//	POST /api/v1/documents/{documentId}/anonymize
func AnonymizeDocumentHandler(appState *models.AppState) http.HandlerFunc {
	service := anonymizer.NewServiceFromAppState(appState)
	store := appState.DocumentStore
	return func(w http.ResponseWriter, r *http.Request) {
		documentUUID := handlertools.UUIDFromURL(r, w, "documentId")
		if documentUUID == uuid.Nil {
			return
		}

		var req models.AnonymizeDocumentRequest
		if err := handlertools.DecodeJSON(r, &req); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		document, err := store.GetDocument(r.Context(), documentUUID)
		if err != nil {
			handlertools.RenderServiceError(w, err)
			return
		}

		anonymizeReq := &models.AnonymizeRequest{
			Text:           document.Text,
			AnalyzeOptions: models.AnalyzeOptions{Language: document.Language},
			Operators:      req.Operators,
		}
		if document.Status == models.DocumentAnalyzed {
			anonymizeReq.AnalyzerResults = append([]models.Span{}, document.Spans...)
		}

		result, err := service.Anonymize(r.Context(), anonymizeReq)
		if err != nil {
			handlertools.RenderServiceError(w, err)
			return
		}

		handlertools.RenderJSON(w, result, http.StatusOK)
	}
}

// DeleteDocumentHandler deletes a document.
//
//	DELETE /api/v1/documents/{documentId}
func DeleteDocumentHandler(appState *models.AppState) http.HandlerFunc {
	store := appState.DocumentStore
	return func(w http.ResponseWriter, r *http.Request) {
		documentUUID := handlertools.UUIDFromURL(r, w, "documentId")
		if documentUUID == uuid.Nil {
			return
		}

		if err := store.DeleteDocument(r.Context(), documentUUID); err != nil {
			handlertools.RenderServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
