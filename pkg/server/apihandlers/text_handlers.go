package apihandlers

import (
	"net/http"

	"github.com/securex/securex/pkg/anonymizer"
	"github.com/securex/securex/pkg/models"
	"github.com/securex/securex/pkg/server/handlertools"
)

// AnalyzeHandler detects and resolves the entities of a text.
//
//	POST /api/v1/analyze
func AnalyzeHandler(appState *models.AppState) http.HandlerFunc {
	service := anonymizer.NewServiceFromAppState(appState)
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.AnalyzeTextRequest
		if err := handlertools.DecodeJSON(r, &req); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		spans, err := service.Analyze(r.Context(), req.Text, &req.AnalyzeOptions)
		if err != nil {
			handlertools.RenderServiceError(w, err)
			return
		}

		handlertools.RenderJSON(w, models.AnalyzeTextResponse{Spans: spans}, http.StatusOK)
	}
}

// AnonymizeHandler applies operators to the entities of a text. The entities
// are detected unless analyzer_results is supplied.
//
//	POST /api/v1/anonymize
func AnonymizeHandler(appState *models.AppState) http.HandlerFunc {
	service := anonymizer.NewServiceFromAppState(appState)
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.AnonymizeRequest
		if err := handlertools.DecodeJSON(r, &req); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		result, err := service.Anonymize(r.Context(), &req)
		if err != nil {
			handlertools.RenderServiceError(w, err)
			return
		}

		handlertools.RenderJSON(w, result, http.StatusOK)
	}
}

// DeanonymizeHandler decrypts the encrypted items of a previous anonymize response.
//
//	POST /api/v1/deanonymize
func DeanonymizeHandler(appState *models.AppState) http.HandlerFunc {
	service := anonymizer.NewServiceFromAppState(appState)
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.DeanonymizeRequest
		if err := handlertools.DecodeJSON(r, &req); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		result, err := service.Deanonymize(req.Text, req.Items, req.Key)
		if err != nil {
			handlertools.RenderServiceError(w, err)
			return
		}

		handlertools.RenderJSON(w, result, http.StatusOK)
	}
}

// AnnotateHandler splits a text into plain and labelled entity segments.
//
//	POST /api/v1/annotate
func AnnotateHandler(appState *models.AppState) http.HandlerFunc {
	service := anonymizer.NewServiceFromAppState(appState)
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.AnalyzeTextRequest
		if err := handlertools.DecodeJSON(r, &req); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		resp, err := service.AnnotateText(r.Context(), req.Text, &req.AnalyzeOptions)
		if err != nil {
			handlertools.RenderServiceError(w, err)
			return
		}

		handlertools.RenderJSON(w, resp, http.StatusOK)
	}
}

// GetFieldsHandler lists the FIR form fields and their default anonymize flags.
//
//	GET /api/v1/fields
func GetFieldsHandler(_ *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		handlertools.RenderJSON(w, models.FIRFields, http.StatusOK)
	}
}
