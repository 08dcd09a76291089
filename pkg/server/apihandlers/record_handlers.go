package apihandlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/securex/securex/pkg/anonymizer"
	"github.com/securex/securex/pkg/models"
	"github.com/securex/securex/pkg/server/handlertools"
)

// CreateRecordHandler stores an FIR. Fields flagged for anonymization are
// encrypted before they reach the store.
//
//	POST /api/v1/records
func CreateRecordHandler(appState *models.AppState) http.HandlerFunc {
	service := anonymizer.NewServiceFromAppState(appState)
	store := appState.RecordStore
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateRecordRequest
		if err := handlertools.DecodeJSON(r, &req); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		fields, err := service.ProtectFields(req.Fields)
		if err != nil {
			handlertools.RenderServiceError(w, err)
			return
		}

		record := &models.Record{Fields: fields}
		if crimeNo, ok := fields["crime_no"]; ok && crimeNo.State == models.FieldPlaintext {
			record.CrimeNo = crimeNo.Value
		}

		created, err := store.CreateRecord(r.Context(), record)
		if err != nil {
			handlertools.RenderServiceError(w, err)
			return
		}

		handlertools.RenderJSON(w, created, http.StatusCreated)
	}
}

// GetRecordListHandler lists records newest first. Anonymized fields stay encrypted.
//
//	GET /api/v1/records?limit=&offset=
func GetRecordListHandler(appState *models.AppState) http.HandlerFunc {
	store := appState.RecordStore
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

		records, err := store.ListRecords(r.Context(), limit, offset)
		if err != nil {
			handlertools.RenderServiceError(w, err)
			return
		}

		handlertools.RenderJSON(w, records, http.StatusOK)
	}
}

// GetRecordHandler returns a record as stored.
//
//	GET /api/v1/records/{recordId}
func GetRecordHandler(appState *models.AppState) http.HandlerFunc {
	store := appState.RecordStore
	return func(w http.ResponseWriter, r *http.Request) {
		recordUUID := handlertools.UUIDFromURL(r, w, "recordId")
		if recordUUID == uuid.Nil {
			return
		}

		record, err := store.GetRecord(r.Context(), recordUUID)
		if err != nil {
			handlertools.RenderServiceError(w, err)
			return
		}

		handlertools.RenderJSON(w, record, http.StatusOK)
	}
}

// RevealRecordHandler returns a record with its anonymized fields decrypted
// and, unless redact=false, redacted for display.
//
//	GET /api/v1/records/{recordId}/reveal?redact=
func RevealRecordHandler(appState *models.AppState) http.HandlerFunc {
	service := anonymizer.NewServiceFromAppState(appState)
	store := appState.RecordStore
	return func(w http.ResponseWriter, r *http.Request) {
		recordUUID := handlertools.UUIDFromURL(r, w, "recordId")
		if recordUUID == uuid.Nil {
			return
		}
		redact, err := handlertools.BoolFromQuery(r, "redact", true)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		record, err := store.GetRecord(r.Context(), recordUUID)
		if err != nil {
			handlertools.RenderServiceError(w, err)
			return
		}
		record.Fields = service.RevealFields(record.Fields, redact)

		handlertools.RenderJSON(w, record, http.StatusOK)
	}
}

// DeleteRecordHandler deletes a record.
//
//	DELETE /api/v1/records/{recordId}
func DeleteRecordHandler(appState *models.AppState) http.HandlerFunc {
	store := appState.RecordStore
	return func(w http.ResponseWriter, r *http.Request) {
		recordUUID := handlertools.UUIDFromURL(r, w, "recordId")
		if recordUUID == uuid.Nil {
			return
		}

		if err := store.DeleteRecord(r.Context(), recordUUID); err != nil {
			handlertools.RenderServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
