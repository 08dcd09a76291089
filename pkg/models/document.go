package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentStatus tracks asynchronous analysis of an uploaded document.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentAnalyzed DocumentStatus = "analyzed"
	DocumentFailed   DocumentStatus = "failed"
)

// Document is the plain text of an uploaded file together with the resolved
// entity spans found in it.
type Document struct {
	UUID      uuid.UUID       `json:"uuid"`
	Name      string          `json:"name"`
	Text      string          `json:"text,omitempty"`
	Language  string          `json:"language"`
	Status    DocumentStatus  `json:"status"`
	Spans     ResolvedSpanSet `json:"spans,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CreateDocumentRequest struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Text     string `json:"text"     validate:"required"`
	Language string `json:"language" validate:"omitempty,len=2"`
}

// DocumentAnalysis is the outcome of analyzing a document.
type DocumentAnalysis struct {
	Status DocumentStatus
	Spans  ResolvedSpanSet
	Error  string
}
