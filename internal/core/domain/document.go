package domain

import (
	"strconv"
	"time"
)

// DocumentStatus is the backend-side ingestion state of a document.
type DocumentStatus string

// Document statuses reported by the backend.
const (
	// StatusProcessing means ingestion is still running.
	StatusProcessing DocumentStatus = "processing"

	// StatusReady means the document is indexed and may be searched or viewed.
	StatusReady DocumentStatus = "ready"

	// StatusFailed means ingestion ended with an error.
	StatusFailed DocumentStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusProcessing, StatusReady, StatusFailed:
		return true
	default:
		return false
	}
}

// Label returns the text shown in the document panel status pill.
func (s DocumentStatus) Label() string {
	switch s {
	case StatusReady:
		return "Processed"
	case StatusProcessing:
		return "Processing…"
	default:
		return "Failed"
	}
}

// Document represents an uploaded PDF as listed by the backend.
// Documents are replaced wholesale on every registry refresh.
type Document struct {
	// ID is the backend identifier for the document.
	ID string `json:"doc_id"`

	// Filename is the original upload name. Nil when the backend has none.
	Filename *string `json:"filename"`

	// Status is the ingestion state.
	Status DocumentStatus `json:"status"`

	// Error carries the ingestion failure message, if any.
	Error *string `json:"error,omitempty"`

	// PageCount is known once ingestion has read the PDF.
	PageCount *int `json:"page_count"`

	// CreatedAt is when the document was uploaded.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the backend last changed the row.
	UpdatedAt time.Time `json:"updated_at"`
}

// Ready reports whether the document can be scoped or opened in the PDF view.
func (d Document) Ready() bool {
	return d.Status == StatusReady
}

// StatusLabel returns the status pill text for the document panel.
func (d Document) StatusLabel() string {
	return d.Status.Label()
}

// DisplayName returns the filename, or "(untitled)" when the backend has none.
func (d Document) DisplayName() string {
	if d.Filename == nil || *d.Filename == "" {
		return "(untitled)"
	}
	return *d.Filename
}

// Pages returns the page count, or zero when it is not known yet.
func (d Document) Pages() int {
	if d.PageCount == nil {
		return 0
	}
	return *d.PageCount
}

// Year returns the upload year, or an empty string for a zero timestamp.
func (d Document) Year() string {
	if d.CreatedAt.IsZero() {
		return ""
	}
	return strconv.Itoa(d.CreatedAt.Year())
}

// ShortID returns the first eight characters of the id.
func (d Document) ShortID() string {
	return ShortID(d.ID)
}

// ShortID truncates a document id for headers and status lines.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// ReadyDocuments filters docs down to the ready ones, keeping order.
func ReadyDocuments(docs []Document) []Document {
	ready := make([]Document, 0, len(docs))
	for i := range docs {
		if docs[i].Ready() {
			ready = append(ready, docs[i])
		}
	}
	return ready
}

// FindDocument returns the document with the given id.
func FindDocument(docs []Document, id string) (Document, bool) {
	for i := range docs {
		if docs[i].ID == id {
			return docs[i], true
		}
	}
	return Document{}, false
}
