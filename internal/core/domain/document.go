package domain

import "time"

// RawDocument is an uploaded document before normalisation.
type RawDocument struct {
	// DocumentID is the stable identity assigned by the metadata store.
	DocumentID string

	// ContentType is the declared MIME type (e.g., "application/pdf").
	ContentType string

	// Content is the raw bytes.
	Content []byte
}

// DocumentInfo is the metadata store's view of a document.
type DocumentInfo struct {
	// ID is the document identifier.
	ID string `json:"id"`

	// Filename is the original upload filename.
	Filename string `json:"filename"`

	// ContentType is the resolved MIME type.
	ContentType string `json:"content_type"`

	// Size is the raw upload size in bytes.
	Size int64 `json:"size"`

	// Description is an optional user-supplied description.
	Description string `json:"description,omitempty"`

	// UploadedAt is when the document was registered.
	UploadedAt time.Time `json:"uploaded_at"`
}
