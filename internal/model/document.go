package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DocumentType is the closed set of document kinds.
type DocumentType string

const (
	TypeText    DocumentType = "text"
	TypeTabular DocumentType = "tabular"
	TypeOther   DocumentType = "other"
)

// ErrInvalidDocumentType is returned for a type outside the closed set.
var ErrInvalidDocumentType = errors.New("invalid document type")

// Valid reports whether t is one of the known document types.
func (t DocumentType) Valid() bool {
	switch t {
	case TypeText, TypeTabular, TypeOther:
		return true
	}
	return false
}

// ParseDocumentType converts a string tag into a DocumentType.
func ParseDocumentType(s string) (DocumentType, error) {
	t := DocumentType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDocumentType, s)
	}
	return t, nil
}

// InferDocumentType guesses the document type from a MIME type and file extension.
func InferDocumentType(mimeType, ext string) DocumentType {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))

	switch ext {
	case "csv", "tsv", "xls", "xlsx", "ods":
		return TypeTabular
	case "txt", "md", "html", "htm", "pdf", "doc", "docx", "odt", "rtf":
		return TypeText
	}
	switch mimeType {
	case "text/csv", "text/tab-separated-values",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.oasis.opendocument.spreadsheet":
		return TypeTabular
	case "application/pdf", "application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.oasis.opendocument.text", "application/rtf":
		return TypeText
	}
	if strings.HasPrefix(mimeType, "text/") {
		return TypeText
	}
	return TypeOther
}

// Timestamps holds the creation and last update instants of a row.
// The repository fills them from the database on insert and update.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document is a file known to the system, described by its metadata.
type Document struct {
	ID       int64
	Type     DocumentType
	SourceID *int64
	Timestamps

	meta Metadata
}

// NewDocument builds a Document ready to be inserted.
func NewDocument(typ DocumentType, sourceID *int64, meta Metadata) (*Document, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDocumentType, typ)
	}
	d := &Document{Type: typ, SourceID: sourceID}
	d.SetMeta(meta)
	return d, nil
}

// ContentHash returns the value stored in the content_hash column.
func (d *Document) ContentHash() string {
	return d.meta.ContentHash()
}

// Meta returns the document metadata. Its payload always carries the
// document's content hash, including on a zero Document.
func (d *Document) Meta() Metadata {
	return d.meta
}

// SetMeta replaces the metadata. The content hash column follows it.
func (d *Document) SetMeta(meta Metadata) {
	d.meta = meta
}

// ToDict flattens the document for API responses. Document fields take
// precedence over payload entries with the same name.
func (d *Document) ToDict() map[string]any {
	out := d.Meta().ToDict()
	var sourceID any
	if d.SourceID != nil {
		sourceID = *d.SourceID
	}
	out["id"] = d.ID
	out["type"] = d.Type
	out["source_id"] = sourceID
	out["created_at"] = d.CreatedAt
	out["updated_at"] = d.UpdatedAt
	return out
}

func (d *Document) String() string {
	return fmt.Sprintf("Document(%d, %s, %q)", d.ID, d.Type, d.Meta().Title())
}
