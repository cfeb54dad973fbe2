package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// ContentHashKey is the payload key that mirrors the content_hash column.
	ContentHashKey = "content_hash"
	// MaxContentHashLen is the width of the content_hash column.
	MaxContentHashLen = 65
)

// ErrInvalidContentHash is returned when a payload carries a content hash that
// cannot be stored in the content_hash column.
var ErrInvalidContentHash = errors.New("invalid content hash")

// Metadata is the semi-structured payload attached to a Document together with
// its canonical content hash. Values are immutable once built; use NewMetadata
// to construct one.
type Metadata struct {
	data        map[string]any
	contentHash string
}

// NewMetadata builds a Metadata value from a raw payload.
//
// The canonical content hash is the payload's content_hash entry when present,
// otherwise a SHA-256 fingerprint of the payload itself. The hash is written
// back into the payload so both always agree.
func NewMetadata(data map[string]any) (Metadata, error) {
	cp := make(map[string]any, len(data)+1)
	for k, v := range data {
		cp[k] = v
	}

	var hash string
	if v, ok := cp[ContentHashKey]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return Metadata{}, fmt.Errorf("%w: expected string, got %T", ErrInvalidContentHash, v)
		}
		hash = s
	}
	if hash == "" {
		delete(cp, ContentHashKey)
		fp, err := fingerprint(cp)
		if err != nil {
			return Metadata{}, err
		}
		hash = fp
	}
	if len(hash) > MaxContentHashLen {
		return Metadata{}, fmt.Errorf("%w: longer than %d characters", ErrInvalidContentHash, MaxContentHashLen)
	}

	cp[ContentHashKey] = hash
	return Metadata{data: cp, contentHash: hash}, nil
}

// LoadMetadata rebuilds Metadata from a stored payload and the content_hash
// column value. The column is authoritative: it replaces whatever hash the
// stored payload carries.
func LoadMetadata(raw map[string]any, contentHash string) (Metadata, error) {
	data := make(map[string]any, len(raw)+1)
	for k, v := range raw {
		data[k] = v
	}
	data[ContentHashKey] = contentHash
	return NewMetadata(data)
}

func fingerprint(data map[string]any) (string, error) {
	// encoding/json sorts map keys, which makes the encoding canonical.
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// ContentHash returns the canonical content hash.
func (m Metadata) ContentHash() string {
	return m.contentHash
}

// Data returns a copy of the raw payload. The copy always contains content_hash.
func (m Metadata) Data() map[string]any {
	out := make(map[string]any, len(m.data)+1)
	for k, v := range m.data {
		out[k] = v
	}
	out[ContentHashKey] = m.contentHash
	return out
}

// ToDict returns the flattened payload used for API responses.
func (m Metadata) ToDict() map[string]any {
	return m.Data()
}

// Title returns the title entry, falling back to the file name.
func (m Metadata) Title() string {
	if t := m.str("title"); t != "" {
		return t
	}
	return m.FileName()
}

func (m Metadata) FileName() string { return m.str("file_name") }

func (m Metadata) MimeType() string { return m.str("mime_type") }

// Extension returns the lower-cased extension, without the dot. It is taken
// from the extension entry or derived from the file name.
func (m Metadata) Extension() string {
	ext := m.str("extension")
	if ext == "" {
		ext = filepath.Ext(m.FileName())
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// FileSize returns the file_size entry, or -1 when it is missing or not numeric.
func (m Metadata) FileSize() int64 {
	switch v := m.data["file_size"].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	}
	return -1
}

func (m Metadata) str(key string) string {
	s, _ := m.data[key].(string)
	return strings.TrimSpace(s)
}
