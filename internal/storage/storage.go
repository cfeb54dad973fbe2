// Package storage archives the files documents describe in an S3-compatible
// object store, keyed by content hash. Implementations stream; no local disk is used.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"
)

// archiveHashLen is the length of a hex-encoded SHA-256 digest.
const archiveHashLen = 64

// ErrInvalidArchiveHash is returned for content hashes that do not name an
// archived file.
var ErrInvalidArchiveHash = errors.New("invalid archive hash")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the archive client interface.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ArchiveKey returns the object key of the file with the given content hash,
// fanned out over two directory levels: <prefix>/ab/cd/abcdef...
// Only lowercase hex SHA-256 digests are accepted, so a key never leaves prefix.
func ArchiveKey(prefix, contentHash string) (string, error) {
	if !IsArchiveHash(contentHash) {
		return "", fmt.Errorf("%w: %q", ErrInvalidArchiveHash, contentHash)
	}
	return path.Join(prefix, contentHash[:2], contentHash[2:4], contentHash), nil
}

// IsArchiveHash reports whether s is a lowercase hex SHA-256 digest.
func IsArchiveHash(s string) bool {
	if len(s) != archiveHashLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
