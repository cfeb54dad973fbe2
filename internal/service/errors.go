package service

import "errors"

var (
	ErrIDRequired     = errors.New("id is required")
	ErrNotFound       = errors.New("document not found")
	ErrReaderNil      = errors.New("reader is nil")
	ErrSourceNotFound = errors.New("source not found")
	ErrFileNotFound   = errors.New("archived file not found")
)
