package model

import (
	"errors"
	"regexp"
)

// ErrInvalidSlug is returned when a source slug is empty or malformed.
var ErrInvalidSlug = errors.New("invalid source slug")

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,99}$`)

// Source is the origin of a set of documents, e.g. a crawler or an upload batch.
type Source struct {
	ID    int64  `json:"id"`
	Slug  string `json:"slug"`
	Label string `json:"label"`
	Timestamps
}

// ValidSlug reports whether s can be used as a source slug.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
