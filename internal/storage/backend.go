// Package storage persists the RSVP collection as a single JSON document.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotExist is returned by Backend.Read when no document has been written yet.
	ErrNotExist = errors.New("document does not exist")
	// ErrVersionConflict means the document changed since it was read. Callers may retry.
	ErrVersionConflict = errors.New("document version conflict")
	ErrUnauthorized    = errors.New("backend rejected credentials")
	ErrUnavailable     = errors.New("backend unavailable")
	ErrNotConfigured   = errors.New("backend not configured")
	ErrCorrupt         = errors.New("corrupt document")
)

// Document is the raw persisted collection plus the backend's version token.
// An empty Version on write means the document is being created.
type Document struct {
	Data    []byte
	Version string
}

// Backend stores one document. Backends that cannot detect concurrent writers
// ignore Version and are last-write-wins.
type Backend interface {
	Read(ctx context.Context) (Document, error)
	Write(ctx context.Context, doc Document) error
}
