// Package filestore keeps the RSVP document in a local JSON file.
//
// The version token is the SHA-256 of the file contents. Writers sharing a
// Backend are checked against it under a mutex; separate processes sharing
// the file are last-write-wins.
package filestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/AlexTLDR/wedding/internal/storage"
)

var tracer = otel.GetTracerProvider().Tracer("github.com/AlexTLDR/wedding/internal/storage/filestore")

type Backend struct {
	mu       sync.Mutex
	filename string
}

func New(filename string) *Backend {
	return &Backend{filename: filename}
}

func (b *Backend) Read(ctx context.Context) (storage.Document, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "ReadFile")
	defer span.End()

	data, err := os.ReadFile(b.filename)
	if errors.Is(err, fs.ErrNotExist) {
		return storage.Document{}, storage.ErrNotExist
	}
	if err != nil {
		span.RecordError(err)
		return storage.Document{}, fmt.Errorf("failed to read %s: %w", b.filename, err)
	}
	return storage.Document{Data: data, Version: contentVersion(data)}, nil
}

func contentVersion(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// current returns the version of the file on disk, or "" when it is missing.
func (b *Backend) current() (string, error) {
	data, err := os.ReadFile(b.filename)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", b.filename, err)
	}
	return contentVersion(data), nil
}

// Write replaces the file atomically through a temporary file in the same
// directory. An empty version creates the file; otherwise it must match the
// contents on disk.
func (b *Backend) Write(ctx context.Context, doc storage.Document) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "WriteFile")
	defer span.End()

	span.AddEvent("Lock")
	b.mu.Lock()
	defer span.AddEvent("Unlock")
	defer b.mu.Unlock()

	current, err := b.current()
	if err != nil {
		span.RecordError(err)
		return err
	}
	if current != doc.Version {
		err := fmt.Errorf("%w: %s changed since it was read", storage.ErrVersionConflict, b.filename)
		span.RecordError(err)
		return err
	}

	dir := filepath.Dir(b.filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".rsvp-*.json")
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(doc.Data); err != nil {
		_ = tmp.Close()
		span.RecordError(err)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.filename); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to replace %s: %w", b.filename, err)
	}
	return nil
}
