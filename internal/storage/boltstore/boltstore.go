// Package boltstore keeps the RSVP document in a bbolt database. The version
// is a counter compared and bumped inside one read-write transaction.
package boltstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/AlexTLDR/wedding/internal/storage"
)

var tracer = otel.GetTracerProvider().Tracer("github.com/AlexTLDR/wedding/internal/storage/boltstore")

const (
	bucketDocuments = "documents"
	keyResponses    = "rsvp-responses"
)

type record struct {
	Body    json.RawMessage `json:"body"`
	Version uint64          `json:"version"`
}

type Backend struct {
	db *bolt.DB
}

// Open opens (or creates) the database file and its bucket.
func Open(path string) (*Backend, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketDocuments))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &Backend{db: db}, nil
}

func (b *Backend) Close() error {
	return b.db.Close()
}

func (b *Backend) Read(ctx context.Context) (storage.Document, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "ReadDocument")
	defer span.End()

	var doc storage.Document
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(bucketDocuments)).Get([]byte(keyResponses))
		if raw == nil {
			return storage.ErrNotExist
		}
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("%w: %w", storage.ErrCorrupt, err)
		}
		// Bytes returned by Get are only valid inside the transaction.
		doc = storage.Document{
			Data:    append([]byte(nil), rec.Body...),
			Version: strconv.FormatUint(rec.Version, 10),
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return storage.Document{}, err
	}
	return doc, nil
}

func (b *Backend) Write(ctx context.Context, doc storage.Document) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "WriteDocument")
	defer span.End()

	if !json.Valid(doc.Data) {
		err := fmt.Errorf("%w: document is not valid JSON", storage.ErrCorrupt)
		span.RecordError(err)
		return err
	}

	span.AddEvent("Update bucket")
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketDocuments))

		current := ""
		var next uint64 = 1
		if raw := bucket.Get([]byte(keyResponses)); raw != nil {
			var rec record
			if err := json.Unmarshal(raw, &rec); err != nil {
				return fmt.Errorf("%w: %w", storage.ErrCorrupt, err)
			}
			current = strconv.FormatUint(rec.Version, 10)
			next = rec.Version + 1
		}
		if doc.Version != current {
			return fmt.Errorf("%w: have version %q, write based on %q", storage.ErrVersionConflict, current, doc.Version)
		}

		j, err := json.Marshal(record{Body: doc.Data, Version: next})
		if err != nil {
			return err
		}
		return bucket.Put([]byte(keyResponses), j)
	})
	if err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}
