package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AlexTLDR/wedding/internal/storage"
)

var tracer = otel.GetTracerProvider().Tracer("github.com/AlexTLDR/wedding/internal/database")

// ResponsesDocument is the row name holding the RSVP collection.
const ResponsesDocument = "rsvp-responses"

// Documents returns a storage.Backend over one named row of rsvp_documents.
func (db *DB) Documents(name string) *DocumentBackend {
	return &DocumentBackend{db: db, name: name}
}

type DocumentBackend struct {
	db   *DB
	name string
}

func (d *DocumentBackend) Read(ctx context.Context) (storage.Document, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "SelectDocument")
	defer span.End()
	span.SetAttributes(attribute.String("document.name", d.name))

	var body string
	var version int64
	err := d.db.QueryRowContext(ctx,
		`SELECT body, version FROM rsvp_documents WHERE name = $1`,
		d.name,
	).Scan(&body, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Document{}, storage.ErrNotExist
	}
	if err != nil {
		span.RecordError(err)
		return storage.Document{}, fmt.Errorf("%w: failed to get document: %w", storage.ErrUnavailable, err)
	}

	return storage.Document{Data: []byte(body), Version: strconv.FormatInt(version, 10)}, nil
}

// Write inserts the row when doc.Version is empty and otherwise updates it
// only if the stored version still matches.
func (d *DocumentBackend) Write(ctx context.Context, doc storage.Document) error {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "WriteDocument")
	defer span.End()
	span.SetAttributes(attribute.String("document.name", d.name))

	var (
		result sql.Result
		err    error
	)
	if doc.Version == "" {
		span.AddEvent("insert")
		result, err = d.db.ExecContext(ctx,
			`INSERT INTO rsvp_documents (name, body, version) VALUES ($1, $2, 1)
			 ON CONFLICT (name) DO NOTHING`,
			d.name, string(doc.Data),
		)
	} else {
		version, perr := strconv.ParseInt(doc.Version, 10, 64)
		if perr != nil {
			return fmt.Errorf("%w: malformed version %q", storage.ErrVersionConflict, doc.Version)
		}
		span.AddEvent("update")
		result, err = d.db.ExecContext(ctx,
			`UPDATE rsvp_documents SET body = $1, version = version + 1, updated_at = CURRENT_TIMESTAMP
			 WHERE name = $2 AND version = $3`,
			string(doc.Data), d.name, version,
		)
	}
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: failed to write document: %w", storage.ErrUnavailable, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to get rows affected: %w", storage.ErrUnavailable, err)
	}
	if n == 0 {
		err := fmt.Errorf("%w: document %q changed since version %q", storage.ErrVersionConflict, d.name, doc.Version)
		span.RecordError(err)
		return err
	}
	return nil
}
