package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/AlexTLDR/wedding/internal/storage"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(context.Background(), "sqlite3", filepath.Join(t.TempDir(), "wedding.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestNew_UnsupportedDriver(t *testing.T) {
	if _, err := New(context.Background(), "mysql", "x"); err == nil {
		t.Fatal("New(mysql) succeeded, want error")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestDocumentBackend(t *testing.T) {
	db := newTestDB(t)
	docs := db.Documents(ResponsesDocument)
	ctx := context.Background()

	if _, err := docs.Read(ctx); !errors.Is(err, storage.ErrNotExist) {
		t.Fatalf("Read() on empty table error = %v, want ErrNotExist", err)
	}

	if err := docs.Write(ctx, storage.Document{Data: []byte(`[]`)}); err != nil {
		t.Fatalf("insert Write() error = %v", err)
	}
	doc, err := docs.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Version != "1" || string(doc.Data) != "[]" {
		t.Errorf("Read() = %q version %q", doc.Data, doc.Version)
	}

	if err := docs.Write(ctx, storage.Document{Data: []byte(`[{"guestId":"a"}]`), Version: doc.Version}); err != nil {
		t.Fatalf("update Write() error = %v", err)
	}

	tests := []struct {
		name    string
		version string
	}{
		{name: "stale version", version: "1"},
		{name: "insert over existing", version: ""},
		{name: "malformed version", version: "abc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := docs.Write(ctx, storage.Document{Data: []byte(`[]`), Version: tc.version})
			if !errors.Is(err, storage.ErrVersionConflict) {
				t.Errorf("Write() error = %v, want ErrVersionConflict", err)
			}
		})
	}

	doc, err = docs.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Version != "2" || string(doc.Data) != `[{"guestId":"a"}]` {
		t.Errorf("Read() after conflicts = %q version %q", doc.Data, doc.Version)
	}

	other := db.Documents("other")
	if _, err := other.Read(ctx); !errors.Is(err, storage.ErrNotExist) {
		t.Errorf("Read(other) error = %v, want ErrNotExist", err)
	}
}
