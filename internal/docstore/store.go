// Package docstore keeps schemaless tenant documents in SQLite.
//
// Documents are only reachable through Store.Tenant, so every statement is
// bound to one tenant id. There is no cross-tenant query.
package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents(
  collection TEXT NOT NULL,
  tenant_id  TEXT NOT NULL,
  id         TEXT NOT NULL,
  body       TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  PRIMARY KEY (collection, tenant_id, id)
);
CREATE INDEX IF NOT EXISTS idx_documents_tenant ON documents(tenant_id, collection, created_at);
`

// Store is a SQLite-backed document store.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open opens the database at dsn and creates the documents table.
// ":memory:" gives a private in-memory store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("docstore: open: %w", err)
	}
	// SQLite allows a single writer, and every ":memory:" connection is its own database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("docstore: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("docstore: schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tenant returns the accessor for one tenant's documents.
func (s *Store) Tenant(tenantID uuid.UUID) *Tenant {
	return &Tenant{store: s, id: tenantID.String()}
}

// Tenant scopes document access to one tenant.
type Tenant struct {
	store *Store
	id    string
}

// PurgeTenant deletes every document of a tenant.
func (s *Store) PurgeTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE tenant_id = ?`, tenantID.String())
	if err != nil {
		return 0, fmt.Errorf("docstore: purge tenant: %w", err)
	}
	return res.RowsAffected()
}
