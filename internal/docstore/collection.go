package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

// maxUpdateAttempts bounds compare-and-swap retries in Collection.Update.
const maxUpdateAttempts = 5

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// Collection is a named set of documents of type T inside one tenant.
type Collection[T any] struct {
	tenant *Tenant
	name   string
}

// CollectionOf returns the collection called name for tenant t.
func CollectionOf[T any](t *Tenant, name string) *Collection[T] {
	return &Collection[T]{tenant: t, name: name}
}

func (c *Collection[T]) op(name string) string {
	return "docstore." + c.name + "." + name
}

func (c *Collection[T]) decode(body string) (*T, error) {
	var doc T
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("docstore: decode %s: %w", c.name, err)
	}
	return &doc, nil
}

func (c *Collection[T]) decodeAll(bodies []string) ([]T, error) {
	docs := make([]T, 0, len(bodies))
	for _, b := range bodies {
		doc, err := c.decode(b)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (c *Collection[T]) stamp() string {
	return c.tenant.store.now().UTC().Format(time.RFC3339Nano)
}

// Get returns the document with id, or a not_found error.
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	var body string
	err := c.tenant.store.db.GetContext(ctx, &body,
		`SELECT body FROM documents WHERE collection = ? AND tenant_id = ? AND id = ?`,
		c.name, c.tenant.id, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound(c.op("get"), c.name, id)
	}
	if err != nil {
		return nil, domain.Internal(err, c.op("get"), "failed to read document")
	}
	return c.decode(body)
}

// Find returns documents whose JSON field equals value. field is a dotted
// JSON path such as "email" or "address.city".
func (c *Collection[T]) Find(ctx context.Context, field string, value any) ([]T, error) {
	if !fieldPattern.MatchString(field) {
		return nil, domain.Invalid(c.op("find"), "invalid field name")
	}
	var bodies []string
	err := c.tenant.store.db.SelectContext(ctx, &bodies,
		`SELECT body FROM documents
		  WHERE collection = ? AND tenant_id = ? AND json_extract(body, ?) = ?
		  ORDER BY created_at, id`,
		c.name, c.tenant.id, "$."+field, value)
	if err != nil {
		return nil, domain.Internal(err, c.op("find"), "failed to query documents")
	}
	return c.decodeAll(bodies)
}

// List returns a page of documents ordered by creation time.
func (c *Collection[T]) List(ctx context.Context, limit, offset int) ([]T, error) {
	if limit <= 0 {
		limit = 50
	}
	var bodies []string
	err := c.tenant.store.db.SelectContext(ctx, &bodies,
		`SELECT body FROM documents
		  WHERE collection = ? AND tenant_id = ?
		  ORDER BY created_at, id LIMIT ? OFFSET ?`,
		c.name, c.tenant.id, limit, max(offset, 0))
	if err != nil {
		return nil, domain.Internal(err, c.op("list"), "failed to list documents")
	}
	return c.decodeAll(bodies)
}

func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	var n int
	err := c.tenant.store.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM documents WHERE collection = ? AND tenant_id = ?`,
		c.name, c.tenant.id)
	if err != nil {
		return 0, domain.Internal(err, c.op("count"), "failed to count documents")
	}
	return n, nil
}

// Put writes doc under id, replacing any existing document.
func (c *Collection[T]) Put(ctx context.Context, id string, doc *T) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("docstore: encode %s: %w", c.name, err)
	}
	now := c.stamp()
	_, err = c.tenant.store.db.ExecContext(ctx,
		`INSERT INTO documents(collection, tenant_id, id, body, created_at, updated_at)
		 VALUES(?, ?, ?, ?, ?, ?)
		 ON CONFLICT(collection, tenant_id, id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		c.name, c.tenant.id, id, string(body), now, now)
	if err != nil {
		return domain.Internal(err, c.op("put"), "failed to write document")
	}
	return nil
}

// Create writes doc only if id is free. It reports false when a document
// already exists, leaving it untouched.
func (c *Collection[T]) Create(ctx context.Context, id string, doc *T) (bool, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("docstore: encode %s: %w", c.name, err)
	}
	now := c.stamp()
	res, err := c.tenant.store.db.ExecContext(ctx,
		`INSERT INTO documents(collection, tenant_id, id, body, created_at, updated_at)
		 VALUES(?, ?, ?, ?, ?, ?)
		 ON CONFLICT(collection, tenant_id, id) DO NOTHING`,
		c.name, c.tenant.id, id, string(body), now, now)
	if err != nil {
		return false, domain.Internal(err, c.op("create"), "failed to write document")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, domain.Internal(err, c.op("create"), "failed to write document")
	}
	return n == 1, nil
}

// Update applies change to the stored document and writes it back if the
// document was not modified in between. change may return an error to abort.
func (c *Collection[T]) Update(ctx context.Context, id string, change func(doc *T) error) (*T, error) {
	db := c.tenant.store.db
	for range maxUpdateAttempts {
		var body string
		err := db.GetContext(ctx, &body,
			`SELECT body FROM documents WHERE collection = ? AND tenant_id = ? AND id = ?`,
			c.name, c.tenant.id, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(c.op("update"), c.name, id)
		}
		if err != nil {
			return nil, domain.Internal(err, c.op("update"), "failed to read document")
		}

		doc, err := c.decode(body)
		if err != nil {
			return nil, err
		}
		if err := change(doc); err != nil {
			return nil, err
		}
		next, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("docstore: encode %s: %w", c.name, err)
		}
		if string(next) == body {
			return doc, nil
		}

		res, err := db.ExecContext(ctx,
			`UPDATE documents SET body = ?, updated_at = ?
			  WHERE collection = ? AND tenant_id = ? AND id = ? AND body = ?`,
			string(next), c.stamp(), c.name, c.tenant.id, id, body)
		if err != nil {
			return nil, domain.Internal(err, c.op("update"), "failed to write document")
		}
		if n, _ := res.RowsAffected(); n == 1 {
			return doc, nil
		}
	}
	return nil, domain.Conflict(c.op("update"), "Document was modified concurrently")
}

// Delete removes the document with id. Deleting a missing document is a not_found error.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	res, err := c.tenant.store.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND tenant_id = ? AND id = ?`,
		c.name, c.tenant.id, id)
	if err != nil {
		return domain.Internal(err, c.op("delete"), "failed to delete document")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound(c.op("delete"), c.name, id)
	}
	return nil
}
