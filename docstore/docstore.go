// Package docstore adapts the hosted document database contract onto Bun:
// per-collection create/read/update/delete/list with string document ids.
// There are no cross-collection transactions; callers that need a join do a
// sequential per-row lookup.
package docstore

import (
	"context"
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when no document exists for the given id.
var ErrNotFound = errors.New("document not found")

// IsNotFound reports whether err means the document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

// Collection is one named document collection. T is the document model
// (a Bun-tagged struct, not a pointer).
type Collection[T any] struct {
	db *bun.DB
}

func NewCollection[T any](db *bun.DB) *Collection[T] {
	return &Collection[T]{db: db}
}

// DB exposes the underlying handle for callers that need raw queries.
func (c *Collection[T]) DB() *bun.DB {
	return c.db
}

// Create inserts the document. The caller assigns the id.
func (c *Collection[T]) Create(ctx context.Context, record *T) error {
	if _, err := c.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "document create failed")
	}
	return nil
}

// Read fetches the document by id.
func (c *Collection[T]) Read(ctx context.Context, id string) (*T, error) {
	record := new(T)
	err := c.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "document read failed")
	}

	return record, nil
}

// Update persists the non-zero fields of record onto the stored document.
func (c *Collection[T]) Update(ctx context.Context, id string, record *T) error {
	res, err := c.db.NewUpdate().
		Model(record).
		OmitZero().
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "document update failed")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}

	return nil
}

// Replace overwrites every column of the stored document with record,
// zero values included. Use Update for partial writes.
func (c *Collection[T]) Replace(ctx context.Context, id string, record *T) error {
	res, err := c.db.NewUpdate().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "document replace failed")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes the document. Deleting a missing document is an error so
// screens can surface stale references.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	res, err := c.db.NewDelete().
		Model((*T)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "document delete failed")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListAll returns every document in the collection. Ordering is whatever the
// store yields; screens sort or filter in memory.
func (c *Collection[T]) ListAll(ctx context.Context) ([]*T, error) {
	var records []*T
	if err := c.db.NewSelect().Model(&records).Scan(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "document list failed")
	}
	return records, nil
}
