package persistence

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Index is a secondary index on a table
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// Table describes a model and its indexes
type Table struct {
	Model   any
	Indexes []Index
}

// EnsureSchema creates missing tables and indexes. It is safe to call on
// every startup.
func EnsureSchema(ctx context.Context, db bun.IDB, tables ...Table) error {
	for _, table := range tables {
		if _, err := db.NewCreateTable().
			Model(table.Model).
			IfNotExists().
			Exec(ctx); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create table")
		}

		for _, idx := range table.Indexes {
			q := db.NewCreateIndex().
				Model(table.Model).
				Index(idx.Name).
				Column(idx.Columns...).
				IfNotExists()
			if idx.Unique {
				q = q.Unique()
			}
			if _, err := q.Exec(ctx); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create index").
					WithMetadata(map[string]any{"index": idx.Name})
			}
		}
	}
	return nil
}
