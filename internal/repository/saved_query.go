package repository

import (
	"context"

	"searchbridge/internal/model"
)

// SavedQueryRepository persists named search bodies. No business logic here,
// strictly persistence operations.
type SavedQueryRepository interface {
	// Upsert inserts q or replaces the index and body of the query with the same name.
	// Returns the stored row, including the ID and timestamps set on first insert.
	Upsert(ctx context.Context, q *model.SavedQuery) (*model.SavedQuery, error)

	// FindByName returns the query called name, or ErrNotFound.
	FindByName(ctx context.Context, name string) (*model.SavedQuery, error)

	// List returns a page of queries ordered by name and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.SavedQuery], error)

	// Delete removes the query called name, or returns ErrNotFound.
	Delete(ctx context.Context, name string) error
}
