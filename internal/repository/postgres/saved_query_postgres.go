package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"searchbridge/internal/model"
	"searchbridge/internal/repository"
)

// SavedQueryPostgres is a PostgreSQL implementation of repository.SavedQueryRepository.
// Bodies are stored as jsonb.
type SavedQueryPostgres struct {
	db *sql.DB
}

// NewSavedQueryPostgres creates a new SavedQueryPostgres repository.
func NewSavedQueryPostgres(db *sql.DB) *SavedQueryPostgres {
	return &SavedQueryPostgres{db: db}
}

var _ repository.SavedQueryRepository = (*SavedQueryPostgres)(nil)

const savedQueryColumns = `id, name, index_name, body, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSavedQuery(s scanner) (*model.SavedQuery, error) {
	var (
		q    model.SavedQuery
		body []byte
	)
	if err := s.Scan(&q.ID, &q.Name, &q.Index, &body, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &q.Body); err != nil {
		return nil, fmt.Errorf("decode body of saved query %q: %w", q.Name, err)
	}
	return &q, nil
}

// Upsert inserts the query or, when the name exists, replaces its index and body.
func (r *SavedQueryPostgres) Upsert(ctx context.Context, q *model.SavedQuery) (*model.SavedQuery, error) {
	body, err := json.Marshal(q.Body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	const stmt = `
		INSERT INTO saved_queries (id, name, index_name, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE
		SET index_name = EXCLUDED.index_name,
		    body       = EXCLUDED.body,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + savedQueryColumns
	row := r.db.QueryRowContext(ctx, stmt,
		q.ID,
		q.Name,
		q.Index,
		body,
		q.CreatedAt,
		q.UpdatedAt,
	)
	return scanSavedQuery(row)
}

// FindByName fetches a single query by its name.
func (r *SavedQueryPostgres) FindByName(ctx context.Context, name string) (*model.SavedQuery, error) {
	const q = `SELECT ` + savedQueryColumns + ` FROM saved_queries WHERE name = $1`
	out, err := scanSavedQuery(r.db.QueryRowContext(ctx, q, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List returns queries using LIMIT/OFFSET pagination and a total count.
func (r *SavedQueryPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.SavedQuery], error) {
	const qCount = `SELECT COUNT(*) FROM saved_queries`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + savedQueryColumns + `
		FROM saved_queries
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.SavedQuery, 0)
	for rows.Next() {
		q, err := scanSavedQuery(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.SavedQuery]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes a query by name.
func (r *SavedQueryPostgres) Delete(ctx context.Context, name string) error {
	const q = `DELETE FROM saved_queries WHERE name = $1`
	res, err := r.db.ExecContext(ctx, q, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
