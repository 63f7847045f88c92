// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package postgres provides a PostgreSQL post repository.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkpost/inkpost/internal/post"
	"github.com/inkpost/inkpost/internal/store"
)

const postColumns = `id, owner_id, author_name, title, description, picture, created_at, updated_at`

// PostRepository implements post.Repository using PostgreSQL.
type PostRepository struct {
	pool store.Querier
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(pool store.Querier) *PostRepository {
	return &PostRepository{pool: pool}
}

// Create stores a new post.
func (r *PostRepository) Create(ctx context.Context, p *post.Post) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO posts (`+postColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		p.ID.String(),
		p.OwnerID,
		p.AuthorName,
		p.Title,
		p.Description,
		p.Picture,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return oops.Code("POST_INSERT_FAILED").
			With("operation", "insert post").
			With("post_id", p.ID.String()).
			Wrap(err)
	}
	return nil
}

// Get retrieves a post by ID.
func (r *PostRepository) Get(ctx context.Context, id ulid.ULID) (*post.Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id.String())

	p, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("POST_ROW_NOT_FOUND").
			With("post_id", id.String()).
			Wrap(post.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("POST_QUERY_FAILED").
			With("operation", "get post").
			With("post_id", id.String()).
			Wrap(err)
	}
	return p, nil
}

// List returns all posts, newest first.
func (r *PostRepository) List(ctx context.Context) ([]*post.Post, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, oops.Code("POST_QUERY_FAILED").With("operation", "list posts").Wrap(err)
	}
	defer rows.Close()

	posts := make([]*post.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, oops.Code("POST_SCAN_FAILED").With("operation", "scan post").Wrap(err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("POST_QUERY_FAILED").With("operation", "iterate posts").Wrap(err)
	}
	return posts, nil
}

// Update replaces the mutable fields of a post.
func (r *PostRepository) Update(ctx context.Context, p *post.Post) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE posts SET title = $2, description = $3, picture = $4, updated_at = $5
		WHERE id = $1
	`, p.ID.String(), p.Title, p.Description, p.Picture, p.UpdatedAt)
	if err != nil {
		return oops.Code("POST_UPDATE_FAILED").
			With("operation", "update post").
			With("post_id", p.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("POST_ROW_NOT_FOUND").With("post_id", p.ID.String()).Wrap(post.ErrNotFound)
	}
	return nil
}

// Delete removes a post.
func (r *PostRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id.String())
	if err != nil {
		return oops.Code("POST_DELETE_FAILED").
			With("operation", "delete post").
			With("post_id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("POST_ROW_NOT_FOUND").With("post_id", id.String()).Wrap(post.ErrNotFound)
	}
	return nil
}

// scanPost scans a single row into a Post.
func scanPost(row pgx.Row) (*post.Post, error) {
	var (
		idStr string
		p     post.Post
	)
	if err := row.Scan(
		&idStr,
		&p.OwnerID,
		&p.AuthorName,
		&p.Title,
		&p.Description,
		&p.Picture,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with operation context
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("POST_INVALID_ID").With("post_id", idStr).Wrap(err)
	}
	p.ID = id
	return &p, nil
}

var _ post.Repository = (*PostRepository)(nil)
