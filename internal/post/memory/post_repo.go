// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package memory provides an in-process post repository.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkpost/inkpost/internal/post"
)

// PostRepository implements post.Repository in memory.
type PostRepository struct {
	mu    sync.RWMutex
	posts map[ulid.ULID]post.Post
}

// NewPostRepository creates an empty PostRepository.
func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[ulid.ULID]post.Post)}
}

// Create stores a copy of p.
func (r *PostRepository) Create(_ context.Context, p *post.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[p.ID] = *p
	return nil
}

// Get returns a copy of the post with the given ID.
func (r *PostRepository) Get(_ context.Context, id ulid.ULID) (*post.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, oops.Code("POST_ROW_NOT_FOUND").With("post_id", id.String()).Wrap(post.ErrNotFound)
	}
	return &p, nil
}

// List returns copies of all posts, newest first.
func (r *PostRepository) List(_ context.Context) ([]*post.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*post.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.Compare(out[j].ID) > 0
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update replaces the stored post with p.
func (r *PostRepository) Update(_ context.Context, p *post.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[p.ID]; !ok {
		return oops.Code("POST_ROW_NOT_FOUND").With("post_id", p.ID.String()).Wrap(post.ErrNotFound)
	}
	r.posts[p.ID] = *p
	return nil
}

// Delete removes the post with the given ID.
func (r *PostRepository) Delete(_ context.Context, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return oops.Code("POST_ROW_NOT_FOUND").With("post_id", id.String()).Wrap(post.ErrNotFound)
	}
	delete(r.posts, id)
	return nil
}

var _ post.Repository = (*PostRepository)(nil)
