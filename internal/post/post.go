// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package post manages posts owned by registered accounts.
package post

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkpost/inkpost/internal/auth"
)

// ErrNotFound is returned by repositories when a post does not exist.
var ErrNotFound = errors.New("post not found")

// Error codes with client-safe messages.
const (
	CodeFieldsRequired = "POST_FIELDS_REQUIRED"
	CodeNotFound       = "POST_NOT_FOUND"
)

func init() {
	auth.RegisterKind(CodeFieldsRequired, auth.KindValidation)
	auth.RegisterKind(CodeNotFound, auth.KindNotFound)
}

const (
	msgFieldsRequired = "Title and description are required"
	msgNotFound       = "Blog not found"
)

// Post is a piece of content owned by one account. AuthorName is a snapshot
// of the owner's display name taken when the post was created.
type Post struct {
	ID          ulid.ULID `json:"id"`
	OwnerID     string    `json:"userId"`
	AuthorName  string    `json:"name"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Picture     string    `json:"picture"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Input carries the client-supplied post fields.
type Input struct {
	Title       string
	Description string
	Picture     string
}

// NewPost creates a Post owned by owner.
func NewPost(owner auth.Identity, in Input) (*Post, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, oops.Code(CodeFieldsRequired).Errorf("%s", msgFieldsRequired)
	}

	now := time.Now().UTC()
	return &Post{
		ID:          ulid.Make(),
		OwnerID:     owner.Subject,
		AuthorName:  owner.DisplayName,
		Title:       title,
		Description: description,
		Picture:     strings.TrimSpace(in.Picture),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// apply copies the non-empty fields of in onto p.
func (p *Post) apply(in Input) {
	if v := strings.TrimSpace(in.Title); v != "" {
		p.Title = v
	}
	if v := strings.TrimSpace(in.Description); v != "" {
		p.Description = v
	}
	if v := strings.TrimSpace(in.Picture); v != "" {
		p.Picture = v
	}
	p.UpdatedAt = time.Now().UTC()
}

// Repository manages post persistence.
type Repository interface {
	// Create stores a new post.
	Create(ctx context.Context, post *Post) error

	// Get retrieves a post by ID.
	// Returns ErrNotFound if no post has the given ID.
	Get(ctx context.Context, id ulid.ULID) (*Post, error)

	// List returns all posts, newest first.
	List(ctx context.Context) ([]*Post, error)

	// Update replaces the mutable fields of an existing post.
	// Returns ErrNotFound if the post no longer exists.
	Update(ctx context.Context, post *Post) error

	// Delete removes a post.
	// Returns ErrNotFound if no post has the given ID.
	Delete(ctx context.Context, id ulid.ULID) error
}
