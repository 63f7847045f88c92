// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package post

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkpost/inkpost/internal/auth"
)

// Service creates, reads and modifies posts. Only the owner of a post may
// update or delete it.
type Service struct {
	posts  Repository
	guard  auth.OwnershipGuard
	logger *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a Service.
func NewService(posts Repository, opts ...ServiceOption) (*Service, error) {
	if posts == nil {
		return nil, oops.Code("POST_INVALID_CONFIG").Errorf("post repository is required")
	}
	s := &Service{
		posts:  posts,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		return nil, oops.Code("POST_INVALID_CONFIG").Errorf("logger cannot be nil")
	}
	return s, nil
}

// Create stores a new post owned by the caller.
func (s *Service) Create(ctx context.Context, caller auth.Identity, in Input) (*Post, error) {
	post, err := NewPost(caller, in)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, oops.Code("POST_CREATE_FAILED").
			With("operation", "create post").
			With("owner_id", caller.Subject).
			Wrap(err)
	}
	s.logger.InfoContext(ctx, "post created", "post_id", post.ID.String(), "owner_id", post.OwnerID)
	return post, nil
}

// List returns every post, newest first.
func (s *Service) List(ctx context.Context) ([]*Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").With("operation", "list posts").Wrap(err)
	}
	return posts, nil
}

// Get returns the post with the given ID. A malformed ID is reported as
// not found.
func (s *Service) Get(ctx context.Context, rawID string) (*Post, error) {
	id, err := ulid.ParseStrict(rawID)
	if err != nil {
		return nil, notFound(rawID)
	}
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound(rawID)
		}
		return nil, oops.Code("POST_GET_FAILED").
			With("operation", "get post").
			With("post_id", rawID).
			Wrap(err)
	}
	return post, nil
}

// Update applies the non-empty fields of in to a post owned by the caller.
func (s *Service) Update(ctx context.Context, caller auth.Identity, rawID string, in Input) (*Post, error) {
	post, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(caller, post.OwnerID); err != nil {
		s.logger.WarnContext(ctx, "post update denied", "post_id", rawID, "subject", caller.Subject)
		return nil, err
	}

	post.apply(in)
	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound(rawID)
		}
		return nil, oops.Code("POST_UPDATE_FAILED").
			With("operation", "update post").
			With("post_id", rawID).
			Wrap(err)
	}
	s.logger.InfoContext(ctx, "post updated", "post_id", rawID)
	return post, nil
}

// Delete removes a post owned by the caller.
func (s *Service) Delete(ctx context.Context, caller auth.Identity, rawID string) error {
	post, err := s.Get(ctx, rawID)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(caller, post.OwnerID); err != nil {
		s.logger.WarnContext(ctx, "post delete denied", "post_id", rawID, "subject", caller.Subject)
		return err
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(rawID)
		}
		return oops.Code("POST_DELETE_FAILED").
			With("operation", "delete post").
			With("post_id", rawID).
			Wrap(err)
	}
	s.logger.InfoContext(ctx, "post deleted", "post_id", rawID)
	return nil
}

func notFound(rawID string) error {
	return oops.Code(CodeNotFound).With("post_id", rawID).Errorf("%s", msgNotFound)
}
