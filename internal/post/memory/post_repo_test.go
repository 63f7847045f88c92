// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/post"
	"github.com/inkpost/inkpost/internal/post/memory"
)

var owner = auth.Identity{Subject: "01HALICE", DisplayName: "Alice"}

func TestPostRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPostRepository()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []ulid.ULID
	for i := range 3 {
		p, err := post.NewPost(owner, post.Input{Title: "t", Description: "d"})
		require.NoError(t, err)
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, p))
		ids = append(ids, p.ID)
	}

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, ids[2], got[0].ID)
	assert.Equal(t, ids[1], got[1].ID)
	assert.Equal(t, ids[0], got[2].ID)
}

func TestPostRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPostRepository()

	p, err := post.NewPost(owner, post.Input{Title: "Hello", Description: "World"})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)

	got.Title = "Changed"
	require.NoError(t, repo.Update(ctx, got))
	again, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Changed", again.Title)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.Get(ctx, p.ID)
	assert.ErrorIs(t, err, post.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), post.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, p), post.ErrNotFound)
}
