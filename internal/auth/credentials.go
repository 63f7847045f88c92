// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"context"
	"runtime"
	"time"

	"github.com/samber/oops"
	"golang.org/x/sync/semaphore"
)

// CredentialStore hashes and verifies passwords. Hashing is deliberately
// slow, so at most a fixed number of hash computations run at once and
// callers waiting for a slot give up when their context is done.
type CredentialStore struct {
	hasher  PasswordHasher
	slots   *semaphore.Weighted
	metrics *Metrics
}

// CredentialStoreOption configures a CredentialStore.
type CredentialStoreOption func(*CredentialStore)

// WithCredentialMetrics records hash latency to m.
func WithCredentialMetrics(m *Metrics) CredentialStoreOption {
	return func(s *CredentialStore) {
		s.metrics = m
	}
}

// NewCredentialStore creates a CredentialStore. concurrency <= 0 means GOMAXPROCS.
func NewCredentialStore(hasher PasswordHasher, concurrency int, opts ...CredentialStoreOption) (*CredentialStore, error) {
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("password hasher is required")
	}
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	s := &CredentialStore{
		hasher: hasher,
		slots:  semaphore.NewWeighted(int64(concurrency)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Hash returns a salted hash of plaintext.
func (s *CredentialStore) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := s.slots.Acquire(ctx, 1); err != nil {
		return "", oops.Code("AUTH_HASH_CANCELLED").Wrap(err)
	}
	defer s.slots.Release(1)
	defer s.metrics.observeHash("hash", time.Now())

	return s.hasher.Hash(plaintext)
}

// Verify reports whether plaintext matches hash. A malformed hash is an
// AUTH_INVALID_HASH error.
func (s *CredentialStore) Verify(ctx context.Context, plaintext, hash string) (bool, error) {
	if err := s.slots.Acquire(ctx, 1); err != nil {
		return false, oops.Code("AUTH_HASH_CANCELLED").Wrap(err)
	}
	defer s.slots.Release(1)
	defer s.metrics.observeHash("verify", time.Now())

	return s.hasher.Verify(plaintext, hash)
}

// NeedsUpgrade reports whether hash should be recomputed on next successful login.
func (s *CredentialStore) NeedsUpgrade(hash string) bool {
	return s.hasher.NeedsUpgrade(hash)
}
