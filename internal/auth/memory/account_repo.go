// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package memory provides in-process implementations of the auth
// repositories for development and tests. Data is lost on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkpost/inkpost/internal/auth"
)

// AccountRepository implements auth.AccountRepository in memory.
// Email uniqueness is enforced under the write lock, so concurrent
// Create calls for one email admit exactly one account.
type AccountRepository struct {
	mu      sync.RWMutex
	byID    map[ulid.ULID]*auth.Account
	byEmail map[string]ulid.ULID
}

// NewAccountRepository creates an empty AccountRepository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:    make(map[ulid.ULID]*auth.Account),
		byEmail: make(map[string]ulid.ULID),
	}
}

// Create stores a copy of account.
func (r *AccountRepository) Create(_ context.Context, account *auth.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[account.Email]; taken {
		return oops.Code("ACCOUNT_EMAIL_TAKEN").
			With("email", account.Email).
			Wrap(auth.ErrEmailTaken)
	}
	stored := *account
	r.byID[account.ID] = &stored
	r.byEmail[account.Email] = account.ID
	return nil
}

// GetByID returns a copy of the account with the given ID.
func (r *AccountRepository) GetByID(_ context.Context, id ulid.ULID) (*auth.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[id]
	if !ok {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").With("id", id.String()).Wrap(auth.ErrNotFound)
	}
	out := *account
	return &out, nil
}

// GetByEmail returns a copy of the account with the given email.
func (r *AccountRepository) GetByEmail(_ context.Context, email string) (*auth.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").With("email", email).Wrap(auth.ErrNotFound)
	}
	out := *r.byID[id]
	return &out, nil
}

// UpdateCredential replaces the stored hash for email.
func (r *AccountRepository) UpdateCredential(_ context.Context, email, credentialHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return oops.Code("ACCOUNT_NOT_FOUND").With("email", email).Wrap(auth.ErrNotFound)
	}
	account := r.byID[id]
	account.CredentialHash = credentialHash
	account.UpdatedAt = time.Now().UTC()
	return nil
}

// ReplaceCredential swaps the stored hash if it still equals currentHash.
func (r *AccountRepository) ReplaceCredential(_ context.Context, email, currentHash, newHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return false, nil
	}
	account := r.byID[id]
	if account.CredentialHash != currentHash {
		return false, nil
	}
	account.CredentialHash = newHash
	account.UpdatedAt = time.Now().UTC()
	return true, nil
}

// Len returns the number of stored accounts.
func (r *AccountRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

var _ auth.AccountRepository = (*AccountRepository)(nil)
