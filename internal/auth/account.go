// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Account is a registered user.
type Account struct {
	ID             ulid.ULID `json:"id"`
	DisplayName    string    `json:"name"`
	Email          string    `json:"email"`
	CredentialHash string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewAccount creates an Account with a fresh ID. The email is normalized
// and credentialHash must already be a hash.
func NewAccount(displayName, email, credentialHash string) (*Account, error) {
	if err := ValidateName(displayName); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)
	if err := ValidateEmailFormat(email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(credentialHash) == "" {
		return nil, oops.Code("AUTH_INVALID_HASH").Errorf("credential hash cannot be empty")
	}

	now := time.Now().UTC()
	return &Account{
		ID:             ulid.Make(),
		DisplayName:    displayName,
		Email:          email,
		CredentialHash: credentialHash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// LogValue keeps the credential hash out of logs.
func (a *Account) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", a.ID.String()),
		slog.String("email", a.Email),
	)
}

// AccountRepository manages account persistence.
type AccountRepository interface {
	// Create stores a new account.
	// Returns ErrEmailTaken if an account with the same email already exists.
	Create(ctx context.Context, account *Account) error

	// GetByID retrieves an account by ID.
	// Returns ErrNotFound if no account has the given ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Account, error)

	// GetByEmail retrieves an account by normalized email.
	// Returns ErrNotFound if no account has the given email.
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// UpdateCredential replaces the credential hash for the account with the given email.
	// Returns ErrNotFound if no account has the given email.
	UpdateCredential(ctx context.Context, email, credentialHash string) error

	// ReplaceCredential sets the hash to newHash only while the stored hash
	// still equals currentHash. It reports whether the write happened.
	ReplaceCredential(ctx context.Context, email, currentHash, newHash string) (bool, error)
}
