// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"strings"
	"time"

	"github.com/samber/oops"
)

const (
	msgNoToken      = "Access denied. No token provided"
	msgInvalidToken = "Invalid or expired token, Please login again"
)

// Identity is the authenticated caller of a single request.
type Identity struct {
	Subject     string    `json:"id"`
	DisplayName string    `json:"name"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// TokenVerifier checks session tokens. TokenService implements it.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// SessionAuthenticator turns an Authorization header value into an Identity.
type SessionAuthenticator struct {
	tokens TokenVerifier
}

// NewSessionAuthenticator creates a SessionAuthenticator.
func NewSessionAuthenticator(tokens TokenVerifier) (*SessionAuthenticator, error) {
	if tokens == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("token verifier is required")
	}
	return &SessionAuthenticator{tokens: tokens}, nil
}

// Authenticate verifies the raw header value. The token may be sent bare
// or with a "Bearer " prefix. A missing token fails with CodeTokenMissing;
// a bad token keeps the TokenService code so logs can tell them apart.
func (a *SessionAuthenticator) Authenticate(rawHeader string) (Identity, error) {
	token := strings.TrimSpace(rawHeader)
	if len(token) >= 6 && strings.EqualFold(token[:6], "bearer") && (len(token) == 6 || token[6] == ' ') {
		token = strings.TrimSpace(token[6:])
	}
	if token == "" {
		return Identity{}, oops.Code(CodeTokenMissing).Errorf("%s", msgNoToken)
	}

	claims, err := a.tokens.Verify(token)
	if err != nil {
		code := ErrorCode(err)
		if KindOf(err) != KindUnauthenticated {
			code = CodeTokenMalformed
		}
		return Identity{}, oops.Code(code).
			With("reason", err.Error()).
			Errorf("%s", msgInvalidToken)
	}

	return Identity{
		Subject:     claims.Subject,
		DisplayName: claims.DisplayName,
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}
