// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// DefaultTokenLifetime is how long an issued token stays valid.
const DefaultTokenLifetime = time.Hour

// DefaultIssuer is the iss claim written into issued tokens.
const DefaultIssuer = "inkpost"

// Claims is the verified content of a session token.
type Claims struct {
	Subject     string
	DisplayName string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// tokenClaims is the JWT payload.
type tokenClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens. It holds no
// mutable state and is safe for concurrent use.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
	issuer   string
	now      func() time.Time
	parser   *jwt.Parser
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithTokenLifetime overrides DefaultTokenLifetime.
func WithTokenLifetime(d time.Duration) TokenOption {
	return func(s *TokenService) {
		s.lifetime = d
	}
}

// WithIssuer overrides DefaultIssuer.
func WithIssuer(issuer string) TokenOption {
	return func(s *TokenService) {
		s.issuer = issuer
	}
}

// WithClock sets the time source used for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a TokenService signing with secret.
func NewTokenService(secret []byte, opts ...TokenOption) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, oops.Code("AUTH_SIGNING_SECRET_REQUIRED").Errorf("token signing secret is required")
	}

	s := &TokenService{
		secret:   append([]byte(nil), secret...),
		lifetime: DefaultTokenLifetime,
		issuer:   DefaultIssuer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.lifetime <= 0 {
		return nil, oops.Code("AUTH_INVALID_CONFIG").
			With("lifetime", s.lifetime).
			Errorf("token lifetime must be positive")
	}

	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	return s, nil
}

// Lifetime returns the configured token lifetime.
func (s *TokenService) Lifetime() time.Duration {
	return s.lifetime
}

// Issue mints a token for subject carrying a snapshot of displayName.
func (s *TokenService) Issue(subject, displayName string) (string, error) {
	if subject == "" {
		return "", oops.Code("AUTH_TOKEN_SUBJECT_REQUIRED").Errorf("token subject is required")
	}

	now := s.now()
	claims := tokenClaims{
		Name: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Verify checks the token signature, then its expiry, and returns its claims.
// Failures carry CodeTokenMalformed, CodeTokenSignatureInvalid or CodeTokenExpired.
func (s *TokenService) Verify(token string) (*Claims, error) {
	var claims tokenClaims
	_, err := s.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, oops.Code(CodeTokenSignatureInvalid).Errorf("token signature is invalid")
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, oops.Code(CodeTokenExpired).
				With("expired_at", claims.ExpiresAt).
				Errorf("token has expired")
		default:
			return nil, oops.Code(CodeTokenMalformed).With("reason", err.Error()).Errorf("token is malformed")
		}
	}

	if claims.Subject == "" {
		return nil, oops.Code(CodeTokenMalformed).Errorf("token has no subject")
	}

	return &Claims{
		Subject:     claims.Subject,
		DisplayName: claims.Name,
		IssuedAt:    claims.IssuedAt.Time,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}
