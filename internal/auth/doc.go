// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package auth provides account registration, credential verification,
// stateless session tokens and ownership checks for inkpost.
//
// # Components
//
// Components are listed leaf-first:
//   - PasswordPolicy - ValidateName, ValidateEmailFormat, ValidatePasswordStrength
//   - CredentialStore - salted argon2id hashing on a bounded worker budget
//   - TokenService - HS256 bearer tokens with a fixed lifetime
//   - Directory - registration, login and password reset
//   - SessionAuthenticator - bearer token to Identity
//   - OwnershipGuard - Identity plus resource owner to Decision
//
// # Errors
//
// Every error returned by this package is an oops error carrying a stable
// code. KindOf maps a code onto the closed taxonomy (Validation,
// AlreadyExists, NotFound, InvalidCredentials, Unauthenticated, Forbidden,
// Internal). Messages of non-internal errors are safe to show to clients.
//
// # Known limitations
//
// Tokens carry no revocation state and stay valid until they expire, even
// after a password reset. Password reset requires no proof beyond knowing
// the email address; it can be switched off with WithUnverifiedReset(false).
package auth
