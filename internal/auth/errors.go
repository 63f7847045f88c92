// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"errors"

	"github.com/samber/oops"
)

// ErrNotFound is returned by repositories when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned by repositories when the storage layer rejects
// a second account for the same normalized email.
var ErrEmailTaken = errors.New("email already registered")

// Kind classifies an error for the transport boundary.
type Kind string

// Error kinds.
const (
	KindValidation         Kind = "validation"
	KindAlreadyExists      Kind = "already_exists"
	KindNotFound           Kind = "not_found"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindUnauthenticated    Kind = "unauthenticated"
	KindForbidden          Kind = "forbidden"
	KindInternal           Kind = "internal"
)

// Error codes with client-safe messages.
const (
	CodeFieldsRequired        = "AUTH_FIELDS_REQUIRED"
	CodeEmailInvalid          = "AUTH_EMAIL_INVALID"
	CodeNameInvalid           = "AUTH_NAME_INVALID"
	CodePasswordMismatch      = "AUTH_PASSWORD_MISMATCH"
	CodePasswordWeak          = "AUTH_PASSWORD_WEAK"
	CodeAlreadyRegistered     = "AUTH_ALREADY_REGISTERED"
	CodeAccountNotFound       = "AUTH_ACCOUNT_NOT_FOUND"
	CodeInvalidCredentials    = "AUTH_INVALID_CREDENTIALS"
	CodeTokenMissing          = "AUTH_TOKEN_MISSING"
	CodeTokenMalformed        = "AUTH_TOKEN_MALFORMED"
	CodeTokenSignatureInvalid = "AUTH_TOKEN_SIGNATURE_INVALID"
	CodeTokenExpired          = "AUTH_TOKEN_EXPIRED"
	CodeForbidden             = "AUTH_FORBIDDEN"
	CodeResetDisabled         = "AUTH_RESET_DISABLED"
)

var kindByCode = map[string]Kind{
	CodeFieldsRequired:        KindValidation,
	CodeEmailInvalid:          KindValidation,
	CodeNameInvalid:           KindValidation,
	CodePasswordMismatch:      KindValidation,
	CodePasswordWeak:          KindValidation,
	CodeAlreadyRegistered:     KindAlreadyExists,
	CodeAccountNotFound:       KindNotFound,
	CodeInvalidCredentials:    KindInvalidCredentials,
	CodeTokenMissing:          KindUnauthenticated,
	CodeTokenMalformed:        KindUnauthenticated,
	CodeTokenSignatureInvalid: KindUnauthenticated,
	CodeTokenExpired:          KindUnauthenticated,
	CodeForbidden:             KindForbidden,
	CodeResetDisabled:         KindForbidden,
}

// RegisterKind associates an error code owned by another package with a Kind.
// It is meant to be called from package init functions.
func RegisterKind(code string, kind Kind) {
	kindByCode[code] = kind
}

// KindOf classifies err. Errors without a known code are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if kind, ok := kindByCode[ErrorCode(err)]; ok {
		return kind
	}
	return KindInternal
}

// ErrorCode returns the oops code attached to err, or "" if there is none.
func ErrorCode(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	return codeString(oopsErr.Code())
}

func codeString(v any) string {
	s, _ := v.(string)
	return s
}
