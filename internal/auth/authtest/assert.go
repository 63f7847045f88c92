// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package authtest provides test helpers for auth errors.
package authtest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/pkg/errutil"
)

// AssertError asserts that err carries code and classifies as kind.
func AssertError(t *testing.T, err error, code string, kind auth.Kind) {
	t.Helper()
	errutil.AssertErrorCode(t, err, code)
	assert.Equal(t, kind, auth.KindOf(err), "kind of %q", auth.ErrorCode(err))
}

// AssertKind asserts that err classifies as kind, whatever its code.
func AssertKind(t *testing.T, err error, kind auth.Kind) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Equal(t, kind, auth.KindOf(err), "kind of %q", auth.ErrorCode(err))
	}
}
