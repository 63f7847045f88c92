// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/auth/authtest"
)

func TestOwnershipGuard(t *testing.T) {
	guard := auth.OwnershipGuard{}

	tests := []struct {
		name    string
		subject string
		ownerID string
		want    auth.Decision
	}{
		{"owner", "01HALICE", "01HALICE", auth.Allowed},
		{"other account", "01HBOB", "01HALICE", auth.Forbidden},
		{"empty subject", "", "", auth.Forbidden},
		{"empty owner", "01HALICE", "", auth.Forbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := auth.Identity{Subject: tt.subject}
			assert.Equal(t, tt.want, guard.Decide(id, tt.ownerID))

			err := guard.Authorize(id, tt.ownerID)
			if tt.want == auth.Allowed {
				assert.NoError(t, err)
				return
			}
			authtest.AssertError(t, err, auth.CodeForbidden, auth.KindForbidden)
		})
	}
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "allowed", auth.Allowed.String())
	assert.Equal(t, "forbidden", auth.Forbidden.String())
}
