// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import "github.com/samber/oops"

const msgNotOwner = "You are not allowed to modify this resource"

// Decision is the outcome of an ownership check.
type Decision int

// Decisions.
const (
	Forbidden Decision = iota
	Allowed
)

// String returns the decision name.
func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "forbidden"
}

// OwnershipGuard restricts mutation of a resource to its owner.
// There is no administrative override.
type OwnershipGuard struct{}

// Decide compares the caller with the recorded owner.
func (OwnershipGuard) Decide(id Identity, ownerID string) Decision {
	if id.Subject != "" && id.Subject == ownerID {
		return Allowed
	}
	return Forbidden
}

// Authorize returns a CodeForbidden error unless id owns the resource.
func (g OwnershipGuard) Authorize(id Identity, ownerID string) error {
	if g.Decide(id, ownerID) == Allowed {
		return nil
	}
	return oops.Code(CodeForbidden).
		With("subject", id.Subject).
		With("owner_id", ownerID).
		Errorf("%s", msgNotOwner)
}
