// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/samber/oops"
)

// MinPasswordLength is the minimum number of characters in a password.
const MinPasswordLength = 8

// PasswordSymbols is the set of characters that satisfy the symbol rule.
const PasswordSymbols = "!@#$%^&*"

// Client-facing validation messages.
const (
	msgInvalidEmail = "Invalid email"
	msgInvalidName  = "Name must start with alphabets and be at least 3 characters long, and can contain spaces."
	msgWeakPassword = "Password must be at least 8 characters long, contain 1 letter, 1 number, and 1 special character " + PasswordSymbols
)

// nameRegex requires three leading letters; interior and trailing spaces are allowed after that.
var nameRegex = regexp.MustCompile(`^[a-zA-Z]{3,}[a-zA-Z\s]*$`)

var domainLabelRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)

var tldRegex = regexp.MustCompile(`^[a-zA-Z]{2,63}$`)

// NormalizeEmail returns the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}

// ValidateName checks a display name against the name rule.
func ValidateName(name string) error {
	if !nameRegex.MatchString(name) {
		return oops.Code(CodeNameInvalid).Errorf("%s", msgInvalidName)
	}
	return nil
}

// ValidateEmailFormat checks that email is a bare local@domain address.
func ValidateEmailFormat(email string) error {
	if !isEmail(email) {
		return oops.Code(CodeEmailInvalid).Errorf("%s", msgInvalidEmail)
	}
	return nil
}

func isEmail(email string) bool {
	if email == "" || len(email) > 254 || strings.TrimSpace(email) != email {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	local, domain := email[:at], email[at+1:]
	if local == "" || len(local) > 64 {
		return false
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if !domainLabelRegex.MatchString(label) {
			return false
		}
	}
	return tldRegex.MatchString(labels[len(labels)-1])
}

// PasswordStrength reports each password criterion independently.
type PasswordStrength struct {
	MinLength bool
	HasLetter bool
	HasDigit  bool
	HasSymbol bool
}

// OK reports whether every criterion is met.
func (s PasswordStrength) OK() bool {
	return s.MinLength && s.HasLetter && s.HasDigit && s.HasSymbol
}

// CheckPasswordStrength evaluates password against each strength criterion.
func CheckPasswordStrength(password string) PasswordStrength {
	s := PasswordStrength{
		MinLength: utf8.RuneCountInString(password) >= MinPasswordLength,
	}
	for _, r := range password {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			s.HasLetter = true
		case r >= '0' && r <= '9':
			s.HasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			s.HasSymbol = true
		}
	}
	return s
}

// ValidatePasswordStrength returns an error unless every strength criterion is met.
func ValidatePasswordStrength(password string) error {
	if !CheckPasswordStrength(password).OK() {
		return oops.Code(CodePasswordWeak).Errorf("%s", msgWeakPassword)
	}
	return nil
}
