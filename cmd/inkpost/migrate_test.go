// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/pkg/errutil"
)

func TestParseForceVersion(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantVersion int
		wantErr     bool
		wantErrCode string
	}{
		{
			name:        "valid integer",
			input:       "3",
			wantVersion: 3,
		},
		{
			name:        "zero is valid",
			input:       "0",
			wantVersion: 0,
		},
		{
			name:        "non-numeric returns error",
			input:       "abc",
			wantErr:     true,
			wantErrCode: "INVALID_VERSION",
		},
		{
			name:        "trailing chars are ignored",
			input:       "3abc",
			wantVersion: 3,
		},
		{
			name:        "negative parses; Force rejects it",
			input:       "-1",
			wantVersion: -1,
		},
		{
			name:        "empty string returns error",
			input:       "",
			wantErr:     true,
			wantErrCode: "INVALID_VERSION",
		},
		{
			name:        "whitespace only returns error",
			input:       "   ",
			wantErr:     true,
			wantErrCode: "INVALID_VERSION",
		},
		{
			name:        "leading whitespace is handled",
			input:       "  42",
			wantVersion: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, err := parseForceVersion(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, tt.wantErrCode)
				assert.Equal(t, 0, version)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantVersion, version)
			}
		})
	}
}

// useMigrator swaps in m for the duration of the test.
func useMigrator(t *testing.T, m Migrator) *string {
	t.Helper()
	var gotURL string
	orig := migratorFactory
	migratorFactory = func(url string) (Migrator, error) {
		gotURL = url
		return m, nil
	}
	t.Cleanup(func() { migratorFactory = orig })
	configFile = ""
	t.Cleanup(func() { configFile = "" })
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return &gotURL
}

func runMigrateCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"migrate"}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestMigrate_DatabaseURLRequired(t *testing.T) {
	useMigrator(t, &mockMigrator{})
	t.Setenv("INKPOST_DATABASE_URL", "")

	_, err := runMigrateCmd(t, "up")
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestMigrate_URLFromEnvAndFlag(t *testing.T) {
	m := &mockMigrator{}
	gotURL := useMigrator(t, m)
	t.Setenv("INKPOST_DATABASE_URL", "postgres://env/db")

	_, err := runMigrateCmd(t, "up")
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/db", *gotURL)

	_, err = runMigrateCmd(t, "up", "--database-url", "postgres://flag/db")
	require.NoError(t, err)
	assert.Equal(t, "postgres://flag/db", *gotURL)
}

func TestMigrate_Up(t *testing.T) {
	t.Setenv("INKPOST_DATABASE_URL", "postgres://env/db")

	t.Run("nothing pending", func(t *testing.T) {
		m := &mockMigrator{}
		useMigrator(t, m)

		out, err := runMigrateCmd(t)
		require.NoError(t, err)
		assert.Contains(t, out, "No pending migrations")
		assert.Zero(t, m.upCalls)
		assert.True(t, m.closed)
	})

	t.Run("applies pending", func(t *testing.T) {
		m := &mockMigrator{pending: []uint{1, 2}}
		useMigrator(t, m)

		out, err := runMigrateCmd(t, "up")
		require.NoError(t, err)
		assert.Contains(t, out, "Applying 2 migration(s)")
		assert.Equal(t, 1, m.upCalls)
	})

	t.Run("failure", func(t *testing.T) {
		m := &mockMigrator{pending: []uint{1}, upErr: errors.New("boom")}
		useMigrator(t, m)

		_, err := runMigrateCmd(t, "up")
		errutil.AssertErrorCode(t, err, "MIGRATION_FAILED")
		assert.True(t, m.closed)
	})
}

func TestMigrate_VersionDownForce(t *testing.T) {
	t.Setenv("INKPOST_DATABASE_URL", "postgres://env/db")

	m := &mockMigrator{version: 1, dirty: true, pending: []uint{2}}
	useMigrator(t, m)

	out, err := runMigrateCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version: 1 (dirty)")
	assert.Contains(t, out, "Pending: 2")

	out, err = runMigrateCmd(t, "force", "1")
	require.NoError(t, err)
	require.NotNil(t, m.forced)
	assert.Equal(t, 1, *m.forced)
	assert.Contains(t, out, "Forced migration version to 1")

	_, err = runMigrateCmd(t, "force", "x")
	errutil.AssertErrorCode(t, err, "INVALID_VERSION")

	_, err = runMigrateCmd(t, "down")
	require.NoError(t, err)
	assert.True(t, m.downCall)
}
