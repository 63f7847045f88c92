// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package errutil holds helpers for logging and asserting oops errors.
package errutil

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err at error level through ctx so request and trace ids are
// attached. For oops errors the code and context map are logged as separate
// attributes. Extra attrs are appended as given.
func LogError(ctx context.Context, logger *slog.Logger, msg string, err error, attrs ...any) {
	fields := []any{"error", err.Error()}
	if oopsErr, ok := oops.AsOops(err); ok {
		if code := oopsErr.Code(); code != nil && code != "" {
			fields = append(fields, "code", code)
		}
		if oopsCtx := oopsErr.Context(); len(oopsCtx) > 0 {
			fields = append(fields, "context", oopsCtx)
		}
	}
	logger.ErrorContext(ctx, msg, append(fields, attrs...)...)
}
