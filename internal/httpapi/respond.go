// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/samber/oops"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/pkg/errutil"
)

const (
	msgInternal       = "Something went wrong. Please try again later"
	msgInvalidBody    = "Invalid request body"
	maxRequestBodyLen = 1 << 20
)

// errInvalidBody marks a request body that could not be decoded.
var errInvalidBody = oops.Code("HTTP_INVALID_BODY").Errorf("%s", msgInvalidBody)

func init() {
	auth.RegisterKind("HTTP_INVALID_BODY", auth.KindValidation)
}

type messageResponse struct {
	Message string `json:"message"`
}

// statusFor maps an error kind to an HTTP status.
func statusFor(kind auth.Kind) int {
	switch kind {
	case auth.KindValidation, auth.KindAlreadyExists:
		return http.StatusBadRequest
	case auth.KindNotFound:
		return http.StatusNotFound
	case auth.KindInvalidCredentials, auth.KindUnauthenticated:
		return http.StatusUnauthorized
	case auth.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // client may disconnect
	json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// writeError is the only place errors become responses. Internal errors are
// logged with their full context and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	kind := auth.KindOf(err)
	status := statusFor(kind)

	if kind == auth.KindInternal {
		errutil.LogError(r.Context(), logger, "request failed", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		writeMessage(w, status, msgInternal)
		return
	}

	logger.DebugContext(r.Context(), "request rejected",
		"method", r.Method,
		"path", r.URL.Path,
		"code", auth.ErrorCode(err),
		"kind", string(kind),
	)
	writeMessage(w, status, err.Error())
}

// decodeJSON reads a JSON object from the request body into v. An empty
// body decodes as an empty object so that missing fields are reported by
// the domain validation rather than as a malformed body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyLen)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errInvalidBody
	}
	return nil
}
