// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

// Package httpapi exposes accounts, sessions and posts over HTTP with JSON
// bodies. Every error response has the shape {"message": "..."}; the status
// code is derived from the error kind in one place (writeError).
package httpapi
