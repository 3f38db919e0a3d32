// Copyright (c) 2026 Pagebound. All rights reserved.

// Package ctxkey holds the typed keys for request-scoped context
// values. The unexported key type keeps lookups collision-free against
// third-party packages storing string keys.
package ctxkey

type key string

const (
	// KeyRequestID holds the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyLogger holds the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
