// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines the typed context keys shared by middleware and
// handlers. Values are read and written through package ctxutil.
package ctxkey

// key is unexported so no other package can mint a colliding key.
type key struct{ name string }

func (k *key) String() string { return "ctxkey." + k.name }

var (
	// KeyRequestID holds the X-Request-ID correlation value.
	KeyRequestID = &key{"request_id"}

	// KeyIdentity holds the resolved caller (*sec.Identity), absent for anonymous requests.
	KeyIdentity = &key{"identity"}

	// KeyLogger holds the per-request *slog.Logger.
	KeyLogger = &key{"logger"}
)
