// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the cross-cutting HTTP processing chain.

Standard Stack:

  - Trace: RequestID generation for log correlation.
  - Address: client IP from trusted proxy headers only.
  - Log: Structured request logging (slog) with a per-request logger in context.
  - Guard: Per-IP rate limiting and CORS validation.
  - Safe: Panic recovery.
  - Identity: Bearer token extraction and account resolution.

Every rejection is written through the respond package so clients see one
error envelope regardless of which stage refused the request.
*/
package middleware

import (
	"net"
	"net/http"
	"net/netip"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/bloglist/internal/platform/constants"
	"github.com/taibuivan/bloglist/internal/platform/ctxutil"
	"github.com/taibuivan/bloglist/pkg/uuid"
)

// # Request Tracing

// RequestID attaches a correlation ID to every request.
// A client supplied X-Request-ID is kept; otherwise a UUIDv7 is generated.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New()
			}

			writer.Header().Set(constants.HeaderXRequestID, requestID)
			ctx := ctxutil.WithRequestID(request.Context(), requestID)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Client Address

// TrustedProxies rewrites RemoteAddr from True-Client-IP, X-Real-IP or
// X-Forwarded-For, but only when the connection comes from one of the
// trusted prefixes. Any other peer keeps its socket address, whatever
// headers it sends.
func TrustedProxies(trusted []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		viaProxy := chimw.RealIP(next)

		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if fromTrustedPeer(request.RemoteAddr, trusted) {
				viaProxy.ServeHTTP(writer, request)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

func fromTrustedPeer(remoteAddr string, trusted []netip.Prefix) bool {
	if len(trusted) == 0 {
		return false
	}

	addrPort, err := netip.ParseAddrPort(remoteAddr)
	if err != nil {
		return false
	}

	peer := addrPort.Addr().Unmap()
	for _, prefix := range trusted {
		if prefix.Contains(peer) {
			return true
		}
	}
	return false
}

// RealIP returns the client address as seen on the connection, after
// [TrustedProxies] has had its chance to rewrite it. Headers are never read here.
func RealIP(request *http.Request) string {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
