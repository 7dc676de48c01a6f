// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/bloglist/internal/platform/apperr"
	"github.com/taibuivan/bloglist/internal/platform/constants"
	"github.com/taibuivan/bloglist/internal/platform/ctxutil"
	"github.com/taibuivan/bloglist/internal/platform/metrics"
	"github.com/taibuivan/bloglist/internal/platform/respond"
	"github.com/taibuivan/bloglist/internal/platform/sec"
)

// TokenVerifier decodes a bearer token into its claims.
//
// Defining TokenVerifier here decouples the middleware from the token codec
// implementation, allowing tests to inject fakes.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// IdentityResolver turns a token subject into the live account it names.
// It must return an [apperr.AppError] with code NOT_FOUND when the account is gone.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, accountID string) (*sec.Identity, error)
}

// Authenticate extracts the bearer token, verifies it and resolves the account.
//
// # Flow
//  1. No 'Authorization: Bearer <token>' header: the request proceeds as anonymous.
//  2. Token fails to decode: 401, the handler never runs.
//  3. Token subject no longer exists: 401, the handler never runs.
//  4. Otherwise the [*sec.Identity] is attached to the request context.
func Authenticate(verifier TokenVerifier, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			// ── 1. Anonymous Access ───────────────────────────────────────────
			tokenStr, ok := BearerToken(request)
			if !ok {
				metrics.IdentityOutcomesTotal.WithLabelValues(metrics.OutcomeAnonymous).Inc()
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				ctxutil.GetLogger(ctx).DebugContext(ctx, "token_rejected", slog.String("reason", err.Error()))
				reject(writer, request)
				return
			}

			// ── 3. Account Resolution ─────────────────────────────────────────
			identity, err := resolver.ResolveIdentity(ctx, claims.AccountID())
			if err != nil {
				if apperr.HasCode(err, apperr.CodeNotFound) {
					ctxutil.GetLogger(ctx).InfoContext(ctx, "token_subject_missing", slog.String("account_id", claims.AccountID()))
					reject(writer, request)
					return
				}
				respond.Error(writer, request, err)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			metrics.IdentityOutcomesTotal.WithLabelValues(metrics.OutcomeIdentified).Inc()
			logger := ctxutil.GetLogger(ctx).With(slog.String("account_id", identity.AccountID))
			ctx = ctxutil.WithLogger(ctxutil.WithIdentity(ctx, identity), logger)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetIdentity(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized(apperr.MsgTokenInvalid))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// BearerToken returns the token of an 'Authorization: Bearer <token>' header.
// The scheme is matched case-insensitively; anything else reports false.
func BearerToken(request *http.Request) (string, bool) {
	header := request.Header.Get(constants.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

func reject(writer http.ResponseWriter, request *http.Request) {
	metrics.IdentityOutcomesTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
	respond.Error(writer, request, apperr.Unauthorized(apperr.MsgTokenInvalid))
}
