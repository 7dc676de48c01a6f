// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/taibuivan/bloglist/internal/platform/apperr"
	"github.com/taibuivan/bloglist/internal/platform/ctxutil"
	"github.com/taibuivan/bloglist/internal/platform/metrics"
	"github.com/taibuivan/bloglist/internal/platform/validate"
)

// Service implements the login use case.
type Service struct {
	accounts AccountFinder
	hasher   PasswordVerifier
	tokens   TokenIssuer
	throttle Throttle
}

// NewService constructs a new login [Service].
// A nil throttle disables failed-login throttling.
func NewService(accounts AccountFinder, hasher PasswordVerifier, tokens TokenIssuer, throttle Throttle) *Service {
	if throttle == nil {
		throttle = noopThrottle{}
	}
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		throttle: throttle,
	}
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username string
	Password string
	ClientIP string
}

// LoginResult is the minimal identity returned with a fresh token.
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
	ID       string `json:"id"`
}

/*
Login validates credentials and issues a bearer token.

Returns:
  - *LoginResult: Token plus username, display name and id
  - error: ValidationError, RateLimited, the generic Unauthorized, or internal failures
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	logger := ctxutil.GetLogger(ctx)

	validator := &validate.Validator{}
	// Passwords are opaque: whitespace is a legal secret, only absence is rejected.
	validator.Required(FieldUsername, input.Username).
		Custom(FieldPassword, input.Password == "", FieldPassword+" is required")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// 1. Refuse throttled clients before touching credentials
	retryAfter, blocked, err := service.throttle.Blocked(ctx, input.ClientIP)
	if err != nil {
		logger.WarnContext(ctx, "login_throttle_unavailable", slog.String("error", err.Error()))
	}
	if blocked {
		metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginThrottled).Inc()
		logger.WarnContext(ctx, "login_throttled", slog.String("client_ip", input.ClientIP))
		return nil, apperr.RateLimited(int(math.Ceil(retryAfter.Seconds())))
	}

	// 2. Resolve the account; unknown users still pay for one comparison
	account, err := service.accounts.FindByUsername(ctx, input.Username)
	if err != nil {
		if !apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, err
		}
		service.hasher.CompareDummy(input.Password)
		return nil, service.fail(ctx, input.ClientIP)
	}

	// 3. Verify the password
	if !service.hasher.Verify(input.Password, account.PasswordHash) {
		return nil, service.fail(ctx, input.ClientIP)
	}

	// 4. Mint the token
	token, err := service.tokens.Issue(account.ID, account.Username)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_issue_failed: %w", err))
	}

	if err := service.throttle.Reset(ctx, input.ClientIP); err != nil {
		logger.WarnContext(ctx, "login_throttle_reset_failed", slog.String("error", err.Error()))
	}

	metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginSuccess).Inc()
	logger.InfoContext(ctx, "login_succeeded", slog.String("account_id", account.ID))

	return &LoginResult{
		Token:    token,
		Username: account.Username,
		Name:     account.DisplayName,
		ID:       account.ID,
	}, nil
}

// fail records a credential failure and returns the generic error.
func (service *Service) fail(ctx context.Context, clientIP string) error {
	if err := service.throttle.RecordFailure(ctx, clientIP); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "login_throttle_record_failed", slog.String("error", err.Error()))
	}
	metrics.LoginAttemptsTotal.WithLabelValues(metrics.LoginFailure).Inc()
	return apperr.Unauthorized(apperr.MsgInvalidCredentials)
}
