// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the login flow: credential verification, token
issuance and the failed-login throttle.

# Architecture

  - Service: Looks the account up, verifies the password, mints a bearer token.
  - Throttle: Counts failures per client address in a fixed window (Redis).
  - Handler: POST /api/login.

Every credential failure produces the same response, whether the username
is unknown or the password is wrong, and both paths spend one bcrypt comparison.
*/
package auth

import (
	"context"
	"time"

	"github.com/taibuivan/bloglist/internal/users/account"
)

// # Throttle Policy

const (
	// LoginMaxFailures is the number of failures a client may accumulate per window.
	LoginMaxFailures = 10

	// LoginFailureWindow is how long failures are remembered.
	LoginFailureWindow = 15 * time.Minute
)

// # Field Identifiers

const (
	FieldUsername = "username"
	FieldPassword = "password"
)

// # Collaborators

// AccountFinder resolves a username to its stored account.
type AccountFinder interface {
	FindByUsername(ctx context.Context, username string) (*account.Account, error)
}

// PasswordVerifier compares a plaintext secret with a stored hash.
type PasswordVerifier interface {
	Verify(plainTextPassword, existingHash string) bool
	CompareDummy(plainTextPassword string) bool
}

// TokenIssuer mints a signed bearer token for an account.
type TokenIssuer interface {
	Issue(accountID, username string) (string, error)
}

// Throttle tracks failed logins per client key.
type Throttle interface {

	/*
		Blocked reports whether key has exhausted its failures.

		Returns:
		  - time.Duration: Remaining time until the window resets (when blocked)
		  - bool: True if further attempts must be refused
		  - error: Backend failures
	*/
	Blocked(ctx context.Context, key string) (time.Duration, bool, error)

	// RecordFailure counts one failed attempt for key.
	RecordFailure(ctx context.Context, key string) error

	// Reset forgets every failure recorded for key.
	Reset(ctx context.Context, key string) error
}

// noopThrottle is used when no Redis backend is configured.
type noopThrottle struct{}

func (noopThrottle) Blocked(context.Context, string) (time.Duration, bool, error) {
	return 0, false, nil
}
func (noopThrottle) RecordFailure(context.Context, string) error { return nil }
func (noopThrottle) Reset(context.Context, string) error         { return nil }
