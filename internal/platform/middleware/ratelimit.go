// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/bloglist/internal/platform/apperr"
	"github.com/taibuivan/bloglist/internal/platform/constants"
	"github.com/taibuivan/bloglist/internal/platform/metrics"
	"github.com/taibuivan/bloglist/internal/platform/respond"
)

// ipLimiters holds one token bucket per client address.
type ipLimiters struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	buckets map[string]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiters(rps float64, burst int) *ipLimiters {
	return &ipLimiters{
		rps:     rate.Limit(rps),
		burst:   burst,
		buckets: make(map[string]*bucket),
	}
}

// allow spends one token from ip's bucket.
func (limiters *ipLimiters) allow(ip string, now time.Time) bool {
	limiters.mu.Lock()
	defer limiters.mu.Unlock()

	b, ok := limiters.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(limiters.rps, limiters.burst)}
		limiters.buckets[ip] = b
	}
	b.lastSeen = now

	return b.limiter.AllowN(now, 1)
}

// sweep forgets buckets idle for longer than ttl.
func (limiters *ipLimiters) sweep(now time.Time, ttl time.Duration) {
	limiters.mu.Lock()
	defer limiters.mu.Unlock()

	for ip, b := range limiters.buckets {
		if now.Sub(b.lastSeen) > ttl {
			delete(limiters.buckets, ip)
		}
	}
}

func (limiters *ipLimiters) size() int {
	limiters.mu.Lock()
	defer limiters.mu.Unlock()
	return len(limiters.buckets)
}

// RateLimit limits requests per client IP using a token bucket.
//
// Each call owns its bucket table; the sweeper goroutine stops with ctx.
func RateLimit(ctx context.Context, rps float64, burst int) func(http.Handler) http.Handler {
	limiters := newIPLimiters(rps, burst)

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				limiters.sweep(now, constants.RateLimitClientTTL)
			case <-ctx.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !limiters.allow(RealIP(request), time.Now()) {
				metrics.RateLimitRejectedTotal.Inc()
				respond.Error(writer, request, apperr.RateLimited(1))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
