package app

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type contextKey string

const userIDContextKey = contextKey("userID")

// userIDHeader carries the caller's identity, established upstream by the
// account service at the edge.
const userIDHeader = "X-User-Id"

func (app *Application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *Application) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.Atoi(r.Header.Get(userIDHeader))
		if err != nil || userID < 1 {
			app.unauthorizedResponse(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *Application) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := app.userRepo.GetById(r.Context(), app.contextUserID(r))
		if err != nil {
			app.forbiddenResponse(w, r)
			return
		}

		if !user.IsAdmin {
			app.forbiddenResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// contextUserID returns the authenticated user's ID. It must only be called
// from handlers behind requireUser.
func (app *Application) contextUserID(r *http.Request) int {
	userID, ok := r.Context().Value(userIDContextKey).(int)
	if !ok {
		panic("missing user ID in request context")
	}

	return userID
}

// maybeUserID returns the caller's ID when present, zero otherwise. Used by
// public endpoints that personalize output for identified callers.
func (app *Application) maybeUserID(r *http.Request) int {
	if userID, ok := r.Context().Value(userIDContextKey).(int); ok {
		return userID
	}

	if userID, err := strconv.Atoi(r.Header.Get(userIDHeader)); err == nil && userID > 0 {
		return userID
	}

	return 0
}

// Token bucket per caller, kept in Redis so every instance shares the same
// budget.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals)
		last_refill = last_refill + (intervals * interval_ms)
	end

	local allowed = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return allowed
`)

func (app *Application) rateLimit(next http.Handler) http.Handler {
	if !app.config.rateLimit.enabled || app.redis == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("rl:%s:%s", r.RemoteAddr, r.Header.Get(userIDHeader))

		args := []any{
			time.Now().UnixMilli(),
			app.config.rateLimit.capacity,
			app.config.rateLimit.refillInterval.Milliseconds(),
			int64(10 * time.Minute / time.Second),
		}

		allowed, err := tokenBucketScript.Run(r.Context(), app.redis, []string{key}, args...).Int()
		if err != nil {
			// Rate limiting degrades open when Redis is unreachable.
			app.logger.Warn("rate limiter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		if allowed != 1 {
			app.rateLimitExceededResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
