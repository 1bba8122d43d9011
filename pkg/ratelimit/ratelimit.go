package ratelimit

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Config bounds how many anonymous actions a single client may perform
// inside a fixed window.
type Config struct {
	SendLimit     int
	SendWindow    time.Duration
	SuggestLimit  int
	SuggestWindow time.Duration
}

// DefaultConfig returns sensible defaults for the anonymous routes.
func DefaultConfig() Config {
	return Config{
		SendLimit:     20, // 20 anonymous messages per minute per IP
		SendWindow:    60 * time.Second,
		SuggestLimit:  5, // 5 suggestion streams per minute per IP
		SuggestWindow: 60 * time.Second,
	}
}

// Limiter is a Redis-backed fixed-window counter.
type Limiter struct {
	client *goredis.Client
	config Config
}

// Result reports the outcome of one limit check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
	Limit     int
}

func NewLimiter(client *goredis.Client, config Config) *Limiter {
	return &Limiter{client: client, config: config}
}

// AllowSend checks whether an IP may submit another anonymous message.
func (l *Limiter) AllowSend(ctx context.Context, ip string) (*Result, error) {
	key := fmt.Sprintf("ratelimit:%s:send", ip)
	return l.checkLimit(ctx, key, l.config.SendLimit, l.config.SendWindow)
}

// AllowSuggest checks whether an IP may open another suggestion stream.
func (l *Limiter) AllowSuggest(ctx context.Context, ip string) (*Result, error) {
	key := fmt.Sprintf("ratelimit:%s:suggest", ip)
	return l.checkLimit(ctx, key, l.config.SuggestLimit, l.config.SuggestWindow)
}

// checkScript increments the window counter and sets its expiry in one
// atomic step, so a partial failure can never leave a counter without a TTL.
var checkScript = goredis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('EXPIRE', KEYS[1], ARGV[1])
	end
	local ttl = redis.call('TTL', KEYS[1])
	return {count, ttl}
`)

func (l *Limiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	raw, err := checkScript.Run(ctx, l.client, []string{key}, int(window.Seconds())).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %v", err)
	}
	return parseCheck(raw, limit, window)
}

// parseCheck turns the script's {count, ttl} reply into a Result.
func parseCheck(raw interface{}, limit int, window time.Duration) (*Result, error) {
	reply, ok := raw.([]interface{})
	if !ok || len(reply) < 2 {
		return nil, fmt.Errorf("unexpected rate limit reply format")
	}
	count, ok := reply[0].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected rate limit reply format")
	}
	ttlSeconds, ok := reply[1].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected rate limit reply format")
	}

	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl < 0 {
		ttl = window
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:   int(count) <= limit,
		Remaining: remaining,
		ResetIn:   ttl,
		Limit:     limit,
	}, nil
}
