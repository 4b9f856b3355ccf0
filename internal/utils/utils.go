package utils

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"
)

// context key
type ctxKey string

const CtxRequestIDKey ctxKey = "request_id"

// RequestID returns the request id stored by the middleware, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(CtxRequestIDKey).(string)
	return id
}

// Getenv reads key, falling back to def when unset or empty.
func Getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

// ParseDuration parses durations such as "500ms", "15m", "1h", "20s" or "30" (seconds).
// An empty string yields def.
func ParseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}

	if strings.HasSuffix(s, "s") ||
		strings.HasSuffix(s, "m") ||
		strings.HasSuffix(s, "h") {
		return time.ParseDuration(s)
	}

	// fallback: seconds
	sec, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return time.Duration(sec) * time.Second, nil
}
