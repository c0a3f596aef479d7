package ratelimit

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"hotelWeb/internal/shared/auth"
)

const storePrefix = "hotel_web_rate"

// ParseRate accepts the limiter format ("300-M", "10-S") and explicit periods ("10-2m", "5-1h").
func ParseRate(raw string) (limiter.Rate, error) {
	trimmed := strings.TrimSpace(raw)
	if rate, err := limiter.NewRateFromFormatted(trimmed); err == nil {
		return rate, nil
	}

	parts := strings.Split(trimmed, "-")
	if len(parts) != 2 {
		return limiter.Rate{}, fmt.Errorf("invalid rate format: %q", raw)
	}
	limit, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || limit <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid rate limit: %q", parts[0])
	}
	period, err := time.ParseDuration(parts[1])
	if err != nil || period <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid rate period: %q", parts[1])
	}
	return limiter.Rate{Period: period, Limit: limit}, nil
}

// NewStore returns a redis-backed store when redisURL is set, an in-memory one otherwise.
// The returned close function releases the redis client.
func NewStore(redisURL string) (limiter.Store, func() error, error) {
	if strings.TrimSpace(redisURL) == "" {
		return memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: storePrefix, CleanUpInterval: time.Minute}), func() error { return nil }, nil
	}

	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(options)
	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: storePrefix, MaxRetry: 3})
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("create redis rate store: %w", err)
	}
	return store, client.Close, nil
}

// Options tune how callers are identified.
type Options struct {
	// TrustForwardHeader reads the client IP from X-Forwarded-For / X-Real-IP. Enable it only
	// behind a proxy that sets those headers.
	TrustForwardHeader bool
	// Validator, when set, lets requests with a valid bearer token share one bucket per subject.
	Validator auth.TokenValidator
}

// Middleware limits requests per authenticated subject, or per client IP for everyone else.
// Unverified tokens never pick the bucket.
func Middleware(store limiter.Store, rate limiter.Rate, opts Options) echo.MiddlewareFunc {
	instance := limiter.New(store, rate, limiter.WithTrustForwardHeader(opts.TrustForwardHeader))
	handler := stdlib.NewMiddleware(instance,
		stdlib.WithKeyGetter(func(r *http.Request) string {
			if subject := validatedSubject(opts.Validator, r); subject != "" {
				return "sub:" + subject
			}
			return "ip:" + instance.GetIPKey(r)
		}),
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("rate limit reached", slog.String("path", r.URL.Path), slog.String("ip", instance.GetIPKey(r)))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"message":"too many requests"}`))
		}),
	)
	return echo.WrapMiddleware(handler.Handler)
}

func validatedSubject(validator auth.TokenValidator, r *http.Request) string {
	if validator == nil {
		return ""
	}
	token := auth.ExtractBearerToken(r)
	if token == "" {
		return ""
	}
	claims, err := validator.Validate(token)
	if err != nil || claims == nil {
		return ""
	}
	return claims.Subject
}
