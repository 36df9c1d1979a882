package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"hostel/shared"
	"hostel/shared/cache"
	"hostel/shared/constant"
	"hostel/transport/http/response"
)

const (
	cacheKeyRateLimit = "limiter"
	unknownAgent      = "unknown"
)

// RateLimit is a fixed window counter per client IP and user agent. The
// window starts on the first request and is refreshed on every counted one.
// Cache outages let traffic through.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	limits := a.config.App.RateLimiter

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limits.Enable {
				next.ServeHTTP(w, r)

				return
			}

			key := shared.BuildCacheKey(cacheKeyRateLimit, a.getClientIP(r), a.getUA(r))

			count, ok := a.hit(r.Context(), key, limits.MaxRequests, limits.WindowSeconds)
			if !ok {
				next.ServeHTTP(w, r)

				return
			}

			header := w.Header()
			header.Set(constant.RequestHeaderRateLimit, strconv.Itoa(limits.MaxRequests))
			header.Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, limits.MaxRequests-count)))
			header.Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limits.WindowSeconds))

			if count > limits.MaxRequests {
				header.Set("Retry-After", strconv.Itoa(limits.WindowSeconds))
				response.WithRequestLimitExceeded(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// hit increments the counter under key. ok is false when the cache failed.
func (a *appMiddleware) hit(ctx context.Context, key string, maxRequests, window int) (count int, ok bool) {
	err := a.cache.Get(ctx, key, &count)

	switch {
	case errors.Is(err, cache.Nil):
		count = 0
	case err != nil:
		log.Warn().Err(err).Str("key", key).Msg("rate limiter cache unavailable")

		return 0, false
	}

	count++

	if count > maxRequests {
		return count, true
	}

	if err := a.cache.Save(ctx, key, count, window); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("rate limiter cache unavailable")

		return 0, false
	}

	return count, true
}

func (a *appMiddleware) getUA(r *http.Request) string {
	if ua := r.Header.Get(constant.RequestHeaderUserAgent); ua != "" {
		return ua
	}

	return unknownAgent
}

// getClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// peer address.
func (a *appMiddleware) getClientIP(r *http.Request) string {
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
