package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/tinyurl/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter returns a Huma middleware that applies the operation's rate
// limits per client. Limits come from ratelimit.LimitsFor, so routes can
// override or disable them through operation metadata.
//
// Counters are keyed by the route template (e.g. "/{code}"), not the request
// path, so every code shares one budget per client.
func RateLimiter(
	api huma.API, limiter ratelimit.Limiter, logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()

		limits := ratelimit.LimitsFor(op)
		if len(limits) == 0 {
			next(ctx)

			return
		}

		key := fmt.Sprintf("%s:%s %s", clientKey(ctx), op.Method, op.Path)

		allowed, exceeded, err := limiter.Allow(ctx.Context(), key, limits)
		if err != nil {
			logger.Error("rate limit check failed", zap.String("path", op.Path), zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "Internal server error")

			return
		}

		if !allowed {
			logger.Warn("rate limit exceeded",
				zap.String("path", op.Path),
				zap.String("method", op.Method),
				zap.Int64("count", exceeded.Count),
				zap.Int64("max", exceeded.Limit.Max),
				zap.Duration("window", exceeded.Limit.Window),
				zap.String("client_ip", ClientIP(ctx)),
			)

			retryAfter := int(math.Ceil(exceeded.Limit.Window.Seconds()))
			ctx.SetHeader("Retry-After", strconv.Itoa(retryAfter))
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests,
				fmt.Sprintf("Rate limit exceeded: %d requests per %s", exceeded.Limit.Max, exceeded.Limit.Window))

			return
		}

		next(ctx)
	}
}

// clientKey identifies a client by IP and User-Agent.
func clientKey(ctx huma.Context) string {
	hash := sha256.Sum256([]byte(ClientIP(ctx) + "|" + ctx.Header("User-Agent")))

	return hex.EncodeToString(hash[:])
}
