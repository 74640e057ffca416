package shortener

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

type config struct {
	now      func() time.Time
	logger   *zap.Logger
	reserved map[string]struct{}
}

func newConfig(opts []Option) config {
	cfg := config{
		now:    time.Now,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// Option configures a Shortener or Resolver.
type Option func(*config)

// WithClock replaces the wall clock used for creation and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// WithLogger sets the logger. Services log nothing by default.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithReservedCodes marks codes that can never be issued because another
// route owns their path. Matching ignores case.
func WithReservedCodes(codes ...string) Option {
	return func(c *config) {
		if c.reserved == nil {
			c.reserved = make(map[string]struct{}, len(codes))
		}

		for _, code := range codes {
			c.reserved[strings.ToLower(code)] = struct{}{}
		}
	}
}
