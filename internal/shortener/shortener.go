package shortener

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MaxAttempts bounds how many generated codes Shorten tries before giving up.
const MaxAttempts = 3

// Result is the outcome of a successful Shorten.
type Result struct {
	Code      Code
	LongURL   string
	CreatedAt time.Time
	ExpiresAt time.Time
	Custom    bool
	Attempts  int
}

// Shortener creates mappings, either for a caller-chosen code or for a
// generated one.
type Shortener struct {
	store    Store
	generate CodeGenerator
	reserved map[string]struct{}
	now      func() time.Time
	logger   *zap.Logger
}

// NewShortener creates a Shortener writing to store.
func NewShortener(store Store, generate CodeGenerator, opts ...Option) *Shortener {
	cfg := newConfig(opts)

	return &Shortener{
		store:    store,
		generate: generate,
		reserved: cfg.reserved,
		now:      cfg.now,
		logger:   cfg.logger,
	}
}

// Shorten maps longURL to customCode, or to a generated code when customCode
// is empty. Errors are *Error values.
func (s *Shortener) Shorten(ctx context.Context, longURL, customCode string) (*Result, error) {
	if err := ValidateLongURL(longURL); err != nil {
		return nil, err
	}

	if customCode != "" {
		return s.shortenCustom(ctx, longURL, Code(customCode))
	}

	return s.shortenGenerated(ctx, longURL)
}

// shortenCustom makes exactly one attempt: the caller picked the code, so a
// conflict is reported rather than replaced.
func (s *Shortener) shortenCustom(ctx context.Context, longURL string, code Code) (*Result, error) {
	if err := ValidateCustomCode(string(code)); err != nil {
		return nil, err
	}

	if s.isReserved(code) {
		return nil, codeTaken(code)
	}

	mapping := NewMapping(code, longURL, s.now())

	created, err := s.store.TryCreate(ctx, mapping)
	if err != nil {
		return nil, storeUnavailable("create mapping", err)
	}

	if !created {
		return nil, codeTaken(code)
	}

	return newResult(mapping, true, 1), nil
}

func (s *Shortener) shortenGenerated(ctx context.Context, longURL string) (*Result, error) {
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		mapping := NewMapping(Code(s.generate()), longURL, s.now())

		if !s.isReserved(mapping.Code) {
			created, err := s.store.TryCreate(ctx, mapping)
			if err != nil {
				return nil, storeUnavailable("create mapping", err)
			}

			if created {
				return newResult(mapping, false, attempt), nil
			}
		}

		s.logger.Debug("generated code collided",
			zap.String("code", string(mapping.Code)),
			zap.Int("attempt", attempt),
		)
	}

	s.logger.Warn("short code generation exhausted", zap.Int("attempts", MaxAttempts))

	return nil, generationExhausted(MaxAttempts)
}

func (s *Shortener) isReserved(code Code) bool {
	_, ok := s.reserved[strings.ToLower(string(code))]

	return ok
}

func newResult(m *Mapping, custom bool, attempts int) *Result {
	return &Result{
		Code:      m.Code,
		LongURL:   m.LongURL,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
		Custom:    custom,
		Attempts:  attempts,
	}
}
