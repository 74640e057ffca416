package shortener

import "time"

// TTL is how long a mapping stays live after creation.
const TTL = 30 * 24 * time.Hour

// Code represents a short URL code.
type Code string

// Mapping is the persisted association between a short code and its long URL.
type Mapping struct {
	Code      Code
	LongURL   string
	CreatedAt time.Time
	ExpiresAt time.Time // zero means no expiration
}

// NewMapping builds a mapping created at createdAt that expires TTL later.
func NewMapping(code Code, longURL string, createdAt time.Time) *Mapping {
	return &Mapping{
		Code:      code,
		LongURL:   longURL,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(TTL),
	}
}

// Expired reports whether the mapping is logically dead at now.
// A mapping is still live at the exact instant of ExpiresAt.
func (m *Mapping) Expired(now time.Time) bool {
	return !m.ExpiresAt.IsZero() && now.After(m.ExpiresAt)
}
