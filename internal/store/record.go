package store

import (
	"time"

	"github.com/serroba/tinyurl/internal/shortener"
)

// record is the wire shape of a mapping in key-value backends:
// expires_at is epoch seconds so it can double as the backend TTL attribute.
type record struct {
	Code      string `dynamodbav:"code"                 json:"code"`
	CreatedAt string `dynamodbav:"created_at"           json:"created_at"`
	LongURL   string `dynamodbav:"long_url"             json:"long_url"`
	ExpiresAt int64  `dynamodbav:"expires_at,omitempty" json:"expires_at,omitempty"`
}

func toRecord(m *shortener.Mapping) record {
	r := record{
		Code:      string(m.Code),
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339Nano),
		LongURL:   m.LongURL,
	}

	if !m.ExpiresAt.IsZero() {
		r.ExpiresAt = m.ExpiresAt.Unix()
	}

	return r
}

func (r record) mapping() (*shortener.Mapping, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return nil, err
	}

	m := &shortener.Mapping{
		Code:      shortener.Code(r.Code),
		LongURL:   r.LongURL,
		CreatedAt: createdAt,
	}

	if r.ExpiresAt != 0 {
		m.ExpiresAt = time.Unix(r.ExpiresAt, 0).UTC()
	}

	return m, nil
}
