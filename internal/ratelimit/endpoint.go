package ratelimit

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// MetadataKey is the key used to store rate limit config in operation metadata.
const MetadataKey = "rateLimit"

// Default limits applied per client.
var (
	WriteLimits = []Limit{
		{Window: time.Minute, Max: 10},
		{Window: time.Hour, Max: 100},
	}
	ReadLimits = []Limit{
		{Window: time.Minute, Max: 1000},
	}
)

// EndpointConfig is attached to huma operations via their Metadata field.
type EndpointConfig struct {
	// Limits overrides the method-based defaults when non-empty.
	Limits []Limit
	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// LimitsFor returns the limits that apply to op. Operations without metadata
// fall back to ReadLimits for safe methods and WriteLimits otherwise.
// A nil result means the operation is not limited.
func LimitsFor(op *huma.Operation) []Limit {
	if op == nil {
		return nil
	}

	if cfg, ok := op.Metadata[MetadataKey].(EndpointConfig); ok {
		if cfg.Disabled {
			return nil
		}

		if len(cfg.Limits) > 0 {
			return cfg.Limits
		}
	}

	switch op.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ReadLimits
	default:
		return WriteLimits
	}
}
