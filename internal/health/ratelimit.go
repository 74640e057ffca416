package health

import "github.com/serroba/tinyurl/internal/ratelimit"

func disabledRateLimit() map[string]any {
	return map[string]any{ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true}}
}
