package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/tinyurl/internal/ratelimit"
)

// RegisterRoutes registers the shorten and redirect routes with their rate limits.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "shorten",
		Method:        http.MethodPost,
		Path:          "/shorten",
		Summary:       "Create short URL",
		Description:   "Creates a short URL for a long URL, optionally with a caller-chosen code. Links expire after 30 days.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusOK,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict, http.StatusTooManyRequests, http.StatusInternalServerError},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Limits: ratelimit.WriteLimits},
		},
	}, urlHandler.Shorten)

	huma.Register(api, huma.Operation{
		OperationID:   "redirect",
		Method:        http.MethodGet,
		Path:          "/{code}",
		Summary:       "Redirect to original URL",
		Description:   "Redirects to the long URL associated with the short code.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusFound,
		Errors:        []int{http.StatusNotFound, http.StatusGone, http.StatusTooManyRequests, http.StatusInternalServerError},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Limits: ratelimit.ReadLimits},
		},
	}, urlHandler.Redirect)
}
