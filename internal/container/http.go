package container

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/tinyurl/internal/events"
	"github.com/serroba/tinyurl/internal/handlers"
	"github.com/serroba/tinyurl/internal/health"
	"github.com/serroba/tinyurl/internal/messaging"
	"github.com/serroba/tinyurl/internal/middleware"
	"github.com/serroba/tinyurl/internal/ratelimit"
	"github.com/serroba/tinyurl/internal/shortener"
	"go.uber.org/zap"
)

const (
	serviceName    = "tinyurl"
	serviceVersion = "1.0.0"
)

// reservedCodes are path segments the API serves itself. A short code named
// after one could never redirect.
var reservedCodes = []string{"health", "docs", "openapi", "schemas"}

// HTTPPackage provides the router and the huma API with every route registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		handlers.UseErrorBody()

		api := humachi.New(router, huma.DefaultConfig("URL Shortener", serviceVersion))
		api.UseMiddleware(middleware.RequestMeta(api))

		if opts.RateLimit {
			limiter, err := do.Invoke[ratelimit.Limiter](i)
			if err != nil {
				return nil, err
			}

			api.UseMiddleware(middleware.RateLimiter(api, limiter, logger.Named("ratelimit")))
		}

		urlHandler, err := newURLHandler(i, opts, logger)
		if err != nil {
			return nil, err
		}

		handlers.RegisterRoutes(api, urlHandler)

		s, err := do.Invoke[shortener.Store](i)
		if err != nil {
			return nil, err
		}

		checker, ok := s.(health.Checker)
		if !ok {
			return nil, fmt.Errorf("store %T cannot be health checked", s)
		}

		health.RegisterRoutes(api, health.NewHandler(checker, opts.Store, serviceInfo(), logger.Named("health")))

		return api, nil
	})
}

func newURLHandler(i *do.Injector, opts *Options, logger *zap.Logger) (*handlers.URLHandler, error) {
	shortenService, err := do.Invoke[*shortener.Shortener](i)
	if err != nil {
		return nil, err
	}

	redirectService, err := do.Invoke[*shortener.Resolver](i)
	if err != nil {
		return nil, err
	}

	publishCreated, err := do.Invoke[messaging.Publish[events.LinkCreated]](i)
	if err != nil {
		return nil, err
	}

	publishResolved, err := do.Invoke[messaging.Publish[events.LinkResolved]](i)
	if err != nil {
		return nil, err
	}

	return handlers.NewURLHandler(
		shortenService,
		redirectService,
		opts.ShortURLBase(),
		publishCreated,
		publishResolved,
		logger.Named("handlers"),
	), nil
}

func serviceInfo() health.Info {
	return health.Info{
		Service: serviceName,
		Version: serviceVersion,
		Endpoints: map[string]string{
			"shorten":  "POST /shorten",
			"redirect": "GET /{code}",
			"health":   "GET /health",
			"docs":     "GET /docs",
		},
	}
}
