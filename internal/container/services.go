package container

import (
	"github.com/samber/do"
	"github.com/serroba/tinyurl/internal/shortener"
	"go.uber.org/zap"
)

// ServicePackage provides the shorten and redirect services.
func ServicePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*shortener.Shortener, error) {
		s, err := do.Invoke[shortener.Store](i)
		if err != nil {
			return nil, err
		}

		generate, err := shortener.NewCodeGenerator()
		if err != nil {
			return nil, err
		}

		logger := do.MustInvoke[*zap.Logger](i).Named("shortener")

		return shortener.NewShortener(s, generate,
			shortener.WithLogger(logger),
			shortener.WithReservedCodes(reservedCodes...),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Resolver, error) {
		s, err := do.Invoke[shortener.Store](i)
		if err != nil {
			return nil, err
		}

		logger := do.MustInvoke[*zap.Logger](i).Named("resolver")

		return shortener.NewResolver(s, shortener.WithLogger(logger)), nil
	})
}
