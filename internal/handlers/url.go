package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/tinyurl/internal/events"
	"github.com/serroba/tinyurl/internal/messaging"
	"github.com/serroba/tinyurl/internal/shortener"
	"go.uber.org/zap"
)

// ShortenService creates short codes.
type ShortenService interface {
	Shorten(ctx context.Context, longURL, customCode string) (*shortener.Result, error)
}

// RedirectService resolves short codes.
type RedirectService interface {
	Resolve(ctx context.Context, code shortener.Code) (*shortener.Redirect, error)
}

// URLHandler handles URL shortening operations.
type URLHandler struct {
	shortener           ShortenService
	resolver            RedirectService
	baseURL             string
	publishLinkCreated  messaging.Publish[events.LinkCreated]
	publishLinkResolved messaging.Publish[events.LinkResolved]
	now                 func() time.Time
	logger              *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(
	shortenService ShortenService,
	redirectService RedirectService,
	baseURL string,
	publishLinkCreated messaging.Publish[events.LinkCreated],
	publishLinkResolved messaging.Publish[events.LinkResolved],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		shortener:           shortenService,
		resolver:            redirectService,
		baseURL:             baseURL,
		publishLinkCreated:  publishLinkCreated,
		publishLinkResolved: publishLinkResolved,
		now:                 time.Now,
		logger:              logger,
	}
}

func (h *URLHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	result, err := h.shortener.Shorten(ctx, req.Body.URL, req.Body.CustomCode)
	if err != nil {
		return nil, h.failure("shorten", req.Body.CustomCode, err)
	}

	meta := RequestMetaFromContext(ctx)
	event := &events.LinkCreated{
		Code:      string(result.Code),
		LongURL:   result.LongURL,
		Custom:    result.Custom,
		Attempts:  result.Attempts,
		CreatedAt: result.CreatedAt,
		ExpiresAt: result.ExpiresAt,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	}

	if err := h.publishLinkCreated(ctx, event); err != nil {
		h.logger.Error("failed to publish link event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &ShortenResponse{}
	resp.Body.ShortURL = fmt.Sprintf("%s/%s", h.baseURL, result.Code)
	resp.Body.ExpiresAt = result.ExpiresAt.UTC().Format(time.RFC3339)

	return resp, nil
}

func (h *URLHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	redirect, err := h.resolver.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		return nil, h.failure("resolve", req.Code, err)
	}

	meta := RequestMetaFromContext(ctx)
	event := &events.LinkResolved{
		Code:       req.Code,
		ResolvedAt: h.now(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}

	if err := h.publishLinkResolved(ctx, event); err != nil {
		h.logger.Error("failed to publish link event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	return &RedirectResponse{
		Status:       http.StatusFound,
		Location:     redirect.LongURL,
		CacheControl: fmt.Sprintf("public, max-age=%d", int(redirect.CacheHint.Seconds())),
	}, nil
}

// failure turns a service error into the response the caller sees. Store
// failures are logged here and never leak their detail.
func (h *URLHandler) failure(op, code string, err error) huma.StatusError {
	status := StatusFor(err)

	switch shortener.KindOf(err) {
	case shortener.KindValidation:
		return NewError(status, validationMessage(err))
	case shortener.KindCodeTaken:
		return NewError(status, fmt.Sprintf("Custom code '%s' is already taken", code))
	case shortener.KindGenerationExhausted:
		h.logger.Warn("short code generation exhausted", zap.Error(err))

		return NewError(status, "Failed to generate unique short code, please retry")
	case shortener.KindNotFound:
		return NewError(status, fmt.Sprintf("Short URL '%s' not found", code))
	case shortener.KindExpired:
		return NewError(status, fmt.Sprintf("Short URL '%s' has expired", code))
	default:
		h.logger.Error("store unavailable",
			zap.String("operation", op),
			zap.String("code", code),
			zap.Error(err),
		)

		return NewError(http.StatusInternalServerError, "Internal server error")
	}
}
