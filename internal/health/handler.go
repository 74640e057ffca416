package health

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler handles health check operations.
type Handler struct {
	store   Checker
	backend string
	info    Info
	logger  *zap.Logger
}

// Info describes the service at "/".
type Info struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// NewHandler creates a new health handler for the mapping store named backend.
func NewHandler(store Checker, backend string, info Info, logger *zap.Logger) *Handler {
	return &Handler{store: store, backend: backend, info: info, logger: logger}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status  string `doc:"ok or degraded"          json:"status"`
		Store   string `doc:"healthy or unhealthy"    json:"store"`
		Backend string `doc:"Configured store backend" json:"backend"`
	}
}

// InfoResponse is the response for the service information endpoint.
type InfoResponse struct {
	Body Info
}

// Check pings the mapping store.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	resp := &Response{}
	resp.Body.Status = "ok"
	resp.Body.Store = "healthy"
	resp.Body.Backend = h.backend

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("store health check failed", zap.String("backend", h.backend), zap.Error(err))

		resp.Body.Status = "degraded"
		resp.Body.Store = "unhealthy"
	}

	return resp, nil
}

// Describe returns static service information.
func (h *Handler) Describe(_ context.Context, _ *struct{}) (*InfoResponse, error) {
	return &InfoResponse{Body: h.info}, nil
}

// RegisterRoutes registers health check and service information routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
		Metadata:    disabledRateLimit(),
	}, h.Check)

	huma.Register(api, huma.Operation{
		OperationID: "service-info",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Service information",
		Tags:        []string{"Health"},
		Metadata:    disabledRateLimit(),
	}, h.Describe)
}
