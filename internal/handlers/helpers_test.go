package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/tinyurl/internal/events"
	"github.com/serroba/tinyurl/internal/handlers"
	"github.com/serroba/tinyurl/internal/middleware"
	"github.com/serroba/tinyurl/internal/shortener"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testBaseURL = "http://sho.rt"

var (
	testNow        = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	errBackendDown = errors.New("dial tcp 10.0.0.5:6379: connection refused")
	errPublish     = errors.New("publish error")
)

func testClock() time.Time { return testNow }

// recorder captures published events.
type recorder[T any] struct {
	mu     sync.Mutex
	events []*T
	err    error
}

func (r *recorder[T]) publish(_ context.Context, event *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)

	return r.err
}

func (r *recorder[T]) all() []*T {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*T(nil), r.events...)
}

// conflictStore reports every code as taken.
type conflictStore struct{}

func (conflictStore) TryCreate(context.Context, *shortener.Mapping) (bool, error) { return false, nil }

func (conflictStore) Get(context.Context, shortener.Code) (*shortener.Mapping, error) {
	return nil, shortener.ErrNotFound
}

// brokenStore fails every call.
type brokenStore struct{}

func (brokenStore) TryCreate(context.Context, *shortener.Mapping) (bool, error) {
	return false, errBackendDown
}

func (brokenStore) Get(context.Context, shortener.Code) (*shortener.Mapping, error) {
	return nil, errBackendDown
}

type testEnv struct {
	router   *chi.Mux
	created  *recorder[events.LinkCreated]
	resolved *recorder[events.LinkResolved]
}

func newTestEnv(t *testing.T, s shortener.Store) *testEnv {
	t.Helper()

	generate, err := shortener.NewCodeGenerator()
	require.NoError(t, err)

	opts := []shortener.Option{shortener.WithClock(testClock), shortener.WithLogger(zap.NewNop())}
	env := &testEnv{
		router:   chi.NewMux(),
		created:  &recorder[events.LinkCreated]{},
		resolved: &recorder[events.LinkResolved]{},
	}

	handlers.UseErrorBody()

	api := humachi.New(env.router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.RequestMeta(api))

	handlers.RegisterRoutes(api, handlers.NewURLHandler(
		shortener.NewShortener(s, generate, opts...),
		shortener.NewResolver(s, opts...),
		testBaseURL,
		env.created.publish,
		env.resolved.publish,
		zap.NewNop(),
	))

	return env
}

func (e *testEnv) shorten(t *testing.T, body string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/shorten", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return e.serve(t, req)
}

func (e *testEnv) get(t *testing.T, path string, headers map[string]string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return e.serve(t, req)
}

func (e *testEnv) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	body := map[string]string{}
	if w.Body.Len() > 0 && strings.Contains(w.Header().Get("Content-Type"), "json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	}

	return w, body
}
