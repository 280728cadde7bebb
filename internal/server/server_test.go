package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/lebenslauf/internal/app"
	"github.com/jonathan/lebenslauf/internal/export"
	"github.com/jonathan/lebenslauf/internal/i18n"
	"github.com/jonathan/lebenslauf/internal/logging"
	"github.com/jonathan/lebenslauf/internal/persistence"
	"github.com/jonathan/lebenslauf/internal/server/ratelimit"
	"github.com/jonathan/lebenslauf/internal/storage"
	"github.com/jonathan/lebenslauf/internal/types"
)

// fakeExporter replays a fixed progress sequence and result.
type fakeExporter struct {
	result   *export.Result
	err      error
	progress []export.Progress
	calls    int
	lastOpts app.PDFOptions
}

func (f *fakeExporter) Export(_ context.Context, opts app.PDFOptions, progress export.ProgressFunc) (*export.Result, error) {
	f.calls++
	f.lastOpts = opts
	if progress != nil {
		for _, p := range f.progress {
			progress(p)
		}
	}
	return f.result, f.err
}

type testEnv struct {
	srv      *Server
	ws       *app.Workspace
	exporter *fakeExporter
	comments *fakeComments
}

type envOption func(*Config, *Deps, *testEnv)

func withQuota(quota int64) envOption {
	return func(_ *Config, d *Deps, _ *testEnv) {
		store := persistence.NewAdapter(storage.NewMemoryStore(quota), storage.NewMemoryStore(0), logging.Discard())
		ws, err := app.Open(context.Background(), store, logging.Discard())
		if err != nil {
			panic(err)
		}
		d.Workspace = ws
	}
}

func withComments() envOption {
	return func(_ *Config, d *Deps, e *testEnv) {
		e.comments = newFakeComments()
		d.Comments = e.comments
	}
}

func withRateLimit(cfg *ratelimit.Config) envOption {
	return func(c *Config, _ *Deps, _ *testEnv) {
		c.RateLimit = cfg
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	store := persistence.NewAdapter(storage.NewMemoryStore(0), storage.NewMemoryStore(0), logging.Discard())
	ws, err := app.Open(context.Background(), store, logging.Discard())
	require.NoError(t, err)

	env := &testEnv{exporter: &fakeExporter{}}
	cfg := Config{DefaultLang: i18n.German, RateLimit: &ratelimit.Config{Enabled: false}}
	deps := Deps{Workspace: ws, Exporter: env.exporter, Log: logging.Discard()}
	for _, o := range opts {
		o(&cfg, &deps, env)
	}

	env.ws = deps.Workspace
	env.srv = New(cfg, deps)
	t.Cleanup(env.srv.rateLimiter.Stop)
	return env
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		r = bytes.NewReader(b)
	case string:
		r = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody[map[string]string](t, w)["status"])
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodOptions, "/api/cv", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
}

func TestRootRedirectsToNegotiatedLanguage(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9,en;q=0.5")
	w := httptest.NewRecorder()
	env.srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/ru/lebenslauf", w.Header().Get("Location"))
}

func TestPreviewPage(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.ws.Edit(context.Background(), func(d types.CVData) types.CVData {
		d.PersonalInfo.FirstName = "Aziz"
		d.PersonalInfo.LastName = "Karimov"
		return d
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, "/de/lebenslauf", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "de", w.Header().Get("Content-Language"))
	assert.Contains(t, w.Body.String(), `id="cv-preview"`)
	assert.Contains(t, w.Body.String(), "Aziz")
}

func TestPreviewPage_UnknownLanguage(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/xx/lebenslauf", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, withRateLimit(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
	}))

	first := env.do(t, http.MethodGet, "/api/cv", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := env.do(t, http.MethodGet, "/api/cv", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decodeBody[map[string]any](t, second)["error"])

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health", nil).Code)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	env := newTestEnv(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
