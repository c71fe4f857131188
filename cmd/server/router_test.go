package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/meme-api/internal/config"
	"github.com/phrazzld/meme-api/internal/generation"
	"github.com/phrazzld/meme-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	result *generation.Result
	calls  int
}

func (s *stubGenerator) Generate(ctx context.Context, topic string) (*generation.Result, error) {
	s.calls++
	return s.result, nil
}

func newTestRouter(t *testing.T, cfg *config.Config, gen *stubGenerator) http.Handler {
	t.Helper()
	log, _ := logger.GetTestLogger(t)
	app, err := newApplication(cfg, log)
	require.NoError(t, err)
	app.newGenerator = func(ctx context.Context, secrets config.Secrets) (generation.Generator, error) {
		return gen, nil
	}
	return app.setupRouter()
}

func TestRouter_Generate(t *testing.T) {
	for _, path := range []string{"/generate", "/api/generate"} {
		t.Run(path, func(t *testing.T) {
			gen := &stubGenerator{result: &generation.Result{ImageData: []byte{0xFF, 0xD8}, Caption: "hi"}}
			router := newTestRouter(t, testConfig(), gen)

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"topic":"cats"}`))
			router.ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, "/9g=", body["imageData"])
			assert.Equal(t, "hi", body["caption"])
			assert.Equal(t, 1, gen.calls)
		})
	}
}

func TestRouter_MethodNotAllowedHandledByHandler(t *testing.T) {
	gen := &stubGenerator{}
	router := newTestRouter(t, testConfig(), gen)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/generate", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, http.MethodPost, rr.Header().Get("Allow"))
	assert.JSONEq(t, `{"error":"Method GET Not Allowed"}`, stripTraceID(t, rr.Body.Bytes()))
	assert.Zero(t, gen.calls)
}

func TestRouter_MissingSecret(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.ImageProvider = config.ProviderReplicate
	gen := &stubGenerator{}
	router := newTestRouter(t, cfg, gen)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"topic":"cats"}`)))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), config.EnvReplicateAPIToken)
	assert.Zero(t, gen.calls)
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, testConfig(), &stubGenerator{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

// stripTraceID removes the per-request trace_id so bodies can be compared.
func stripTraceID(t *testing.T, body []byte) string {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &m))
	assert.NotEmpty(t, m["trace_id"])
	delete(m, "trace_id")
	out, err := json.Marshal(m)
	require.NoError(t, err)
	return string(out)
}

func TestRouter_Metrics(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.Server.MetricsEnabled = true
		router := newTestRouter(t, cfg, &stubGenerator{})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `meme_http_requests_total{method="GET",route="/health",status="200"} 1`)
	})

	t.Run("disabled", func(t *testing.T) {
		router := newTestRouter(t, testConfig(), &stubGenerator{})

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
