package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"insightseo/application/queries"
	"insightseo/infrastructure/config"
	"insightseo/infrastructure/di"
	"insightseo/infrastructure/extract"
	"insightseo/infrastructure/observability"
	"insightseo/interfaces/http/rest"
	pkgerrors "insightseo/pkg/errors"
	"insightseo/pkg/ratelimit"
)

type stubGrammar struct {
	matches []json.RawMessage
	err     error
}

func (s *stubGrammar) Check(_ context.Context, _, _ string) ([]json.RawMessage, error) {
	if s.err != nil {
		return nil, pkgerrors.NewGrammarServiceUnavailableError(s.err)
	}
	return s.matches, nil
}

func (s *stubGrammar) Healthy() bool { return s.err == nil }

func (s *stubGrammar) State() string {
	if s.err != nil {
		return "open"
	}
	return "closed"
}

type testServer struct {
	handler http.Handler
	grammar *stubGrammar
}

func newTestServer(t *testing.T, mutate func(*rest.Options)) *testServer {
	t.Helper()

	cfg := config.Default()
	cfg.MaxBodyBytes = 4096
	analysisConfig, err := cfg.AnalysisConfig()
	require.NoError(t, err)

	collector := observability.NewCollector("insightseo")
	telemetry := &di.Telemetry{Recorder: collector, Handler: collector.Handler()}
	tracing, err := observability.InitTracing(context.Background(), observability.TracingConfig{})
	require.NoError(t, err)

	grammar := &stubGrammar{}
	queryBus, err := di.ProvideQueryBus(
		di.ProvideEngine(analysisConfig),
		extract.NewExtractor(),
		grammar,
		nil,
		telemetry,
		tracing,
		cfg,
		zap.NewNop(),
	)
	require.NoError(t, err)

	options := rest.Options{
		Environment:    "test",
		MaxBodyBytes:   cfg.MaxBodyBytes,
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		Metrics:        collector,
		MetricsHandler: collector.Handler(),
		Grammar:        grammar,
	}
	if mutate != nil {
		mutate(&options)
	}

	router := rest.NewRouter(queryBus, pkgerrors.NewErrorHandler(zap.NewNop(), false), options, zap.NewNop())
	return &testServer{handler: router.Setup(), grammar: grammar}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) pkgerrors.ErrorResponse {
	t.Helper()
	var resp pkgerrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestRouter_Analyze(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodPost, "/analyze", `{"text":"SEO is great. SEO helps websites rank."}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result queries.AnalyzeTextResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Easy", result.Readability)
	assert.Equal(t, queries.Stats{WordCount: 7, SentenceCount: 2, CharacterCount: 38}, result.Stats)
	require.NotEmpty(t, result.KeywordAnalysis)
	assert.Equal(t, "seo", result.KeywordAnalysis[0].Keyword)
	assert.Equal(t, 2, result.KeywordAnalysis[0].Count)
	assert.NotEmpty(t, result.Suggestions)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	for _, field := range []string{"readability", "readabilityScore", "stats", "keywordAnalysis", "suggestions"} {
		assert.Contains(t, raw, field)
	}
}

func TestRouter_AnalyzeMarkdown(t *testing.T) {
	s := newTestServer(t, nil)

	body, err := json.Marshal(map[string]string{
		"text":   "# SEO basics\n\nSEO helps *websites* rank.\n\n```\ncode is ignored\n```\n",
		"format": "markdown",
	})
	require.NoError(t, err)

	rec := s.do(http.MethodPost, "/analyze", string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result queries.AnalyzeTextResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 6, result.Stats.WordCount)
	assert.Equal(t, 2, result.Stats.SentenceCount)
}

func TestRouter_Errors(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{name: "empty text", method: http.MethodPost, path: "/analyze", body: `{"text":""}`, status: http.StatusBadRequest, code: pkgerrors.CodeEmptyInput},
		{name: "whitespace text", method: http.MethodPost, path: "/analyze", body: `{"text":" \n\t "}`, status: http.StatusBadRequest, code: pkgerrors.CodeEmptyInput},
		{name: "missing body", method: http.MethodPost, path: "/analyze", body: "", status: http.StatusBadRequest, code: pkgerrors.CodeInvalidRequest},
		{name: "malformed json", method: http.MethodPost, path: "/analyze", body: `{"text":`, status: http.StatusBadRequest, code: pkgerrors.CodeInvalidRequest},
		{name: "unknown field", method: http.MethodPost, path: "/analyze", body: `{"text":"Hi.","extra":1}`, status: http.StatusBadRequest, code: pkgerrors.CodeInvalidRequest},
		{name: "wrong type", method: http.MethodPost, path: "/analyze", body: `{"text":42}`, status: http.StatusBadRequest, code: pkgerrors.CodeInvalidRequest},
		{name: "trailing data", method: http.MethodPost, path: "/analyze", body: `{"text":"Hi."}{}`, status: http.StatusBadRequest, code: pkgerrors.CodeInvalidRequest},
		{name: "unsupported format", method: http.MethodPost, path: "/analyze", body: `{"text":"Hi.","format":"pdf"}`, status: http.StatusBadRequest, code: pkgerrors.CodeUnsupportedFormat},
		{name: "body too large", method: http.MethodPost, path: "/analyze", body: `{"text":"` + strings.Repeat("a", 5000) + `"}`, status: http.StatusRequestEntityTooLarge, code: pkgerrors.CodeTextTooLong},
		{name: "blank keyword", method: http.MethodPost, path: "/insert-keyword", body: `{"text":"Write better content.","keyword":"  "}`, status: http.StatusBadRequest, code: pkgerrors.CodeInvalidKeyword},
		{name: "keyword before text", method: http.MethodPost, path: "/insert-keyword", body: `{"text":"","keyword":""}`, status: http.StatusBadRequest, code: pkgerrors.CodeEmptyInput},
		{name: "blank grammar text", method: http.MethodPost, path: "/api/nlp/check-grammar", body: `{"text":""}`, status: http.StatusBadRequest, code: pkgerrors.CodeEmptyInput},
		{name: "unknown route", method: http.MethodGet, path: "/nope", status: http.StatusNotFound, code: pkgerrors.CodeNotFound},
		{name: "wrong method", method: http.MethodGet, path: "/analyze", status: http.StatusMethodNotAllowed, code: pkgerrors.CodeMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			resp := decodeError(t, rec)
			assert.True(t, resp.Error)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestRouter_InsertKeyword(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodPost, "/insert-keyword", `{"text":"Write better content.","keyword":"SEO"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"updatedText":"Write better content, focusing on SEO."}`, rec.Body.String())
}

func TestRouter_CheckGrammar(t *testing.T) {
	s := newTestServer(t, nil)
	s.grammar.matches = []json.RawMessage{json.RawMessage(`{"message":"Possible typo","offset":0,"length":3}`)}

	rec := s.do(http.MethodPost, "/api/nlp/check-grammar", `{"text":"teh cat"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"matches":[{"message":"Possible typo","offset":0,"length":3}]}`, rec.Body.String())

	s.grammar.err = errors.New("connection refused")
	rec = s.do(http.MethodPost, "/api/nlp/check-grammar", `{"text":"teh dog"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, pkgerrors.CodeGrammarServiceUnavailable, decodeError(t, rec).Code)
}

func TestRouter_HealthAndReadiness(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","environment":"test"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"grammar":"closed"}}`, rec.Body.String())

	s.grammar.err = errors.New("down")
	rec = s.do(http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"grammar":"open"}}`, rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t, nil)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/analyze", `{"text":"Short text."}`).Code)

	rec := s.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `insightseo_http_requests_total{method="POST",route="/analyze",status="200"} 1`)
	assert.Contains(t, body, `insightseo_queries_total{outcome="success",query="AnalyzeTextQuery"} 1`)
}

func TestRouter_RateLimit(t *testing.T) {
	s := newTestServer(t, func(o *rest.Options) {
		o.RateLimit = rest.RateLimitSettings{
			Limiter:           ratelimit.NewTokenBucketLimiter(2, time.Hour),
			RequestsPerMinute: 1,
			RetryAfter:        90 * time.Second,
		}
	})

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/analyze", `{"text":"Short text."}`).Code)
	}

	rec := s.do(http.MethodPost, "/analyze", `{"text":"Short text."}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "90", rec.Header().Get("Retry-After"))
	assert.Equal(t, pkgerrors.CodeRateLimited, decodeError(t, rec).Code)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "").Code, "health is not rate limited")
}

func TestRouter_CORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/analyze", bytes.NewReader(nil))
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
