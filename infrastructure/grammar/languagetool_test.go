package grammar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pkgerrors "insightseo/pkg/errors"
)

func newTestClient(t *testing.T, url string, minRequests uint32) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BaseURL = url
	cfg.Timeout = 2 * time.Second
	cfg.MinRequests = minRequests
	cfg.FailureThreshold = 0.5
	cfg.OpenTimeout = time.Minute

	client, err := NewClient(cfg, nil, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestClient_Check(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/check", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "teh cat", r.PostForm.Get("text"))
		assert.Equal(t, "en-US", r.PostForm.Get("language"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"software":{"name":"LanguageTool"},"matches":[{"message":"Possible spelling mistake found.","offset":0,"length":3}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/", 5)

	matches, err := client.Check(context.Background(), "teh cat", "en-US")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.JSONEq(t, `{"message":"Possible spelling mistake found.","offset":0,"length":3}`, string(matches[0]))
	assert.True(t, client.Healthy())
}

func TestClient_CheckNoMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"matches":[]}`))
	}))
	defer server.Close()

	matches, err := newTestClient(t, server.URL, 5).Check(context.Background(), "Fine.", "en-US")
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestClient_CheckFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		healthy bool
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom"},
		{name: "throttled", status: http.StatusTooManyRequests, body: "slow down"},
		{name: "malformed body", status: http.StatusOK, body: "<html>"},
		{name: "rejected request", status: http.StatusBadRequest, body: "unknown language", healthy: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL, 1)

			_, err := client.Check(context.Background(), "text", "xx")
			require.Error(t, err)
			assert.True(t, pkgerrors.IsGrammarServiceUnavailable(err))
			assert.Equal(t, tt.healthy, client.Healthy())
		})
	}
}

func TestClient_BreakerOpens(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.Check(ctx, "text", "en-US")
		require.Error(t, err)
	}
	assert.False(t, client.Healthy())
	assert.Equal(t, "open", client.State())

	_, err := client.Check(ctx, "text", "en-US")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsGrammarServiceUnavailable(err))
	assert.Equal(t, int32(2), hits.Load(), "open breaker does not call the service")
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newTestClient(t, url, 5).Check(context.Background(), "text", "en-US")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsGrammarServiceUnavailable(err))
}

func TestNewClient_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8081", "://bad"} {
		cfg := DefaultConfig()
		cfg.BaseURL = raw
		_, err := NewClient(cfg, nil, nil)
		assert.Error(t, err, raw)
	}
}
