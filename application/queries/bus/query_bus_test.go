package bus

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type echoQuery struct {
	Text string
}

func (q echoQuery) Validate() error {
	if q.Text == "" {
		return errors.New("text is required")
	}
	return nil
}

type echoHandler struct {
	calls int
	err   error
}

func (h *echoHandler) Handle(_ context.Context, q echoQuery) (string, error) {
	h.calls++
	if h.err != nil {
		return "", h.err
	}
	return "echo: " + q.Text, nil
}

type mapCache struct {
	mu    sync.Mutex
	items map[string]interface{}
}

func (c *mapCache) Get(_ context.Context, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

type countingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
	timers int
}

func (m *countingMetrics) StartTimer(_, _ string) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timers++
	return noopTimer{}
}

func (m *countingMetrics) Increment(metric, label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[metric+":"+label]++
}

type noopTimer struct{}

func (noopTimer) Stop() {}

func TestQueryBus_Ask(t *testing.T) {
	handler := &echoHandler{}
	b := NewQueryBus()
	require.NoError(t, b.Register(echoQuery{}, Adapt[echoQuery, string](handler)))

	got, err := AskAs[string](context.Background(), b, echoQuery{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", got)

	_, err = b.Ask(context.Background(), echoQuery{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query validation failed")
	assert.Equal(t, 1, handler.calls)

	err = b.Register(echoQuery{}, Adapt[echoQuery, string](handler))
	assert.Error(t, err, "duplicate registration must fail")
}

func TestQueryBus_UnknownQuery(t *testing.T) {
	b := NewQueryBus()

	_, err := b.Ask(context.Background(), echoQuery{Text: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler registered")
}

func TestQueryBus_AskAsWrongType(t *testing.T) {
	b := NewQueryBus()
	require.NoError(t, b.Register(echoQuery{}, Adapt[echoQuery, string](&echoHandler{})))

	_, err := AskAs[int](context.Background(), b, echoQuery{Text: "hi"})
	assert.Error(t, err)
}

func TestCachingMiddleware(t *testing.T) {
	handler := &echoHandler{}
	cache := &mapCache{items: make(map[string]interface{})}
	b := NewQueryBus(NewCachingMiddleware(cache, 60))
	require.NoError(t, b.Register(echoQuery{}, Adapt[echoQuery, string](handler)))

	for i := 0; i < 3; i++ {
		got, err := AskAs[string](context.Background(), b, echoQuery{Text: "same"})
		require.NoError(t, err)
		assert.Equal(t, "echo: same", got)
	}
	assert.Equal(t, 1, handler.calls)

	_, err := b.Ask(context.Background(), echoQuery{Text: "other"})
	require.NoError(t, err)
	assert.Equal(t, 2, handler.calls)
	assert.Len(t, cache.items, 2)
	for key := range cache.items {
		assert.Len(t, key, 64, "keys are hex sha256 digests")
	}
}

type pairQuery struct {
	Text    string
	Keyword string
}

func (q pairQuery) Validate() error { return nil }

type pairHandler struct {
	calls int
}

func (h *pairHandler) Handle(_ context.Context, q pairQuery) (string, error) {
	h.calls++
	return q.Text + "|" + q.Keyword, nil
}

type streamQuery struct {
	Updates chan string
}

func (q streamQuery) Validate() error { return nil }

type streamHandler struct {
	calls int
}

func (h *streamHandler) Handle(_ context.Context, _ streamQuery) (string, error) {
	h.calls++
	return "streamed", nil
}

func TestCachingMiddleware_FieldBoundaries(t *testing.T) {
	handler := &pairHandler{}
	cache := &mapCache{items: make(map[string]interface{})}
	b := NewQueryBus(NewCachingMiddleware(cache, 60))
	require.NoError(t, b.Register(pairQuery{}, Adapt[pairQuery, string](handler)))

	tests := []struct {
		query pairQuery
		want  string
	}{
		{
			query: pairQuery{Text: "Great tips Keyword:seo", Keyword: "marketing"},
			want:  "Great tips Keyword:seo|marketing",
		},
		{
			query: pairQuery{Text: "Great tips", Keyword: "seo Keyword:marketing"},
			want:  "Great tips|seo Keyword:marketing",
		},
	}

	for _, tt := range tests {
		got, err := AskAs[string](context.Background(), b, tt.query)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, 2, handler.calls)
	assert.Len(t, cache.items, 2)
}

func TestCachingMiddleware_UnencodableQueryBypassesCache(t *testing.T) {
	handler := &streamHandler{}
	cache := &mapCache{items: make(map[string]interface{})}
	b := NewQueryBus(NewCachingMiddleware(cache, 60))
	require.NoError(t, b.Register(streamQuery{}, Adapt[streamQuery, string](handler)))

	for i := 0; i < 2; i++ {
		got, err := AskAs[string](context.Background(), b, streamQuery{Updates: make(chan string)})
		require.NoError(t, err)
		assert.Equal(t, "streamed", got)
	}
	assert.Equal(t, 2, handler.calls)
	assert.Empty(t, cache.items)
}

func TestCachingMiddleware_ErrorsAreNotCached(t *testing.T) {
	handler := &echoHandler{err: errors.New("boom")}
	cache := &mapCache{items: make(map[string]interface{})}
	b := NewQueryBus(NewCachingMiddleware(cache, 60))
	require.NoError(t, b.Register(echoQuery{}, Adapt[echoQuery, string](handler)))

	_, err := b.Ask(context.Background(), echoQuery{Text: "x"})
	require.Error(t, err)
	_, err = b.Ask(context.Background(), echoQuery{Text: "x"})
	require.Error(t, err)

	assert.Equal(t, 2, handler.calls)
	assert.Empty(t, cache.items)
}

func TestMetricsMiddleware(t *testing.T) {
	metrics := &countingMetrics{counts: make(map[string]int)}
	handler := &echoHandler{}
	b := NewQueryBus(NewMetricsMiddleware(metrics))
	require.NoError(t, b.Register(echoQuery{}, Adapt[echoQuery, string](handler)))

	_, err := b.Ask(context.Background(), echoQuery{Text: "ok"})
	require.NoError(t, err)

	handler.err = errors.New("boom")
	_, err = b.Ask(context.Background(), echoQuery{Text: "fail"})
	require.Error(t, err)

	assert.Equal(t, 2, metrics.counts["query_count:echoQuery"])
	assert.Equal(t, 1, metrics.counts["query_success:echoQuery"])
	assert.Equal(t, 1, metrics.counts["query_errors:echoQuery"])
	assert.Equal(t, 2, metrics.timers)
}

func TestTracingMiddleware(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	handler := &echoHandler{}
	b := NewQueryBus(NewTracingMiddleware(provider.Tracer("test")))
	require.NoError(t, b.Register(echoQuery{}, Adapt[echoQuery, string](handler)))

	_, err := b.Ask(context.Background(), echoQuery{Text: "traced"})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "query.echoQuery", spans[0].Name())
}
