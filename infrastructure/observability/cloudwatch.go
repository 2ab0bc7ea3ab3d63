package observability

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"insightseo/application/queries/bus"
)

// PutMetricData accepts at most 1000 datums per call
const maxDatumsPerRequest = 1000

// PutMetricDataAPI is the slice of the CloudWatch client used here
type PutMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchMetrics buffers datums in memory and ships them on Flush. Under
// Lambda, Flush runs at the end of each invocation; servers call Run.
type CloudWatchMetrics struct {
	namespace string
	client    PutMetricDataAPI
	logger    *zap.Logger

	mu      sync.Mutex
	pending []types.MetricDatum
}

// NewCloudWatchMetrics creates a new CloudWatch metrics recorder
func NewCloudWatchMetrics(namespace string, client PutMetricDataAPI, logger *zap.Logger) *CloudWatchMetrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CloudWatchMetrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

// StartTimer implements bus.Metrics
func (m *CloudWatchMetrics) StartTimer(metric, label string) bus.Timer {
	return &cloudWatchTimer{metrics: m, metric: metric, label: label, start: time.Now()}
}

// Increment implements bus.Metrics
func (m *CloudWatchMetrics) Increment(metric, label string) {
	m.add(types.MetricDatum{
		MetricName: aws.String(metric),
		Dimensions: []types.Dimension{
			{Name: aws.String("Query"), Value: aws.String(label)},
		},
		Value: aws.Float64(1),
		Unit:  types.StandardUnitCount,
	})
}

// ObserveHTTP records one served request
func (m *CloudWatchMetrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	dimensions := []types.Dimension{
		{Name: aws.String("Method"), Value: aws.String(method)},
		{Name: aws.String("Route"), Value: aws.String(route)},
	}
	m.add(types.MetricDatum{
		MetricName: aws.String("RequestLatency"),
		Dimensions: dimensions,
		Value:      aws.Float64(float64(duration.Milliseconds())),
		Unit:       types.StandardUnitMilliseconds,
	})
	m.add(types.MetricDatum{
		MetricName: aws.String("RequestCount"),
		Dimensions: append(dimensions, types.Dimension{Name: aws.String("Status"), Value: aws.String(strconv.Itoa(status))}),
		Value:      aws.Float64(1),
		Unit:       types.StandardUnitCount,
	})
}

func (m *CloudWatchMetrics) add(datum types.MetricDatum) {
	datum.Timestamp = aws.Time(time.Now())

	m.mu.Lock()
	m.pending = append(m.pending, datum)
	m.mu.Unlock()
}

// Pending reports the number of buffered datums
func (m *CloudWatchMetrics) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Flush sends all buffered datums. Batches that fail are dropped.
func (m *CloudWatchMetrics) Flush(ctx context.Context) error {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	var firstErr error
	for start := 0; start < len(pending); start += maxDatumsPerRequest {
		end := start + maxDatumsPerRequest
		if end > len(pending) {
			end = len(pending)
		}

		_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(m.namespace),
			MetricData: pending[start:end],
		})
		if err != nil {
			m.logger.Warn("Failed to send metrics",
				zap.String("namespace", m.namespace),
				zap.Int("datums", end-start),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to put metric data: %w", err)
			}
		}
	}
	return firstErr
}

// Run flushes on every tick until ctx is done, then flushes once more.
func (m *CloudWatchMetrics) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = m.Flush(ctx)
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = m.Flush(flushCtx)
			cancel()
			return
		}
	}
}

type cloudWatchTimer struct {
	metrics *CloudWatchMetrics
	metric  string
	label   string
	start   time.Time
}

func (t *cloudWatchTimer) Stop() {
	t.metrics.add(types.MetricDatum{
		MetricName: aws.String(t.metric),
		Dimensions: []types.Dimension{
			{Name: aws.String("Query"), Value: aws.String(t.label)},
		},
		Value: aws.Float64(float64(time.Since(t.start).Microseconds()) / 1000),
		Unit:  types.StandardUnitMilliseconds,
	})
}

var _ Recorder = (*CloudWatchMetrics)(nil)
