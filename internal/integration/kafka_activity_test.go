//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/weather-to-wear/internal/activity"
	"github.com/couchcryptid/weather-to-wear/internal/adapter/kafka"
	"github.com/couchcryptid/weather-to-wear/internal/config"
	"github.com/couchcryptid/weather-to-wear/internal/domain"
	"github.com/couchcryptid/weather-to-wear/internal/observability"
)

const testActivityTopic = "test-activity"

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("weather-to-wear-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	cconn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cconn.Close()

	require.NoError(t, cconn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestActivityRecorderToKafka records events through the recorder and reads
// them back from the topic.
func TestActivityRecorderToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testActivityTopic)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaActivityTopic: testActivityTopic,
	}
	writer := kafka.NewWriter(cfg, logger)
	defer writer.Close()

	metrics := observability.NewMetricsForTesting()
	rec := activity.NewRecorder(writer, logger, metrics, 2, 100*time.Millisecond)
	runCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = rec.Run(runCtx)
	}()

	sent := []domain.ActivityEvent{
		domain.NewActivityEvent(domain.ActivitySearch, "chart", "49503", domain.OutcomeSuccess),
		domain.NewActivityEvent(domain.ActivityChartRender, "chart", "49503", domain.OutcomeSuccess),
		domain.NewActivityEvent(domain.ActivitySuggestions, "wear", "", domain.OutcomeError),
	}
	for _, e := range sent {
		rec.Record(ctx, e)
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testActivityTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	defer reader.Close()
	require.NoError(t, reader.SetOffset(kafkago.FirstOffset))

	for i, want := range sent {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := reader.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read message %d", i)

		var got domain.ActivityEvent
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Kind, got.Kind)
		assert.True(t, want.OccurredAt.Equal(got.OccurredAt))

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, want.Kind, headers["kind"])
	}

	stop()
	<-done
	assert.InDelta(t, 3.0, testutil.ToFloat64(metrics.ActivityProduced), 0)
}
