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

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/nightsat/nightlights-agg/internal/adapter/kafka"
	"github.com/nightsat/nightlights-agg/internal/config"
	"github.com/nightsat/nightlights-agg/internal/domain"
)

const testSinkTopic = "test-region-series"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node Kafka container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("nightlights-test"))
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

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestPublishTableRoundTrip verifies the sink adapter end to end: a regional
// table published through kafka.Writer comes back off the topic with one
// message per region, keyed by label.
func TestPublishTableRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testSinkTopic,
	}

	table := &domain.RegionalTable{
		Labels: []string{"Thane", "Pune"},
		Timestamps: []time.Time{
			time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		Series: map[string][]float64{
			"Thane": {12.5, 14},
			"Pune":  {7, 8.25},
		},
		GeneratedAt: time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC),
	}

	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.PublishTable(ctx, "avg_rad", table))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  []string{broker},
		Topic:    testSinkTopic,
		GroupID:  "test-consumer",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	got := map[string][]float64{}
	for i := 0; i < len(table.Labels); i++ {
		msg, err := consumer.ReadMessage(ctx)
		require.NoError(t, err, "read from sink topic")

		var body struct {
			Label   string    `json:"label"`
			Product string    `json:"product"`
			Values  []float64 `json:"values"`
		}
		require.NoError(t, json.Unmarshal(msg.Value, &body))
		assert.Equal(t, body.Label, string(msg.Key))
		assert.Equal(t, "avg_rad", body.Product)
		got[body.Label] = body.Values
	}

	assert.Equal(t, table.Series, got)
}
