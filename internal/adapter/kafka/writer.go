// Package kafka publishes finished regional tables to a sink topic, one
// message per region, for downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/nightsat/nightlights-agg/internal/config"
	"github.com/nightsat/nightlights-agg/internal/domain"
)

// Writer produces region-series messages to a Kafka topic. It implements
// pipeline.TablePublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishTable serializes every column of the table and publishes the batch
// in a single WriteMessages call.
func (w *Writer) PublishTable(ctx context.Context, product string, table *domain.RegionalTable) error {
	msgs := make([]kafkago.Message, len(table.Labels))
	for i, label := range table.Labels {
		msg, err := serializeRegion(product, table, label)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// regionMessage is the wire form of one region's time series.
type regionMessage struct {
	Label      string      `json:"label"`
	Product    string      `json:"product"`
	Timestamps []time.Time `json:"timestamps"`
	Values     []float64   `json:"values"`
}

// serializeRegion marshals one table column into a Kafka message keyed by
// the region label, so a compacted topic keeps the newest series per region.
func serializeRegion(product string, table *domain.RegionalTable, label string) (kafkago.Message, error) {
	data, err := json.Marshal(regionMessage{
		Label:      label,
		Product:    product,
		Timestamps: table.Timestamps,
		Values:     table.Series[label],
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize region %q: %w", label, err)
	}
	return kafkago.Message{
		Key:   []byte(label),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "product", Value: []byte(product)},
			{Key: "generated_at", Value: []byte(table.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
