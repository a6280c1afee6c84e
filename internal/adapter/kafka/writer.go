package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/voyagelog/weather-ingest/internal/config"
	"github.com/voyagelog/weather-ingest/internal/domain"
)

// Writer publishes stored weather samples to a Kafka topic for downstream
// consumers. It implements ingest.SampleSink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSamples serializes and publishes one flush group in a single
// WriteMessages call for efficiency.
func (w *Writer) PublishSamples(ctx context.Context, samples []domain.WeatherSample) error {
	if len(samples) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(samples))
	for i := range samples {
		msg, err := serializeToMessage(samples[i])
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

// serializeToMessage marshals a WeatherSample into a Kafka message keyed by
// location id, so one location's samples land on one partition in order.
func serializeToMessage(sample domain.WeatherSample) (kafkago.Message, error) {
	data, err := json.Marshal(sample)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize weather sample: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.FormatInt(sample.LocationID, 10)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "location_id", Value: []byte(strconv.FormatInt(sample.LocationID, 10))},
			{Key: "recorded_at", Value: []byte(sample.RecordedAt.Format(time.RFC3339))},
		},
	}, nil
}
