package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/wayline/wayline/pkg/tracing"
)

// Producer handles Kafka event emission
type Producer struct {
	writer *kafka.Writer
	logger ectologger.Logger
	topic  string
}

// ProducerConfig holds Kafka producer configuration
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
	RequiredAcks int
	Compression  string
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg ProducerConfig, logger ectologger.Logger) *Producer {
	compression := kafka.Snappy
	switch cfg.Compression {
	case "gzip":
		compression = kafka.Gzip
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	case "none":
		compression = 0
	}

	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:            compression,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		topic:  cfg.Topic,
	}
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// ItineraryEvent records a plan lifecycle change
type ItineraryEvent struct {
	EventType   string          `json:"event_type"` // built, degraded, unviable
	PlanID      string          `json:"plan_id"`
	RequestID   string          `json:"request_id"`
	Destination string          `json:"destination"`
	Viable      bool            `json:"viable"`
	Tiers       int             `json:"tiers"`
	Data        json.RawMessage `json:"data,omitempty"`
	TraceID     string          `json:"trace_id,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// PublishItineraryEvent publishes an itinerary event to Kafka
func (p *Producer) PublishItineraryEvent(ctx context.Context, event *ItineraryEvent) error {
	ctx, span := tracing.StartSpan(ctx, "kafka.Producer.PublishItineraryEvent")
	defer span.End()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.TraceID == "" {
		event.TraceID = tracing.GetTraceID(ctx)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.PlanID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "request_id", Value: []byte(event.RequestID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.WithContext(ctx).WithError(err).Errorf("Failed to publish %s event", event.EventType)
		return err
	}

	p.logger.WithContext(ctx).Debugf("Published %s event for plan %s", event.EventType, event.PlanID)
	return nil
}
