package data

import (
	"time"

	"github.com/segmentio/kafka-go"

	"plume-backend/internal/config"
)

// NewKafkaWriter builds a producer with acks=all so that a feed event is never
// acknowledged before every ISR replica has it.
func NewKafkaWriter(cfg config.KafkaConfig, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:            kafka.TCP(cfg.Brokers...),
		Topic:           topic,
		RequiredAcks:    kafka.RequireAll,
		Balancer:        &kafka.Hash{}, // partition by key (blog id)
		Async:           false,
		BatchTimeout:    50 * time.Millisecond,
		MaxAttempts:     5,
		WriteBackoffMin: 200 * time.Millisecond,
		WriteBackoffMax: 2 * time.Second,
	}
}

// NewKafkaReader builds a consumer with manual offset commits for
// at-least-once processing of feed events.
func NewKafkaReader(cfg config.KafkaConfig, topic string, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		CommitInterval: 0, // commit manually after the inbox write succeeds
	})
}
