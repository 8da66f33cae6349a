package kafka

import (
	"context"
	"testing"

	kafka_config "castlehire/pkg/kafka/config"
)

func testProducerConfig() *kafka_config.Config {
	return &kafka_config.Config{
		Brokers:             []string{"localhost:9092"},
		ProducerCompression: "snappy",
		ProducerRequireAcks: -1,
		ProducerMaxAttempts: 3,
	}
}

func TestNewProducerValidation(t *testing.T) {
	if _, err := NewProducer(nil, "castlehire.bookings", ""); err == nil {
		t.Error("nil config should be rejected")
	}
	if _, err := NewProducer(&kafka_config.Config{}, "castlehire.bookings", ""); err == nil {
		t.Error("missing brokers should be rejected")
	}
	if _, err := NewProducer(testProducerConfig(), "", ""); err == nil {
		t.Error("empty topic should be rejected")
	}
}

func TestPublishRejectsUnkeyedMessage(t *testing.T) {
	producer, err := NewProducer(testProducerConfig(), "castlehire.bookings", "")
	if err != nil {
		t.Fatalf("NewProducer: %v", err)
	}
	defer producer.Close()

	// An unkeyed event would land on an arbitrary partition and break
	// per-booking ordering; it must be rejected before the broker.
	err = producer.Publish(context.Background(), Message{Value: []byte(`{}`)})
	if err != ErrEmptyKey {
		t.Errorf("Publish without key = %v, want ErrEmptyKey", err)
	}

	err = producer.Publish(context.Background(), Message{Key: "bk1"})
	if err != ErrEmptyValue {
		t.Errorf("Publish without value = %v, want ErrEmptyValue", err)
	}
}

func TestPublishAfterCloseFails(t *testing.T) {
	producer, err := NewProducer(testProducerConfig(), "castlehire.bookings", "")
	if err != nil {
		t.Fatalf("NewProducer: %v", err)
	}
	if err := producer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := producer.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}

	msg := NewMessage().WithKey("bk1").WithRawValue([]byte(`{}`)).Build()
	if err := producer.Publish(context.Background(), msg); err != ErrProducerClosed {
		t.Errorf("Publish after Close = %v, want ErrProducerClosed", err)
	}
}
