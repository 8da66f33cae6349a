package kafka_middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"castlehire/pkg/kafka"
)

// Metrics exposes Prometheus instruments for Kafka operations.
type Metrics struct {
	publishedTotal  *prometheus.CounterVec
	publishDuration *prometheus.HistogramVec
	consumedTotal   *prometheus.CounterVec
	consumeDuration *prometheus.HistogramVec
}

// NewMetrics registers the Kafka metrics for one service on the default
// registry. Call once per process.
func NewMetrics(service string) *Metrics {
	labels := prometheus.Labels{"service": service}

	return &Metrics{
		publishedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "kafka_messages_published_total",
			Help:        "Messages published to Kafka, by topic and result.",
			ConstLabels: labels,
		}, []string{"topic", "result"}),
		publishDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "kafka_publish_duration_seconds",
			Help:        "Time to publish a message to Kafka.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"topic"}),
		consumedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "kafka_messages_consumed_total",
			Help:        "Messages consumed from Kafka, by topic and result.",
			ConstLabels: labels,
		}, []string{"topic", "result"}),
		consumeDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "kafka_consume_duration_seconds",
			Help:        "Time to process a consumed Kafka message.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"topic"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// MetricsProducerMiddleware tracks producer metrics
func (m *Metrics) MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		m.publishDuration.WithLabelValues(msg.Topic).Observe(time.Since(start).Seconds())
		m.publishedTotal.WithLabelValues(msg.Topic, result(err)).Inc()

		return err
	}
}

// MetricsConsumerMiddleware tracks consumer metrics
func (m *Metrics) MetricsConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()

		err := next(ctx, msg)

		m.consumeDuration.WithLabelValues(msg.Topic).Observe(time.Since(start).Seconds())
		m.consumedTotal.WithLabelValues(msg.Topic, result(err)).Inc()

		return err
	}
}
