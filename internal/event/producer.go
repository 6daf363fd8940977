package event

import (
	"context"
	"log/slog"

	pkgkafka "github.com/clutchparts/search-service/pkg/kafka"
	"github.com/clutchparts/search-service/pkg/logger"
)

// Kafka topics published by this service.
const (
	TopicSearchPerformed = "catalog.search.performed"
)

const sourceName = "search-service"

// SearchPerformedData is the payload of a catalog.search.performed event,
// consumed by analytics to build query-frequency reports.
type SearchPerformedData struct {
	Query   string `json:"query"`
	Tier    string `json:"tier"`
	Total   int    `json:"total"`
	TookMs  int64  `json:"took_ms"`
	IsEmpty bool   `json:"is_empty"`
}

// SearchProducer publishes search telemetry events. Publishing never fails
// the search path; failures are logged and dropped.
type SearchProducer struct {
	producer *pkgkafka.Producer
	logger   *slog.Logger
}

// NewSearchProducer creates a search event producer.
func NewSearchProducer(producer *pkgkafka.Producer, log *slog.Logger) *SearchProducer {
	return &SearchProducer{producer: producer, logger: log}
}

// SearchPerformed publishes a search telemetry event, best-effort.
func (p *SearchProducer) SearchPerformed(ctx context.Context, query, tier string, total int, tookMs int64) {
	data := SearchPerformedData{
		Query:   query,
		Tier:    tier,
		Total:   total,
		TookMs:  tookMs,
		IsEmpty: total == 0,
	}

	evt, err := pkgkafka.NewEvent(TopicSearchPerformed, query, "search", sourceName, data)
	if err != nil {
		p.logger.WarnContext(ctx, "failed to build search event", slog.String("error", err.Error()))
		return
	}
	evt.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.producer.Publish(ctx, TopicSearchPerformed, evt); err != nil {
		p.logger.WarnContext(ctx, "failed to publish search event",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
	}
}
