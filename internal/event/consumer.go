package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/clutchparts/search-service/internal/fulltext"
	pkgkafka "github.com/clutchparts/search-service/pkg/kafka"
)

// Kafka topics for catalog change events consumed by this service. The
// catalog system publishes these whenever part data changes upstream.
const (
	TopicPartUpserted = "catalog.part.upserted"
	TopicPartDeleted  = "catalog.part.deleted"
)

// PartEventData is the payload of a catalog.part.upserted event.
type PartEventData struct {
	ID           int64   `json:"id"`
	Reference    string  `json:"reference"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	CategoryID   *int64  `json:"category_id,omitempty"`
	CategoryName string  `json:"category_name,omitempty"`
	BrandID      *int64  `json:"brand_id,omitempty"`
	BrandName    string  `json:"brand_name,omitempty"`
	Price        float64 `json:"price"`
	Quality      string  `json:"quality"`
	Availability string  `json:"availability"`
	ImageURL     string  `json:"image_url"`
}

// PartDeletedData is the payload of a catalog.part.deleted event.
type PartDeletedData struct {
	ID int64 `json:"id"`
}

// Consumer keeps the browse index in sync with catalog change events.
type Consumer struct {
	engine fulltext.Engine
	logger *slog.Logger
}

// NewConsumer creates an event consumer feeding the browse index.
func NewConsumer(engine fulltext.Engine, logger *slog.Logger) *Consumer {
	return &Consumer{engine: engine, logger: logger}
}

// Handle processes a Kafka event based on its type. Unknown event types are
// acknowledged without action so mixed-topic deployments stay compatible.
func (c *Consumer) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicPartUpserted:
		return c.handlePartUpserted(ctx, event)
	case TopicPartDeleted:
		return c.handlePartDeleted(ctx, event)
	default:
		c.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

func (c *Consumer) handlePartUpserted(ctx context.Context, event *pkgkafka.Event) error {
	var data PartEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal part.upserted data: %w", err)
	}

	doc := &fulltext.PartDocument{
		ID:           data.ID,
		Reference:    data.Reference,
		Name:         data.Name,
		Description:  data.Description,
		CategoryName: data.CategoryName,
		BrandName:    data.BrandName,
		Price:        data.Price,
		Quality:      data.Quality,
		Availability: data.Availability,
		ImageURL:     data.ImageURL,
		UpdatedAt:    time.Now().UTC(),
	}
	if data.CategoryID != nil {
		doc.CategoryID = *data.CategoryID
	}
	if data.BrandID != nil {
		doc.BrandID = *data.BrandID
	}

	if err := c.engine.Index(ctx, doc); err != nil {
		return fmt.Errorf("index part from upserted event: %w", err)
	}

	c.logger.InfoContext(ctx, "indexed part from upserted event",
		slog.Int64("part_id", data.ID),
		slog.String("reference", data.Reference),
	)

	return nil
}

func (c *Consumer) handlePartDeleted(ctx context.Context, event *pkgkafka.Event) error {
	var data PartDeletedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal part.deleted data: %w", err)
	}

	if err := c.engine.Delete(ctx, data.ID); err != nil {
		return fmt.Errorf("delete part from deleted event: %w", err)
	}

	c.logger.InfoContext(ctx, "deleted part from deleted event",
		slog.Int64("part_id", data.ID),
	)

	return nil
}
