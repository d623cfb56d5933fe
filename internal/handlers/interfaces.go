package handlers

import (
	"context"

	"github.com/luisf/smartplayer-backend/internal/events"
	"github.com/luisf/smartplayer-backend/internal/models"
)

// PublisherInterface defines the bus methods used by the trigger handlers.
type PublisherInterface interface {
	Publish(ctx context.Context, evt events.Event) error
}

// FieldReportServiceInterface defines the methods used by the report handler.
type FieldReportServiceInterface interface {
	Reprocess(ctx context.Context, reportID string) error
}

// IngestServiceInterface defines the methods used by the ingest handler.
type IngestServiceInterface interface {
	StoreListings(ctx context.Context, listings []models.EventListing) error
}
