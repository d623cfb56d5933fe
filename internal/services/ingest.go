package services

import (
	"context"
	"time"

	"github.com/luisf/smartplayer-backend/internal/models"
)

// IngestService persists scraped third-party event listings. The scraper
// itself lives outside this backend; it posts its results here and they are
// published wholesale under events/latest.
type IngestService struct {
	store Store
	now   func() time.Time
}

func NewIngestService(store Store) *IngestService {
	return &IngestService{store: store, now: time.Now}
}

// StoreListings replaces the published listing set.
func (s *IngestService) StoreListings(ctx context.Context, listings []models.EventListing) error {
	return s.store.Set(ctx, "events/latest", map[string]any{
		"events":      listings,
		"lastUpdated": s.now().UnixMilli(),
	})
}
