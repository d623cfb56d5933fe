package handlers

import (
	"context"

	"github.com/m1z23r/drift/pkg/drift"

	"github.com/luisf/smartplayer-backend/pkg/dto"
)

// IngestHandler accepts scraped event listings from the external scraper.
type IngestHandler struct {
	ingest IngestServiceInterface
}

func NewIngestHandler(ingest IngestServiceInterface) *IngestHandler {
	return &IngestHandler{ingest: ingest}
}

func (h *IngestHandler) StoreListings(c *drift.Context) {
	var req dto.IngestListingsRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if err := h.ingest.StoreListings(context.Background(), req.Events); err != nil {
		c.InternalServerError("failed to store listings")
		return
	}

	_ = c.JSON(200, map[string]any{
		"success": true,
		"count":   len(req.Events),
	})
}
