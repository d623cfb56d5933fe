package handlers

import (
	"context"
	"errors"

	"github.com/m1z23r/drift/pkg/drift"

	"github.com/luisf/smartplayer-backend/internal/services"
)

// ReportHandler exposes the manual re-trigger for stuck field reports. This
// is the one surface where processing errors come back to the caller.
type ReportHandler struct {
	reports FieldReportServiceInterface
}

func NewReportHandler(reports FieldReportServiceInterface) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) Reprocess(c *drift.Context) {
	reportID := c.Param("reportId")
	if reportID == "" {
		c.BadRequest("report id is required")
		return
	}

	if err := h.reports.Reprocess(context.Background(), reportID); err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			c.NotFound("report not found")
			return
		}
		_ = c.JSON(500, map[string]string{"error": err.Error()})
		return
	}

	_ = c.JSON(200, map[string]any{
		"success": true,
		"message": "report " + reportID + " queued for email",
	})
}
