package dto

import (
	"encoding/json"

	"github.com/luisf/smartplayer-backend/internal/models"
)

// WriteEvent is the envelope for write triggers: the value at the path
// before and after the write. Before is null on creation, After on deletion.
type WriteEvent struct {
	Before json.RawMessage `json:"before,omitempty"`
	After  json.RawMessage `json:"after,omitempty"`
}

// StatusWriteEvent is the envelope for writes to an invite status leaf.
type StatusWriteEvent struct {
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

// InviteCreateEvent carries a newly created invite entry.
type InviteCreateEvent struct {
	Data models.Invite `json:"data"`
}

// MailNotificationCreateEvent carries a queued mail notification entry.
type MailNotificationCreateEvent struct {
	Data models.MailNotification `json:"data"`
}

// NotificationRequestCreateEvent carries a created notification request.
type NotificationRequestCreateEvent struct {
	Data models.NotificationRequest `json:"data"`
}

// NotificationCreateEvent carries a created per-user notification record.
// Data stays raw so a null snapshot (record already deleted by the time the
// delivery arrives) is distinguishable from a zero-valued record.
type NotificationCreateEvent struct {
	Data json.RawMessage `json:"data"`
}

// FieldReportCreateEvent carries a created field report document.
type FieldReportCreateEvent struct {
	Data models.FieldReport `json:"data"`
}

// IngestListingsRequest is the payload of the scrape ingest endpoint.
type IngestListingsRequest struct {
	Events []models.EventListing `json:"events"`
}
