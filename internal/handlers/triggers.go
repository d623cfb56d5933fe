package handlers

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"

	"github.com/luisf/smartplayer-backend/internal/events"
	"github.com/luisf/smartplayer-backend/internal/models"
	"github.com/luisf/smartplayer-backend/pkg/dto"
)

// TriggerHandler is the ingress for storage trigger deliveries. Each
// endpoint decodes the delivery envelope for its path and publishes the
// named event on the bus. A failed handler yields 500 so the platform
// redelivers; subscribers are idempotent under that.
type TriggerHandler struct {
	bus PublisherInterface
}

func NewTriggerHandler(bus PublisherInterface) *TriggerHandler {
	return &TriggerHandler{bus: bus}
}

// MatchWritten handles write (create|update|delete) deliveries for
// matches/{matchId}.
func (h *TriggerHandler) MatchWritten(c *drift.Context) {
	matchID := c.Param("matchId")
	if matchID == "" {
		c.BadRequest("match id is required")
		return
	}

	var evt dto.WriteEvent
	if err := c.BindJSON(&evt); err != nil {
		c.BadRequest("invalid trigger envelope")
		return
	}

	before, err := decodeSnapshot(evt.Before)
	if err != nil {
		c.BadRequest("invalid before snapshot")
		return
	}
	after, err := decodeSnapshot(evt.After)
	if err != nil {
		c.BadRequest("invalid after snapshot")
		return
	}

	if after == nil && before != nil {
		h.publish(c, events.TypeMatchDeleted, events.MatchDeleted{MatchID: matchID})
		return
	}

	h.publish(c, events.TypeMatchWritten, events.MatchWritten{
		MatchID: matchID,
		Before:  before,
		After:   after,
	})
}

// MatchDeleted handles explicit deletion deliveries for matches/{matchId}.
func (h *TriggerHandler) MatchDeleted(c *drift.Context) {
	matchID := c.Param("matchId")
	if matchID == "" {
		c.BadRequest("match id is required")
		return
	}
	h.publish(c, events.TypeMatchDeleted, events.MatchDeleted{MatchID: matchID})
}

// InviteCreated handles creation deliveries for
// matches/{matchId}/invites/{inviteeUid}.
func (h *TriggerHandler) InviteCreated(c *drift.Context) {
	matchID := c.Param("matchId")
	inviteeUID := c.Param("inviteeUid")
	if matchID == "" || inviteeUID == "" {
		c.BadRequest("match id and invitee uid are required")
		return
	}

	var evt dto.InviteCreateEvent
	if err := c.BindJSON(&evt); err != nil {
		c.BadRequest("invalid trigger envelope")
		return
	}

	h.publish(c, events.TypeInviteCreated, events.InviteCreated{
		MatchID:    matchID,
		InviteeUID: inviteeUID,
		Invite:     evt.Data,
	})
}

// InviteStatusChanged handles write deliveries for
// matches/{matchId}/invites/{inviteeUid}/status.
func (h *TriggerHandler) InviteStatusChanged(c *drift.Context) {
	matchID := c.Param("matchId")
	inviteeUID := c.Param("inviteeUid")
	if matchID == "" || inviteeUID == "" {
		c.BadRequest("match id and invitee uid are required")
		return
	}

	var evt dto.StatusWriteEvent
	if err := c.BindJSON(&evt); err != nil {
		c.BadRequest("invalid trigger envelope")
		return
	}

	h.publish(c, events.TypeInviteStatusChanged, events.InviteStatusChanged{
		MatchID:    matchID,
		InviteeUID: inviteeUID,
		Before:     evt.Before,
		After:      evt.After,
	})
}

// UserDeleted handles deletion deliveries for users/{uid}.
func (h *TriggerHandler) UserDeleted(c *drift.Context) {
	uid := c.Param("uid")
	if uid == "" {
		c.BadRequest("uid is required")
		return
	}
	h.publish(c, events.TypeUserDeleted, events.UserDeleted{UID: uid})
}

// MailNotificationQueued handles creation deliveries for
// mail/notifications/{notificationId}.
func (h *TriggerHandler) MailNotificationQueued(c *drift.Context) {
	notificationID := c.Param("notificationId")
	if notificationID == "" {
		c.BadRequest("notification id is required")
		return
	}

	var evt dto.MailNotificationCreateEvent
	if err := c.BindJSON(&evt); err != nil {
		c.BadRequest("invalid trigger envelope")
		return
	}

	h.publish(c, events.TypeMailNotificationQueued, events.MailNotificationQueued{
		NotificationID: notificationID,
		Payload:        evt.Data,
	})
}

// NotificationRequested handles creation deliveries for
// notification_requests/{requestId}.
func (h *TriggerHandler) NotificationRequested(c *drift.Context) {
	requestID := c.Param("requestId")
	if requestID == "" {
		c.BadRequest("request id is required")
		return
	}

	var evt dto.NotificationRequestCreateEvent
	if err := c.BindJSON(&evt); err != nil {
		c.BadRequest("invalid trigger envelope")
		return
	}

	h.publish(c, events.TypeNotificationRequested, events.NotificationRequested{
		RequestID: requestID,
		Request:   evt.Data,
	})
}

// NotificationCreated handles creation deliveries for
// users/{uid}/notifications/{notificationId}.
func (h *TriggerHandler) NotificationCreated(c *drift.Context) {
	uid := c.Param("uid")
	notificationID := c.Param("notificationId")
	if uid == "" || notificationID == "" {
		c.BadRequest("uid and notification id are required")
		return
	}

	var evt dto.NotificationCreateEvent
	if err := c.BindJSON(&evt); err != nil {
		c.BadRequest("invalid trigger envelope")
		return
	}

	// Record already gone: consume the delivery without dispatching.
	if len(evt.Data) == 0 || string(evt.Data) == "null" {
		_ = c.JSON(200, map[string]string{"status": "ok"})
		return
	}

	var notification models.Notification
	if err := json.Unmarshal(evt.Data, &notification); err != nil {
		c.BadRequest("invalid notification payload")
		return
	}

	h.publish(c, events.TypeNotificationCreated, events.NotificationCreated{
		UserID:         uid,
		NotificationID: notificationID,
		Notification:   notification,
	})
}

// FieldReportCreated handles creation deliveries for fieldReports documents.
func (h *TriggerHandler) FieldReportCreated(c *drift.Context) {
	reportID := c.Param("reportId")
	if reportID == "" {
		c.BadRequest("report id is required")
		return
	}

	var evt dto.FieldReportCreateEvent
	if err := c.BindJSON(&evt); err != nil {
		c.BadRequest("invalid trigger envelope")
		return
	}

	h.publish(c, events.TypeFieldReportCreated, events.FieldReportCreated{
		ReportID: reportID,
		Report:   evt.Data,
	})
}

func (h *TriggerHandler) publish(c *drift.Context, t events.Type, data any) {
	err := h.bus.Publish(context.Background(), events.Event{
		ID:   uuid.NewString(),
		Type: t,
		Data: data,
	})
	if err != nil {
		c.InternalServerError("trigger processing failed")
		return
	}
	_ = c.JSON(200, map[string]string{"status": "ok"})
}

func decodeSnapshot(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var snapshot map[string]any
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}
