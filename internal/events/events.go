// Package events names every storage trigger as an explicit event type and
// carries them over an in-process bus, so the handler chains (queue write →
// fan-out → notification write → push dispatch) are visible and each link is
// independently testable.
package events

import "github.com/luisf/smartplayer-backend/internal/models"

// Type identifies an event kind on the bus.
type Type string

const (
	// TypeMatchWritten fires on any create or update of matches/{id}.
	TypeMatchWritten Type = "MatchWritten"
	// TypeMatchDeleted fires when matches/{id} is removed.
	TypeMatchDeleted Type = "MatchDeleted"
	// TypeInviteCreated fires on creation of matches/{id}/invites/{uid}.
	TypeInviteCreated Type = "InviteCreated"
	// TypeInviteStatusChanged fires on writes to
	// matches/{id}/invites/{uid}/status.
	TypeInviteStatusChanged Type = "InviteStatusChanged"
	// TypeUserDeleted fires when users/{uid} is removed.
	TypeUserDeleted Type = "UserDeleted"
	// TypeMailNotificationQueued fires on creation of
	// mail/notifications/{id}.
	TypeMailNotificationQueued Type = "MailNotificationQueued"
	// TypeNotificationRequested fires on creation of
	// notification_requests/{id}.
	TypeNotificationRequested Type = "NotificationRequested"
	// TypeNotificationCreated fires when a notification record is written
	// under users/{uid}/notifications/{id}.
	TypeNotificationCreated Type = "NotificationCreated"
	// TypeFieldReportCreated fires on creation of a fieldReports document.
	TypeFieldReportCreated Type = "FieldReportCreated"
)

// Event is one delivered trigger instance. Data holds the payload struct for
// the given Type.
type Event struct {
	ID   string
	Type Type
	Data any
}

// MatchWritten carries the before/after snapshots of a match write. Before
// is nil on creation. Snapshots stay untyped because the metadata classifier
// diffs them field by field.
type MatchWritten struct {
	MatchID string
	Before  map[string]any
	After   map[string]any
}

// MatchDeleted signals a removed match record.
type MatchDeleted struct {
	MatchID string
}

// InviteCreated carries a newly written invite entry.
type InviteCreated struct {
	MatchID    string
	InviteeUID string
	Invite     models.Invite
}

// InviteStatusChanged carries the old and new status of an invite entry.
type InviteStatusChanged struct {
	MatchID    string
	InviteeUID string
	Before     string
	After      string
}

// UserDeleted signals a removed user record.
type UserDeleted struct {
	UID string
}

// MailNotificationQueued carries a client-queued mail notification entry.
type MailNotificationQueued struct {
	NotificationID string
	Payload        models.MailNotification
}

// NotificationRequested carries a per-recipient notification request.
type NotificationRequested struct {
	RequestID string
	Request   models.NotificationRequest
}

// NotificationCreated carries a notification record written for a user.
type NotificationCreated struct {
	UserID         string
	NotificationID string
	Notification   models.Notification
}

// FieldReportCreated carries a submitted field report document.
type FieldReportCreated struct {
	ReportID string
	Report   models.FieldReport
}
