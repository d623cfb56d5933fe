package models

// NotificationType is the closed set of notification kinds the app renders.
type NotificationType string

const (
	NotificationFriendRequest         NotificationType = "friend_request"
	NotificationFriendRequestAccepted NotificationType = "friend_request_accepted"
	NotificationMatchInvite           NotificationType = "match_invite"
	NotificationMatchCancelled        NotificationType = "match_cancelled"
	NotificationMatchEdited           NotificationType = "match_edited"
	NotificationInviteAccepted        NotificationType = "invite_accepted"
	NotificationInviteDeclined        NotificationType = "invite_declined"
)

// NotificationData is the typed payload attached to a notification. Which
// fields are populated depends on the notification type; the push dispatcher
// switches on the type and reads only the fields that type defines. Title,
// Message and Route back the default rendering branch for types the client
// queued itself.
type NotificationData struct {
	FromUID  string `json:"fromUid,omitempty"`
	FromName string `json:"fromName,omitempty"`
	MatchID  string `json:"matchId,omitempty"`
	Sport    string `json:"sport,omitempty"`
	Location string `json:"location,omitempty"`
	Changes  string `json:"changes,omitempty"`
	Title    string `json:"title,omitempty"`
	Message  string `json:"message,omitempty"`
	Route    string `json:"route,omitempty"`
}

// Notification lives under users/{uid}/notifications/{id}. Timestamp is
// epoch millis; Read flips when the client opens the notification.
type Notification struct {
	Type      NotificationType `json:"type"`
	Data      NotificationData `json:"data"`
	Timestamp int64            `json:"timestamp"`
	Read      bool             `json:"read"`
}

// MailNotification is a transient entry the client queues under
// mail/notifications/{id}. Consumed exactly once by the fan-out engine;
// idempotency is enforced via mail/processed/{id}.
type MailNotification struct {
	Type    string `json:"type"`
	ToUID   string `json:"toUid,omitempty"`
	FromUID string `json:"fromUid,omitempty"`
	MatchID string `json:"matchId,omitempty"`
}

// Queue types accepted in mail/notifications entries.
const (
	MailTypeFriendRequest  = "friend_request"
	MailTypeFriendAccept   = "friend_accept"
	MailTypeMatchInvite    = "match_invite"
	MailTypeMatchEdited    = "match_edited"
	MailTypeMatchCancelled = "match_cancelled"
)

// NotificationRequest is a transient per-recipient request under
// notification_requests/{id}. The fan-out engine copies it verbatim to the
// recipient's notifications and removes the request; no processed marker is
// needed because the request itself is consumed exactly once.
type NotificationRequest struct {
	RecipientUID string           `json:"recipientUid"`
	Type         NotificationType `json:"type"`
	Data         NotificationData `json:"data"`
	Timestamp    int64            `json:"timestamp"`
	Read         bool             `json:"read"`
}
