package models

import (
	"strings"
	"time"
)

// Invite statuses as stored under matches/{id}/invites/{uid}/status.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusDeclined = "declined"
)

// Invite is a single entry under matches/{id}/invites. The organizer fields
// are denormalized copies carried on the invite so pushes can still be built
// when the match or directory lookup fails.
type Invite struct {
	Status        string `json:"status,omitempty"`
	OrganizerID   string `json:"organizerId,omitempty"`
	OrganizerName string `json:"organizerName,omitempty"`
	FromName      string `json:"fromName,omitempty"`
	Sport         string `json:"sport,omitempty"`
	InvitedAt     int64  `json:"invitedAt,omitempty"`
}

// Match is the shared record under matches/{id}. Older clients wrote players
// as an array of uids, newer ones as a map keyed by uid; dateTime and
// canceledAt may be epoch millis or an RFC 3339 string. The accessor methods
// normalize both representations.
type Match struct {
	OrganizerID         string            `json:"organizerId,omitempty"`
	OrganizerName       string            `json:"organizerName,omitempty"`
	Sport               string            `json:"sport,omitempty"`
	Location            string            `json:"location,omitempty"`
	DateTime            any               `json:"dateTime,omitempty"`
	Players             any               `json:"players,omitempty"`
	CurrentPlayers      int               `json:"currentPlayers,omitempty"`
	Invites             map[string]any    `json:"invites,omitempty"`
	Version             int64             `json:"version,omitempty"`
	CreatedAt           int64             `json:"createdAt,omitempty"`
	UpdatedAt           int64             `json:"updatedAt,omitempty"`
	LastOrganizerEditAt int64             `json:"lastOrganizerEditAt,omitempty"`
	IsActive            *bool             `json:"isActive,omitempty"`
	CanceledAt          any               `json:"canceledAt,omitempty"`
	SlotDate            string            `json:"slotDate,omitempty"`
	SlotField           string            `json:"slotField,omitempty"`
	SlotTime            string            `json:"slotTime,omitempty"`
}

// PlayerIDs returns the joined player uids regardless of whether players was
// stored as an array or a map.
func (m *Match) PlayerIDs() []string {
	switch p := m.Players.(type) {
	case []any:
		ids := make([]string, 0, len(p))
		for _, v := range p {
			if s, ok := v.(string); ok {
				ids = append(ids, s)
			}
		}
		return ids
	case map[string]any:
		ids := make([]string, 0, len(p))
		for _, v := range p {
			if s, ok := v.(string); ok {
				ids = append(ids, s)
			}
		}
		return ids
	}
	return nil
}

// InviteStatuses maps invitee uid to invite status, normalizing the two
// stored invite forms: an object with a status field (missing status means
// pending) or a bare status string.
func (m *Match) InviteStatuses() map[string]string {
	if len(m.Invites) == 0 {
		return nil
	}
	statuses := make(map[string]string, len(m.Invites))
	for uid, v := range m.Invites {
		switch t := v.(type) {
		case string:
			statuses[uid] = t
		case map[string]any:
			if s, ok := t["status"].(string); ok && s != "" {
				statuses[uid] = s
			} else {
				statuses[uid] = InviteStatusPending
			}
		default:
			statuses[uid] = InviteStatusPending
		}
	}
	return statuses
}

// PlayersAreMap reports whether players was stored keyed by uid.
func (m *Match) PlayersAreMap() bool {
	_, ok := m.Players.(map[string]any)
	return ok
}

// DateTimeMillis returns the scheduled time as epoch millis. ok is false when
// the field is absent or unparseable.
func (m *Match) DateTimeMillis() (int64, bool) {
	return anyToMillis(m.DateTime)
}

// CanceledAtMillis returns the cancellation time as epoch millis.
func (m *Match) CanceledAtMillis() (int64, bool) {
	return anyToMillis(m.CanceledAt)
}

func anyToMillis(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case int64:
		return t, true
	case int:
		return int64(t), true
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed.UnixMilli(), true
		}
	}
	return 0, false
}

// DisplaySport maps the stored sport value to the word used in push bodies.
// The catalog stores "soccer" but the app renders it as football.
func DisplaySport(sport string) string {
	if sport == "" {
		return "match"
	}
	if strings.EqualFold(sport, "soccer") {
		return "football"
	}
	return sport
}
