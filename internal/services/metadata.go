package services

import (
	"context"
	"reflect"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/luisf/smartplayer-backend/internal/database"
	"github.com/luisf/smartplayer-backend/internal/events"
)

// Control fields the classifier itself maintains. They are excluded from the
// change diff so the classifier's own write-back diffs as empty and cannot
// retrigger itself.
var metadataFields = map[string]bool{
	"version":             true,
	"updatedAt":           true,
	"updatedBy":           true,
	"lastOrganizerEditAt": true,
}

// Fields a player changes by joining or leaving a match.
var participantFields = map[string]bool{
	"players":        true,
	"currentPlayers": true,
}

// MetadataService enforces the update metadata on shared match records: a
// monotonic version, updatedAt bumped on organizer edits only, and
// updatedAt == createdAt on creation regardless of what the client sent.
type MetadataService struct {
	store Store
	now   func() time.Time
}

func NewMetadataService(store Store) *MetadataService {
	return &MetadataService{store: store, now: time.Now}
}

// HandleMatchWritten is the bus subscriber for match writes.
func (s *MetadataService) HandleMatchWritten(ctx context.Context, evt events.Event) error {
	data, ok := evt.Data.(events.MatchWritten)
	if !ok {
		return nil
	}
	return s.Apply(ctx, data.MatchID, data.Before, data.After)
}

// Apply classifies one write to matches/{matchID} and writes back version and
// updatedAt when the change warrants it. before is nil on creation.
func (s *MetadataService) Apply(ctx context.Context, matchID string, before, after map[string]any) error {
	if after == nil {
		// Deletion; cascade cleanup handles it.
		return nil
	}

	if before == nil {
		return s.applyCreation(ctx, matchID, after)
	}

	changed := diffFields(before, after)
	if len(changed) == 0 {
		// Only control fields moved: this is the echo of our own prior
		// write-back. Returning here is what breaks the trigger loop.
		return nil
	}

	organizerEdit := isOrganizerEdit(before, after)

	if !organizerEdit && onlyParticipantChanges(changed, before, after) {
		log.WithFields(log.Fields{
			"matchId": matchID,
			"fields":  changed,
		}).Debug("participant-only change, keeping version and updatedAt")
		return nil
	}

	currentVersion, _ := toNumber(before["version"])
	incomingVersion, ok := toNumber(after["version"])
	nextVersion := incomingVersion
	if !ok || incomingVersion <= currentVersion {
		nextVersion = currentVersion + 1
	}

	updates := map[string]any{
		database.MatchVersionPath(matchID):   nextVersion,
		database.MatchUpdatedAtPath(matchID): s.now().UnixMilli(),
	}
	if err := s.store.Update(ctx, updates); err != nil {
		log.WithField("matchId", matchID).WithError(err).Error("writing match update metadata")
		return nil
	}
	return nil
}

func (s *MetadataService) applyCreation(ctx context.Context, matchID string, after map[string]any) error {
	updates := map[string]any{}

	if v, ok := toNumber(after["version"]); !ok || v == 0 {
		updates[database.MatchVersionPath(matchID)] = int64(1)
	}

	// A freshly created match must not look modified: if the client sent an
	// updatedAt that drifted from createdAt, snap it back.
	createdAt, createdOK := toNumber(after["createdAt"])
	updatedAt, updatedOK := toNumber(after["updatedAt"])
	if createdOK && updatedOK && createdAt != updatedAt {
		updates[database.MatchUpdatedAtPath(matchID)] = createdAt
	}

	if len(updates) == 0 {
		return nil
	}
	return s.store.Update(ctx, updates)
}

// diffFields returns the names of fields that differ between the snapshots,
// control fields excluded. Fields present on one side only count as changed.
func diffFields(before, after map[string]any) []string {
	var changed []string
	for key, afterVal := range after {
		if metadataFields[key] {
			continue
		}
		if beforeVal, ok := before[key]; !ok || !reflect.DeepEqual(beforeVal, afterVal) {
			changed = append(changed, key)
		}
	}
	for key := range before {
		if metadataFields[key] {
			continue
		}
		if _, ok := after[key]; !ok {
			changed = append(changed, key)
		}
	}
	return changed
}

// isOrganizerEdit reports whether lastOrganizerEditAt moved, the explicit
// signal the app writes when the organizer saves match details.
func isOrganizerEdit(before, after map[string]any) bool {
	afterEdit, ok := toNumber(after["lastOrganizerEditAt"])
	if !ok || afterEdit == 0 {
		return false
	}
	beforeEdit, _ := toNumber(before["lastOrganizerEditAt"])
	return afterEdit != beforeEdit
}

// onlyParticipantChanges reports whether the diff is confined to player
// membership and invite bookkeeping: players/currentPlayers, plus invite
// entries whose changes are status flips on existing entries or additions of
// new entries with no removals.
func onlyParticipantChanges(changed []string, before, after map[string]any) bool {
	sawInvites := false
	for _, field := range changed {
		if field == "invites" {
			sawInvites = true
			continue
		}
		if !participantFields[field] {
			return false
		}
	}
	if !sawInvites {
		return true
	}
	return inviteChangesAreParticipantOnly(asMap(before["invites"]), asMap(after["invites"]))
}

func inviteChangesAreParticipantOnly(before, after map[string]any) bool {
	// Removing an invite is an organizer action.
	for uid := range before {
		if _, ok := after[uid]; !ok {
			return false
		}
	}
	// Existing entries may only change status.
	for uid, beforeInvite := range before {
		afterEntry := asMap(after[uid])
		beforeEntry := asMap(beforeInvite)
		if afterEntry == nil {
			// Invites stored as plain status strings change by definition
			// only in status.
			continue
		}
		for key, afterVal := range afterEntry {
			if key == "status" {
				continue
			}
			if !reflect.DeepEqual(beforeEntry[key], afterVal) {
				return false
			}
		}
	}
	return true
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// toNumber extracts a numeric field from a decoded JSON snapshot.
func toNumber(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}
