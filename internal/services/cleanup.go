package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/luisf/smartplayer-backend/internal/database"
	"github.com/luisf/smartplayer-backend/internal/events"
	"github.com/luisf/smartplayer-backend/internal/models"
)

// CleanupService runs the nightly retention sweeps: expired notifications,
// and stale matches together with their indexes.
type CleanupService struct {
	store Store
	bus   Publisher
	now   func() time.Time

	notificationRetention time.Duration
	cancelledRetention    time.Duration
	pastMatchRetention    time.Duration
}

func NewCleanupService(store Store, bus Publisher, notificationRetention, cancelledRetention, pastMatchRetention time.Duration) *CleanupService {
	return &CleanupService{
		store:                 store,
		bus:                   bus,
		now:                   time.Now,
		notificationRetention: notificationRetention,
		cancelledRetention:    cancelledRetention,
		pastMatchRetention:    pastMatchRetention,
	}
}

// CleanupNotifications deletes every notification older than the retention
// window, across all users in one atomic update.
func (s *CleanupService) CleanupNotifications(ctx context.Context) error {
	cutoff := s.now().Add(-s.notificationRetention).UnixMilli()

	var users map[string]models.User
	if err := s.store.Get(ctx, "users", &users); err != nil {
		return err
	}

	updates := map[string]any{}
	for uid, user := range users {
		for nid, notification := range user.Notifications {
			if notification.Timestamp != 0 && notification.Timestamp < cutoff {
				updates[database.UserNotificationPath(uid, nid)] = nil
			}
		}
	}

	if len(updates) == 0 {
		return nil
	}
	if err := s.store.Update(ctx, updates); err != nil {
		log.WithError(err).Error("cleaning up old notifications")
		return err
	}
	log.WithField("removed", len(updates)).Info("cleaned up old notifications")
	return nil
}

// CleanupMatches removes matches cancelled longer ago than the cancelled
// retention window, or scheduled further in the past than the history
// window, together with the organizer's created-matches entry, the slot
// reservation and every user's pending-invite index entry. The deletions are
// published as MatchDeleted events so the per-user cascade cleanup runs for
// each removed match.
func (s *CleanupService) CleanupMatches(ctx context.Context) error {
	now := s.now()
	cancelledCutoff := now.Add(-s.cancelledRetention).UnixMilli()
	pastCutoff := now.Add(-s.pastMatchRetention).UnixMilli()

	var matches map[string]models.Match
	if err := s.store.Get(ctx, "matches", &matches); err != nil {
		return err
	}
	if len(matches) == 0 {
		return nil
	}

	var stale []string
	for matchID, match := range matches {
		if s.isStale(&match, cancelledCutoff, pastCutoff) {
			stale = append(stale, matchID)
		}
	}
	if len(stale) == 0 {
		log.Info("no old matches to clean up")
		return nil
	}

	var users map[string]models.User
	if err := s.store.Get(ctx, "users", &users); err != nil {
		return err
	}

	updates := map[string]any{}
	for _, matchID := range stale {
		match := matches[matchID]
		updates[database.MatchPath(matchID)] = nil
		if match.OrganizerID != "" {
			updates[database.UserCreatedMatchPath(match.OrganizerID, matchID)] = nil
		}
		if match.SlotDate != "" && match.SlotField != "" && match.SlotTime != "" {
			updates[database.SlotPath(match.SlotDate, match.SlotField, match.SlotTime)] = nil
		}
		for uid := range users {
			updates[database.PendingInviteEntryPath(uid, matchID)] = nil
		}
	}

	if err := s.store.Update(ctx, updates); err != nil {
		log.WithError(err).Error("cleaning up old matches")
		return err
	}
	log.WithField("matches", len(stale)).Info("cleaned up old matches")

	for _, matchID := range stale {
		err := s.bus.Publish(ctx, events.Event{
			ID:   uuid.NewString(),
			Type: events.TypeMatchDeleted,
			Data: events.MatchDeleted{MatchID: matchID},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *CleanupService) isStale(match *models.Match, cancelledCutoff, pastCutoff int64) bool {
	if match.IsActive != nil && !*match.IsActive {
		if canceledAt, ok := match.CanceledAtMillis(); ok && canceledAt < cancelledCutoff {
			return true
		}
	}
	if dateTime, ok := match.DateTimeMillis(); ok && dateTime < pastCutoff {
		return true
	}
	return false
}
