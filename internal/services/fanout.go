package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/luisf/smartplayer-backend/internal/database"
	"github.com/luisf/smartplayer-backend/internal/events"
	"github.com/luisf/smartplayer-backend/internal/models"
)

// FanoutService turns a single triggering event into per-recipient
// notification records and runs the cascade cleanup for deleted matches and
// users. All operations are idempotent under at-least-once delivery: the
// mail queue path is guarded by a processed marker, the other paths only
// write values that are identical on redelivery or delete already-deleted
// entries.
type FanoutService struct {
	store     Store
	directory Directory
	bus       Publisher
	now       func() time.Time
}

func NewFanoutService(store Store, directory Directory, bus Publisher) *FanoutService {
	return &FanoutService{store: store, directory: directory, bus: bus, now: time.Now}
}

// HandleMailNotificationQueued is the bus subscriber for mail/notifications
// creations.
func (s *FanoutService) HandleMailNotificationQueued(ctx context.Context, evt events.Event) error {
	data, ok := evt.Data.(events.MailNotificationQueued)
	if !ok {
		return nil
	}
	return s.ProcessMailNotification(ctx, data.NotificationID, data.Payload)
}

// HandleNotificationRequested is the bus subscriber for notification_requests
// creations.
func (s *FanoutService) HandleNotificationRequested(ctx context.Context, evt events.Event) error {
	data, ok := evt.Data.(events.NotificationRequested)
	if !ok {
		return nil
	}
	return s.ProcessNotificationRequest(ctx, data.RequestID, data.Request)
}

// HandleMatchDeleted is the bus subscriber for match deletions.
func (s *FanoutService) HandleMatchDeleted(ctx context.Context, evt events.Event) error {
	data, ok := evt.Data.(events.MatchDeleted)
	if !ok {
		return nil
	}
	return s.CleanupDeletedMatch(ctx, data.MatchID)
}

// HandleUserDeleted is the bus subscriber for user deletions.
func (s *FanoutService) HandleUserDeleted(ctx context.Context, evt events.Event) error {
	data, ok := evt.Data.(events.UserDeleted)
	if !ok {
		return nil
	}
	return s.CleanupDeletedUser(ctx, data.UID)
}

// ProcessMailNotification consumes one client-queued entry from
// mail/notifications/{id}. The processed marker, the per-recipient
// notification writes and the queue-entry removal go out as one atomic
// multi-path update, so a redelivered entry either sees the marker or
// repeats the whole write verbatim.
func (s *FanoutService) ProcessMailNotification(ctx context.Context, notificationID string, payload models.MailNotification) error {
	logger := log.WithFields(log.Fields{"notificationId": notificationID, "type": payload.Type})

	processed, err := s.store.Exists(ctx, database.MailProcessedPath(notificationID))
	if err != nil {
		return err
	}
	if processed {
		logger.Info("already processed, removing duplicate queue entry")
		return s.store.Delete(ctx, database.MailNotificationPath(notificationID))
	}

	now := s.now().UnixMilli()
	updates := map[string]any{}
	created := map[string]models.Notification{}

	addNotification := func(uid string, n models.Notification) {
		updates[database.UserNotificationPath(uid, notificationID)] = n
		created[uid] = n
	}

	switch payload.Type {
	case models.MailTypeFriendRequest:
		if payload.ToUID != "" {
			addNotification(payload.ToUID, models.Notification{
				Type:      models.NotificationFriendRequest,
				Data:      models.NotificationData{FromUID: payload.FromUID, FromName: s.senderName(ctx, payload.FromUID)},
				Timestamp: now,
			})
		}

	case models.MailTypeFriendAccept:
		if payload.ToUID != "" {
			addNotification(payload.ToUID, models.Notification{
				Type:      models.NotificationFriendRequestAccepted,
				Data:      models.NotificationData{FromUID: payload.FromUID, FromName: s.senderName(ctx, payload.FromUID)},
				Timestamp: now,
			})
		}

	case models.MailTypeMatchInvite:
		if payload.ToUID != "" && payload.MatchID != "" {
			addNotification(payload.ToUID, models.Notification{
				Type:      models.NotificationMatchInvite,
				Data:      models.NotificationData{MatchID: payload.MatchID},
				Timestamp: now,
			})
		}

	case models.MailTypeMatchEdited, models.MailTypeMatchCancelled:
		if payload.MatchID != "" {
			if err := s.fanOutMatchChange(ctx, logger, payload, notificationID, now, addNotification); err != nil {
				return err
			}
		}

	default:
		logger.Warn("unknown mail notification type, skipping")
	}

	// Mark processed and drop the queue entry even on no-op branches.
	updates[database.MailProcessedPath(notificationID)] = map[string]any{"ts": now, "type": payload.Type}
	updates[database.MailNotificationPath(notificationID)] = nil

	if err := s.store.Update(ctx, updates); err != nil {
		logger.WithError(err).Error("applying mail notification fan-out")
		return err
	}

	return s.publishCreated(ctx, notificationID, created)
}

func (s *FanoutService) fanOutMatchChange(ctx context.Context, logger *log.Entry, payload models.MailNotification, notificationID string, now int64, addNotification func(string, models.Notification)) error {
	exists, err := s.store.Exists(ctx, database.MatchPath(payload.MatchID))
	if err != nil {
		return err
	}
	if !exists {
		logger.WithField("matchId", payload.MatchID).Error("match does not exist")
		return nil
	}

	var match models.Match
	if err := s.store.Get(ctx, database.MatchPath(payload.MatchID), &match); err != nil {
		return err
	}

	recipients := matchRecipients(&match)
	if len(recipients) == 0 {
		logger.WithField("matchId", payload.MatchID).Info("no recipients after excluding organizer")
		return nil
	}

	sport := match.Sport
	if sport == "" {
		sport = "match"
	}
	location := match.Location
	if location == "" {
		location = "your location"
	}
	organizerName := match.OrganizerName
	if organizerName == "" {
		organizerName = "Organizer"
	}

	for _, uid := range recipients {
		switch payload.Type {
		case models.MailTypeMatchEdited:
			addNotification(uid, models.Notification{
				Type: models.NotificationMatchEdited,
				Data: models.NotificationData{
					MatchID:  payload.MatchID,
					Sport:    sport,
					Location: location,
					FromName: organizerName,
					Changes:  "details",
				},
				Timestamp: now,
			})
		case models.MailTypeMatchCancelled:
			addNotification(uid, models.Notification{
				Type: models.NotificationMatchCancelled,
				Data: models.NotificationData{
					MatchID:  payload.MatchID,
					Sport:    sport,
					Location: location,
				},
				Timestamp: now,
			})
		}
	}

	logger.WithFields(log.Fields{"matchId": payload.MatchID, "recipients": len(recipients)}).Info("fanning out match change")
	return nil
}

// matchRecipients is the recipient set for a match edit or cancellation:
// joined players plus invitees with a pending or accepted invite, always
// excluding the organizer.
func matchRecipients(match *models.Match) []string {
	set := map[string]bool{}
	for _, uid := range match.PlayerIDs() {
		set[uid] = true
	}
	for uid, status := range match.InviteStatuses() {
		if status == models.InviteStatusPending || status == models.InviteStatusAccepted {
			set[uid] = true
		}
	}
	delete(set, match.OrganizerID)

	recipients := make([]string, 0, len(set))
	for uid := range set {
		recipients = append(recipients, uid)
	}
	return recipients
}

// senderName resolves a display name for the sending user, defaulting to
// "Someone" when the uid is empty or the directory lookup fails.
func (s *FanoutService) senderName(ctx context.Context, fromUID string) string {
	if fromUID == "" {
		return "Someone"
	}
	user, err := s.directory.Lookup(ctx, fromUID)
	if err != nil || user.DisplayName == "" {
		return "Someone"
	}
	return user.DisplayName
}

// ProcessNotificationRequest copies one queued request into the recipient's
// notifications and removes the request in the same atomic update. The
// request is the idempotency token: once removed it cannot be replayed.
func (s *FanoutService) ProcessNotificationRequest(ctx context.Context, requestID string, request models.NotificationRequest) error {
	if request.RecipientUID == "" {
		log.WithField("requestId", requestID).Warn("notification request without recipient, dropping")
		return s.store.Delete(ctx, database.NotificationRequestPath(requestID))
	}

	notification := models.Notification{
		Type:      request.Type,
		Data:      request.Data,
		Timestamp: request.Timestamp,
		Read:      request.Read,
	}

	updates := map[string]any{
		database.UserNotificationPath(request.RecipientUID, requestID): notification,
		database.NotificationRequestPath(requestID):                   nil,
	}
	if err := s.store.Update(ctx, updates); err != nil {
		log.WithField("requestId", requestID).WithError(err).Error("processing notification request")
		return err
	}

	log.WithFields(log.Fields{
		"requestId":    requestID,
		"recipientUid": request.RecipientUID,
		"type":         request.Type,
	}).Info("notification request processed")

	return s.publishCreated(ctx, requestID, map[string]models.Notification{request.RecipientUID: notification})
}

// CleanupDeletedMatch removes every user's index entries for the match and
// any notification whose payload references it.
func (s *FanoutService) CleanupDeletedMatch(ctx context.Context, matchID string) error {
	var users map[string]models.User
	if err := s.store.Get(ctx, "users", &users); err != nil {
		return err
	}

	updates := map[string]any{}
	for uid, user := range users {
		updates[database.UserJoinedMatchPath(uid, matchID)] = nil
		updates[database.UserMatchInvitePath(uid, matchID)] = nil
		for nid, notification := range user.Notifications {
			if notification.Data.MatchID == matchID {
				updates[database.UserNotificationPath(uid, nid)] = nil
			}
		}
	}

	if err := s.store.Update(ctx, updates); err != nil {
		log.WithField("matchId", matchID).WithError(err).Error("cleaning up after match delete")
		return err
	}
	return nil
}

// CleanupDeletedUser removes everything the deleted user owned or appeared
// in, as one atomic update. Errors propagate so the platform retries:
// leaving partial cleanup behind is worse than running it twice.
func (s *FanoutService) CleanupDeletedUser(ctx context.Context, uid string) error {
	logger := log.WithField("uid", uid)
	logger.Info("starting cleanup for deleted user")

	updates := map[string]any{
		database.PublicProfilePath(uid):      nil,
		database.PendingInviteIndexPath(uid): nil,
	}

	// The auth account is usually deleted before the user record, so the
	// directory lookup may fail; without it the derived indexes are left as
	// harmless orphans.
	var email, displayName string
	if user, err := s.directory.Lookup(ctx, uid); err != nil {
		logger.WithError(err).Info("directory record unavailable, skipping index cleanup")
	} else {
		email = user.Email
		displayName = user.DisplayName
	}

	if email != "" {
		updates[database.EmailHashIndexPath(emailHash(email))] = nil
	}
	nameLower := displayNameLower(displayName)
	if nameLower != "" {
		updates[database.DisplayNameIndexPath(nameLower, uid)] = nil
	}
	if derived := derivedNameFromEmail(email); derived != "" && derived != nameLower {
		updates[database.DisplayNameIndexPath(derived, uid)] = nil
	}

	var tokens map[string]models.FriendToken
	if err := s.store.Get(ctx, "friendTokens", &tokens); err != nil {
		logger.WithError(err).Error("loading friend tokens")
	} else {
		for tokenID, token := range tokens {
			if token.Owner() == uid {
				updates[database.FriendTokenPath(tokenID)] = nil
			}
		}
	}

	var matches map[string]models.Match
	if err := s.store.Get(ctx, "matches", &matches); err != nil {
		logger.WithError(err).Error("loading matches")
	} else {
		for matchID, match := range matches {
			updates[database.MatchInvitePath(matchID, uid)] = nil
			switch {
			case match.PlayersAreMap():
				updates[database.MatchPlayerPath(matchID, uid)] = nil
			case match.Players != nil:
				filtered := make([]string, 0)
				for _, player := range match.PlayerIDs() {
					if player != uid {
						filtered = append(filtered, player)
					}
				}
				updates[database.MatchPlayersPath(matchID)] = filtered
				updates[database.MatchCurrentPlayersPath(matchID)] = len(filtered)
			}
		}
	}

	if err := s.store.Update(ctx, updates); err != nil {
		logger.WithError(err).Error("applying user delete cleanup")
		return err
	}

	logger.WithField("entries", len(updates)).Info("completed cleanup for deleted user")
	return nil
}

func (s *FanoutService) publishCreated(ctx context.Context, notificationID string, created map[string]models.Notification) error {
	for uid, notification := range created {
		err := s.bus.Publish(ctx, events.Event{
			ID:   uuid.NewString(),
			Type: events.TypeNotificationCreated,
			Data: events.NotificationCreated{
				UserID:         uid,
				NotificationID: notificationID,
				Notification:   notification,
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func emailHash(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

func displayNameLower(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// derivedNameFromEmail lowers the local part of the email with non-letters
// stripped, matching the index the app writes at signup.
func derivedNameFromEmail(email string) string {
	if email == "" {
		return ""
	}
	prefix, _, _ := strings.Cut(email, "@")
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return -1
	}, prefix)
	base := cleaned
	if base == "" {
		base = strings.TrimSpace(prefix)
	}
	return strings.ToLower(base)
}
