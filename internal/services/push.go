package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/luisf/smartplayer-backend/internal/database"
	"github.com/luisf/smartplayer-backend/internal/events"
	"github.com/luisf/smartplayer-backend/internal/models"
)

const (
	defaultTitle = "SMARTPLAYER"
	defaultBody  = "You have a new notification"
)

// PushService maps notification records to push messages and delivers them
// as one multicast per recipient, pruning tokens the delivery service
// rejected as stale. Delivery failures are logged, never propagated: a
// failed push must not fail the trigger that produced the notification.
type PushService struct {
	store     Store
	tokens    *TokenService
	messenger Messenger
	directory Directory
}

func NewPushService(store Store, tokens *TokenService, messenger Messenger, directory Directory) *PushService {
	return &PushService{store: store, tokens: tokens, messenger: messenger, directory: directory}
}

// HandleNotificationCreated is the bus subscriber for new notification
// records.
func (s *PushService) HandleNotificationCreated(ctx context.Context, evt events.Event) error {
	data, ok := evt.Data.(events.NotificationCreated)
	if !ok {
		return nil
	}
	return s.DispatchNotification(ctx, data.UserID, data.NotificationID, data.Notification)
}

// HandleInviteCreated is the bus subscriber for invite creations.
func (s *PushService) HandleInviteCreated(ctx context.Context, evt events.Event) error {
	data, ok := evt.Data.(events.InviteCreated)
	if !ok {
		return nil
	}
	return s.SendInvitePush(ctx, data.MatchID, data.InviteeUID, data.Invite)
}

// HandleInviteStatusChanged is the bus subscriber for invite status writes.
func (s *PushService) HandleInviteStatusChanged(ctx context.Context, evt events.Event) error {
	data, ok := evt.Data.(events.InviteStatusChanged)
	if !ok {
		return nil
	}
	return s.SendInviteStatusPush(ctx, data.MatchID, data.InviteeUID, data.Before, data.After)
}

// DispatchNotification renders and sends the push for one notification
// record. No-op when the record is absent, already read, or the user has no
// tokens.
func (s *PushService) DispatchNotification(ctx context.Context, uid, notificationID string, notification models.Notification) error {
	if notification == (models.Notification{}) {
		// The record was removed before the delivery arrived.
		return nil
	}
	if notification.Read {
		return nil
	}

	logger := log.WithFields(log.Fields{"uid": uid, "notificationId": notificationID, "type": notification.Type})

	tokens, err := s.tokens.Tokens(ctx, uid)
	if err != nil {
		logger.WithError(err).Error("loading fcm tokens")
		return nil
	}
	if len(tokens) == 0 {
		logger.Info("no fcm tokens, skipping push")
		return nil
	}

	s.send(ctx, logger, uid, tokens, renderNotification(notificationID, notification))
	return nil
}

// renderNotification selects title, body and data payload for the closed set
// of notification types. Unknown types fall back to payload-provided values.
func renderNotification(notificationID string, n models.Notification) database.PushMessage {
	title := defaultTitle
	body := defaultBody
	data := map[string]string{
		"type":           string(n.Type),
		"notificationId": notificationID,
	}
	if n.Type == "" {
		data["type"] = "default"
	}

	fromName := n.Data.FromName
	if fromName == "" {
		fromName = "Someone"
	}
	sport := models.DisplaySport(n.Data.Sport)

	switch n.Type {
	case models.NotificationFriendRequest:
		title = "New Friend Request"
		body = fmt.Sprintf("%s sent you a friend request", fromName)
		data["route"] = "/friends"

	case models.NotificationFriendRequestAccepted:
		title = "Friend Request Accepted"
		body = fmt.Sprintf("%s accepted your friend request", fromName)
		data["route"] = "/friends"

	case models.NotificationMatchInvite:
		title = "Match Invitation"
		body = fmt.Sprintf("%s invited you to play a %s match!", fromName, sport)
		data["route"] = "/my-matches"
		data["matchId"] = n.Data.MatchID

	case models.NotificationMatchCancelled:
		location := n.Data.Location
		if location == "" {
			location = "your location"
		}
		title = "Match Cancelled"
		body = fmt.Sprintf("The %s at %s has been cancelled", sport, location)
		data["route"] = "/my-matches"
		data["matchId"] = n.Data.MatchID

	case models.NotificationInviteAccepted:
		title = "Invite Accepted"
		body = fmt.Sprintf("%s accepted your %s invite", fromName, sport)
		data["route"] = "/my-matches"
		data["matchId"] = n.Data.MatchID

	case models.NotificationInviteDeclined:
		title = "Invite Declined"
		body = fmt.Sprintf("%s declined your %s invite", fromName, sport)
		data["route"] = "/my-matches"
		data["matchId"] = n.Data.MatchID

	case models.NotificationMatchEdited:
		changes := n.Data.Changes
		if changes == "" {
			changes = "details"
		}
		if n.Data.FromName == "" {
			fromName = "Organizer"
		}
		title = "Match Updated"
		body = fmt.Sprintf("%s changed the match %s", fromName, changes)
		data["route"] = "/my-matches"
		data["matchId"] = n.Data.MatchID

	default:
		if n.Data.Title != "" {
			title = n.Data.Title
		}
		if n.Data.Message != "" {
			body = n.Data.Message
		}
		data["route"] = n.Data.Route
		if data["route"] == "" {
			data["route"] = "/home"
		}
	}

	return database.PushMessage{Title: title, Body: body, Data: data}
}

// SendInvitePush pushes a direct invitation to the invitee, synchronously
// with the invite write. Match and directory lookups fall back to the values
// carried on the invite itself.
func (s *PushService) SendInvitePush(ctx context.Context, matchID, inviteeUID string, invite models.Invite) error {
	logger := log.WithFields(log.Fields{"matchId": matchID, "inviteeUid": inviteeUID})

	tokens, err := s.tokens.Tokens(ctx, inviteeUID)
	if err != nil {
		logger.WithError(err).Error("loading invitee tokens")
		return nil
	}
	if len(tokens) == 0 {
		logger.Info("no tokens for invitee")
		return nil
	}

	var match models.Match
	if err := s.store.Get(ctx, database.MatchPath(matchID), &match); err != nil {
		logger.WithError(err).Error("loading match for invite push")
	}

	organizerID := match.OrganizerID
	if organizerID == "" {
		organizerID = invite.OrganizerID
	}
	sport := match.Sport
	if sport == "" {
		sport = invite.Sport
	}

	organizerName := s.organizerName(ctx, organizerID, invite)

	msg := database.PushMessage{
		Title: "Match Invitation",
		Body:  fmt.Sprintf("%s invited you to a %s match!", organizerName, models.DisplaySport(sport)),
		Data: map[string]string{
			"type":    "discover",
			"matchId": matchID,
		},
	}

	s.send(ctx, logger, inviteeUID, tokens, msg)
	return nil
}

func (s *PushService) organizerName(ctx context.Context, organizerID string, invite models.Invite) string {
	if organizerID != "" {
		if user, err := s.directory.Lookup(ctx, organizerID); err == nil && user.DisplayName != "" {
			return user.DisplayName
		}
	}
	if invite.OrganizerName != "" {
		return invite.OrganizerName
	}
	if invite.FromName != "" {
		return invite.FromName
	}
	return "Someone"
}

// SendInviteStatusPush notifies the organizer that an invitee accepted or
// declined. Echo writes and any other status values are no-ops, as is an
// organizer responding to their own invite.
func (s *PushService) SendInviteStatusPush(ctx context.Context, matchID, inviteeUID, before, after string) error {
	if after == "" || after == before {
		return nil
	}
	if after != models.InviteStatusAccepted && after != models.InviteStatusDeclined {
		return nil
	}

	logger := log.WithFields(log.Fields{"matchId": matchID, "inviteeUid": inviteeUID, "status": after})

	var match models.Match
	if err := s.store.Get(ctx, database.MatchPath(matchID), &match); err != nil {
		logger.WithError(err).Error("loading match for invite status push")
		return nil
	}
	if match.OrganizerID == "" || match.OrganizerID == inviteeUID {
		return nil
	}

	fromName := "Someone"
	if user, err := s.directory.Lookup(ctx, inviteeUID); err == nil && user.DisplayName != "" {
		fromName = user.DisplayName
	}

	tokens, err := s.tokens.Tokens(ctx, match.OrganizerID)
	if err != nil {
		logger.WithError(err).Error("loading organizer tokens")
		return nil
	}
	if len(tokens) == 0 {
		return nil
	}

	sport := models.DisplaySport(match.Sport)
	msg := database.PushMessage{
		Data: map[string]string{
			"route":   "/my-matches",
			"matchId": matchID,
		},
	}
	if after == models.InviteStatusAccepted {
		msg.Title = "Invite Accepted"
		msg.Body = fmt.Sprintf("%s accepted your %s invite", fromName, sport)
		msg.Data["type"] = string(models.NotificationInviteAccepted)
	} else {
		msg.Title = "Invite Declined"
		msg.Body = fmt.Sprintf("%s declined your %s invite", fromName, sport)
		msg.Data["type"] = string(models.NotificationInviteDeclined)
	}

	s.send(ctx, logger, match.OrganizerID, tokens, msg)
	return nil
}

// send delivers one multicast and prunes tokens the service reported stale.
func (s *PushService) send(ctx context.Context, logger *log.Entry, uid string, tokens []string, msg database.PushMessage) {
	result, err := s.messenger.SendMulticast(ctx, tokens, msg)
	if err != nil {
		logger.WithError(err).Error("sending push")
		return
	}

	logger.WithFields(log.Fields{
		"success": result.SuccessCount,
		"failed":  result.FailureCount,
	}).Info("push sent")

	if len(result.StaleTokens) > 0 {
		if err := s.tokens.PruneStale(ctx, uid, result.StaleTokens); err != nil {
			logger.WithError(err).Error("pruning stale tokens")
			return
		}
		logger.WithField("removed", len(result.StaleTokens)).Info("removed stale tokens")
	}
}
