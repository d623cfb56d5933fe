package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/luisf/smartplayer-backend/internal/database"
	"github.com/luisf/smartplayer-backend/internal/models"
	"github.com/luisf/smartplayer-backend/tests/testutil"
)

func sentMessage(t *testing.T, messenger *testutil.MockMessenger) ([]string, database.PushMessage) {
	t.Helper()
	for _, call := range messenger.Calls {
		if call.Method == "SendMulticast" {
			return call.Arguments.Get(1).([]string), call.Arguments.Get(2).(database.PushMessage)
		}
	}
	t.Fatal("no multicast sent")
	return nil, database.PushMessage{}
}

func TestPushService_DispatchNotification_ReadIsSkipped(t *testing.T) {
	store := testutil.NewMemStore()
	messenger := new(testutil.MockMessenger)
	directory := new(testutil.MockDirectory)
	svc := NewPushService(store, NewTokenService(store), messenger, directory)

	store.Seed(t, "users/u1/fcmTokens/tok-1", true)

	err := svc.DispatchNotification(context.Background(), "u1", "n1", models.Notification{
		Type: models.NotificationFriendRequest, Read: true,
	})

	require.NoError(t, err)
	messenger.AssertNotCalled(t, "SendMulticast", mock.Anything, mock.Anything, mock.Anything)
}

func TestPushService_DispatchNotification_AbsentRecord(t *testing.T) {
	store := testutil.NewMemStore()
	messenger := new(testutil.MockMessenger)
	directory := new(testutil.MockDirectory)
	svc := NewPushService(store, NewTokenService(store), messenger, directory)

	store.Seed(t, "users/u1/fcmTokens/tok-1", true)

	err := svc.DispatchNotification(context.Background(), "u1", "n1", models.Notification{})

	require.NoError(t, err)
	messenger.AssertNotCalled(t, "SendMulticast", mock.Anything, mock.Anything, mock.Anything)
}

func TestPushService_DispatchNotification_NoTokens(t *testing.T) {
	store := testutil.NewMemStore()
	messenger := new(testutil.MockMessenger)
	directory := new(testutil.MockDirectory)
	svc := NewPushService(store, NewTokenService(store), messenger, directory)

	err := svc.DispatchNotification(context.Background(), "u1", "n1", models.Notification{
		Type: models.NotificationFriendRequest,
	})

	require.NoError(t, err)
	messenger.AssertNotCalled(t, "SendMulticast", mock.Anything, mock.Anything, mock.Anything)
}

func TestPushService_DispatchNotification_MatchInvite(t *testing.T) {
	store := testutil.NewMemStore()
	messenger := new(testutil.MockMessenger)
	directory := new(testutil.MockDirectory)
	svc := NewPushService(store, NewTokenService(store), messenger, directory)

	store.Seed(t, "users/u1/fcmTokens/tok-1", true)
	messenger.On("SendMulticast", mock.Anything, mock.Anything, mock.Anything).
		Return(&database.PushResult{SuccessCount: 1}, nil)

	err := svc.DispatchNotification(context.Background(), "u1", "n1", models.Notification{
		Type: models.NotificationMatchInvite,
		Data: models.NotificationData{FromName: "Alice", Sport: "soccer", MatchID: "m1"},
	})

	require.NoError(t, err)
	tokens, msg := sentMessage(t, messenger)
	assert.Equal(t, []string{"tok-1"}, tokens)
	assert.Equal(t, "Match Invitation", msg.Title)
	assert.Equal(t, "Alice invited you to play a football match!", msg.Body, "soccer renders as football")
	assert.Equal(t, "/my-matches", msg.Data["route"])
	assert.Equal(t, "m1", msg.Data["matchId"])
	assert.Equal(t, "n1", msg.Data["notificationId"])
}

func TestPushService_DispatchNotification_PrunesStaleTokens(t *testing.T) {
	store := testutil.NewMemStore()
	messenger := new(testutil.MockMessenger)
	directory := new(testutil.MockDirectory)
	svc := NewPushService(store, NewTokenService(store), messenger, directory)

	store.Seed(t, "users/u1/fcmTokens/tok-good", true)
	store.Seed(t, "users/u1/fcmTokens/tok-bad", true)
	messenger.On("SendMulticast", mock.Anything, mock.Anything, mock.Anything).
		Return(&database.PushResult{SuccessCount: 1, FailureCount: 1, StaleTokens: []string{"tok-bad"}}, nil)

	err := svc.DispatchNotification(context.Background(), "u1", "n1", models.Notification{
		Type: models.NotificationFriendRequest,
		Data: models.NotificationData{FromName: "Alice"},
	})

	require.NoError(t, err)
	assert.False(t, store.Has("users/u1/fcmTokens/tok-bad"))
	assert.True(t, store.Has("users/u1/fcmTokens/tok-good"))
}

func TestPushService_DispatchNotification_SendFailureSwallowed(t *testing.T) {
	store := testutil.NewMemStore()
	messenger := new(testutil.MockMessenger)
	directory := new(testutil.MockDirectory)
	svc := NewPushService(store, NewTokenService(store), messenger, directory)

	store.Seed(t, "users/u1/fcmTokens/tok-1", true)
	messenger.On("SendMulticast", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("fcm unavailable"))

	err := svc.DispatchNotification(context.Background(), "u1", "n1", models.Notification{
		Type: models.NotificationFriendRequest,
	})

	assert.NoError(t, err, "push failure must not fail the trigger")
}

func TestRenderNotification(t *testing.T) {
	testCases := []struct {
		name      string
		n         models.Notification
		wantTitle string
		wantBody  string
		wantRoute string
	}{
		{
			name:      "friend request",
			n:         models.Notification{Type: models.NotificationFriendRequest, Data: models.NotificationData{FromName: "Alice"}},
			wantTitle: "New Friend Request",
			wantBody:  "Alice sent you a friend request",
			wantRoute: "/friends",
		},
		{
			name:      "friend request accepted",
			n:         models.Notification{Type: models.NotificationFriendRequestAccepted, Data: models.NotificationData{FromName: "Bob"}},
			wantTitle: "Friend Request Accepted",
			wantBody:  "Bob accepted your friend request",
			wantRoute: "/friends",
		},
		{
			name:      "match cancelled",
			n:         models.Notification{Type: models.NotificationMatchCancelled, Data: models.NotificationData{Sport: "tennis", Location: "Center Court", MatchID: "m1"}},
			wantTitle: "Match Cancelled",
			wantBody:  "The tennis at Center Court has been cancelled",
			wantRoute: "/my-matches",
		},
		{
			name:      "match cancelled without location",
			n:         models.Notification{Type: models.NotificationMatchCancelled, Data: models.NotificationData{Sport: "soccer"}},
			wantTitle: "Match Cancelled",
			wantBody:  "The football at your location has been cancelled",
			wantRoute: "/my-matches",
		},
		{
			name:      "invite accepted",
			n:         models.Notification{Type: models.NotificationInviteAccepted, Data: models.NotificationData{FromName: "Carol", Sport: "padel", MatchID: "m1"}},
			wantTitle: "Invite Accepted",
			wantBody:  "Carol accepted your padel invite",
			wantRoute: "/my-matches",
		},
		{
			name:      "invite declined",
			n:         models.Notification{Type: models.NotificationInviteDeclined, Data: models.NotificationData{FromName: "Carol", Sport: "padel", MatchID: "m1"}},
			wantTitle: "Invite Declined",
			wantBody:  "Carol declined your padel invite",
			wantRoute: "/my-matches",
		},
		{
			name:      "match edited",
			n:         models.Notification{Type: models.NotificationMatchEdited, Data: models.NotificationData{MatchID: "m1"}},
			wantTitle: "Match Updated",
			wantBody:  "Organizer changed the match details",
			wantRoute: "/my-matches",
		},
		{
			name:      "unknown type with payload override",
			n:         models.Notification{Type: "custom", Data: models.NotificationData{Title: "Hello", Message: "World", Route: "/somewhere"}},
			wantTitle: "Hello",
			wantBody:  "World",
			wantRoute: "/somewhere",
		},
		{
			name:      "unknown type with empty payload",
			n:         models.Notification{Type: "custom"},
			wantTitle: defaultTitle,
			wantBody:  defaultBody,
			wantRoute: "/home",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			msg := renderNotification("n1", tc.n)
			assert.Equal(t, tc.wantTitle, msg.Title)
			assert.Equal(t, tc.wantBody, msg.Body)
			assert.Equal(t, tc.wantRoute, msg.Data["route"])
			assert.Equal(t, string(tc.n.Type), msg.Data["type"])
		})
	}
}

func TestRenderNotification_EmptyTypeDefaults(t *testing.T) {
	msg := renderNotification("n1", models.Notification{})
	assert.Equal(t, "default", msg.Data["type"])
	assert.Equal(t, defaultTitle, msg.Title)
}

func TestPushService_SendInvitePush(t *testing.T) {
	store := testutil.NewMemStore()
	messenger := new(testutil.MockMessenger)
	directory := new(testutil.MockDirectory)
	svc := NewPushService(store, NewTokenService(store), messenger, directory)

	store.Seed(t, "users/u2/fcmTokens/tok-1", true)
	store.Seed(t, "matches/m1", map[string]any{"organizerId": "org-1", "sport": "soccer"})
	directory.On("Lookup", mock.Anything, "org-1").Return(&models.DirectoryUser{UID: "org-1", DisplayName: "Carlos"}, nil)
	messenger.On("SendMulticast", mock.Anything, mock.Anything, mock.Anything).
		Return(&database.PushResult{SuccessCount: 1}, nil)

	err := svc.SendInvitePush(context.Background(), "m1", "u2", models.Invite{Status: "pending"})

	require.NoError(t, err)
	_, msg := sentMessage(t, messenger)
	assert.Equal(t, "Match Invitation", msg.Title)
	assert.Equal(t, "Carlos invited you to a football match!", msg.Body)
	assert.Equal(t, "discover", msg.Data["type"])
	assert.Equal(t, "m1", msg.Data["matchId"])
}

func TestPushService_SendInvitePush_FallsBackToInviteFields(t *testing.T) {
	store := testutil.NewMemStore()
	messenger := new(testutil.MockMessenger)
	directory := new(testutil.MockDirectory)
	svc := NewPushService(store, NewTokenService(store), messenger, directory)

	store.Seed(t, "users/u2/fcmTokens/tok-1", true)
	directory.On("Lookup", mock.Anything, "org-1").Return(nil, errors.New("user not found"))
	messenger.On("SendMulticast", mock.Anything, mock.Anything, mock.Anything).
		Return(&database.PushResult{SuccessCount: 1}, nil)

	err := svc.SendInvitePush(context.Background(), "m1", "u2", models.Invite{
		OrganizerID: "org-1", OrganizerName: "Carlos", Sport: "padel",
	})

	require.NoError(t, err)
	_, msg := sentMessage(t, messenger)
	assert.Equal(t, "Carlos invited you to a padel match!", msg.Body)
}

func TestPushService_SendInvitePush_NoTokens(t *testing.T) {
	store := testutil.NewMemStore()
	messenger := new(testutil.MockMessenger)
	directory := new(testutil.MockDirectory)
	svc := NewPushService(store, NewTokenService(store), messenger, directory)

	err := svc.SendInvitePush(context.Background(), "m1", "u2", models.Invite{})

	require.NoError(t, err)
	messenger.AssertNotCalled(t, "SendMulticast", mock.Anything, mock.Anything, mock.Anything)
}

func TestPushService_SendInviteStatusPush_Accepted(t *testing.T) {
	store := testutil.NewMemStore()
	messenger := new(testutil.MockMessenger)
	directory := new(testutil.MockDirectory)
	svc := NewPushService(store, NewTokenService(store), messenger, directory)

	store.Seed(t, "matches/m1", map[string]any{"organizerId": "org-1", "sport": "soccer"})
	store.Seed(t, "users/org-1/fcmTokens/tok-1", true)
	directory.On("Lookup", mock.Anything, "u2").Return(&models.DirectoryUser{UID: "u2", DisplayName: "Alice"}, nil)
	messenger.On("SendMulticast", mock.Anything, mock.Anything, mock.Anything).
		Return(&database.PushResult{SuccessCount: 1}, nil)

	err := svc.SendInviteStatusPush(context.Background(), "m1", "u2", "pending", "accepted")

	require.NoError(t, err)
	tokens, msg := sentMessage(t, messenger)
	assert.Equal(t, []string{"tok-1"}, tokens, "push goes to the organizer")
	assert.Equal(t, "Invite Accepted", msg.Title)
	assert.Equal(t, "Alice accepted your football invite", msg.Body)
	assert.Equal(t, "invite_accepted", msg.Data["type"])
}

func TestPushService_SendInviteStatusPush_Declined(t *testing.T) {
	store := testutil.NewMemStore()
	messenger := new(testutil.MockMessenger)
	directory := new(testutil.MockDirectory)
	svc := NewPushService(store, NewTokenService(store), messenger, directory)

	store.Seed(t, "matches/m1", map[string]any{"organizerId": "org-1", "sport": "tennis"})
	store.Seed(t, "users/org-1/fcmTokens/tok-1", true)
	directory.On("Lookup", mock.Anything, "u2").Return(nil, errors.New("user not found"))
	messenger.On("SendMulticast", mock.Anything, mock.Anything, mock.Anything).
		Return(&database.PushResult{SuccessCount: 1}, nil)

	err := svc.SendInviteStatusPush(context.Background(), "m1", "u2", "pending", "declined")

	require.NoError(t, err)
	_, msg := sentMessage(t, messenger)
	assert.Equal(t, "Someone declined your tennis invite", msg.Body)
	assert.Equal(t, "invite_declined", msg.Data["type"])
}

func TestPushService_SendInviteStatusPush_NoOps(t *testing.T) {
	store := testutil.NewMemStore()
	messenger := new(testutil.MockMessenger)
	directory := new(testutil.MockDirectory)
	svc := NewPushService(store, NewTokenService(store), messenger, directory)

	store.Seed(t, "matches/m1", map[string]any{"organizerId": "u2"})

	testCases := []struct {
		name          string
		before, after string
	}{
		{"empty status", "pending", ""},
		{"echo", "accepted", "accepted"},
		{"pending is not a response", "", "pending"},
		{"organizer responding to own invite", "pending", "accepted"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.SendInviteStatusPush(context.Background(), "m1", "u2", tc.before, tc.after)
			require.NoError(t, err)
		})
	}
	messenger.AssertNotCalled(t, "SendMulticast", mock.Anything, mock.Anything, mock.Anything)
}

func TestTokenService_PruneStale_Empty(t *testing.T) {
	store := testutil.NewMemStore()
	store.FailUpdate = errors.New("should not be called")
	svc := NewTokenService(store)

	assert.NoError(t, svc.PruneStale(context.Background(), "u1", nil))
}
