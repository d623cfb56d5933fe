package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_PlayerIDs_Array(t *testing.T) {
	m := Match{Players: []any{"u1", "u2"}}
	assert.Equal(t, []string{"u1", "u2"}, m.PlayerIDs())
}

func TestMatch_PlayerIDs_Map(t *testing.T) {
	m := Match{Players: map[string]any{"u1": "u1", "u2": "u2"}}
	assert.ElementsMatch(t, []string{"u1", "u2"}, m.PlayerIDs())
}

func TestMatch_PlayerIDs_Absent(t *testing.T) {
	m := Match{}
	assert.Empty(t, m.PlayerIDs())
}

func TestMatch_InviteStatuses(t *testing.T) {
	var m Match
	require.NoError(t, json.Unmarshal([]byte(`{
		"invites": {
			"u1": {"status": "accepted", "invitedAt": 100},
			"u2": {"invitedAt": 100},
			"u3": "declined",
			"u4": true
		}
	}`), &m))

	statuses := m.InviteStatuses()
	assert.Equal(t, "accepted", statuses["u1"])
	assert.Equal(t, InviteStatusPending, statuses["u2"], "missing status defaults to pending")
	assert.Equal(t, "declined", statuses["u3"], "bare string form")
	assert.Equal(t, InviteStatusPending, statuses["u4"])
}

func TestMatch_DateTimeMillis(t *testing.T) {
	at := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)

	m := Match{DateTime: float64(at.UnixMilli())}
	millis, ok := m.DateTimeMillis()
	require.True(t, ok)
	assert.Equal(t, at.UnixMilli(), millis)

	m = Match{DateTime: at.Format(time.RFC3339)}
	millis, ok = m.DateTimeMillis()
	require.True(t, ok)
	assert.Equal(t, at.UnixMilli(), millis)

	m = Match{DateTime: "next tuesday"}
	_, ok = m.DateTimeMillis()
	assert.False(t, ok)

	m = Match{}
	_, ok = m.DateTimeMillis()
	assert.False(t, ok)
}

func TestDisplaySport(t *testing.T) {
	assert.Equal(t, "football", DisplaySport("soccer"))
	assert.Equal(t, "football", DisplaySport("Soccer"))
	assert.Equal(t, "tennis", DisplaySport("tennis"))
	assert.Equal(t, "match", DisplaySport(""))
}

func TestFriendToken_Owner(t *testing.T) {
	assert.Equal(t, "u1", (&FriendToken{UID: "u1"}).Owner())
	assert.Equal(t, "u2", (&FriendToken{OwnerUID: "u2"}).Owner())
	assert.Equal(t, "u1", (&FriendToken{UID: "u1", OwnerUID: "u2"}).Owner())
}
