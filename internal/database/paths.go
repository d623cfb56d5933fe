package database

import "fmt"

// Path helpers for the Realtime Database tree. Keeping these in one place is
// what makes the multi-path updates auditable.

func MatchPath(matchID string) string {
	return fmt.Sprintf("matches/%s", matchID)
}

func MatchVersionPath(matchID string) string {
	return fmt.Sprintf("matches/%s/version", matchID)
}

func MatchUpdatedAtPath(matchID string) string {
	return fmt.Sprintf("matches/%s/updatedAt", matchID)
}

func MatchInvitePath(matchID, uid string) string {
	return fmt.Sprintf("matches/%s/invites/%s", matchID, uid)
}

func MatchPlayersPath(matchID string) string {
	return fmt.Sprintf("matches/%s/players", matchID)
}

func MatchPlayerPath(matchID, uid string) string {
	return fmt.Sprintf("matches/%s/players/%s", matchID, uid)
}

func MatchCurrentPlayersPath(matchID string) string {
	return fmt.Sprintf("matches/%s/currentPlayers", matchID)
}

func UserTokensPath(uid string) string {
	return fmt.Sprintf("users/%s/fcmTokens", uid)
}

func UserTokenPath(uid, token string) string {
	return fmt.Sprintf("users/%s/fcmTokens/%s", uid, token)
}

func UserNotificationPath(uid, notificationID string) string {
	return fmt.Sprintf("users/%s/notifications/%s", uid, notificationID)
}

func UserJoinedMatchPath(uid, matchID string) string {
	return fmt.Sprintf("users/%s/joinedMatches/%s", uid, matchID)
}

func UserMatchInvitePath(uid, matchID string) string {
	return fmt.Sprintf("users/%s/matchInvites/%s", uid, matchID)
}

func UserCreatedMatchPath(uid, matchID string) string {
	return fmt.Sprintf("users/%s/createdMatches/%s", uid, matchID)
}

func PublicProfilePath(uid string) string {
	return fmt.Sprintf("publicProfiles/%s", uid)
}

func EmailHashIndexPath(hash string) string {
	return fmt.Sprintf("usersByEmailHash/%s", hash)
}

func DisplayNameIndexPath(nameLower, uid string) string {
	return fmt.Sprintf("usersByDisplayNameLower/%s/%s", nameLower, uid)
}

func FriendTokenPath(tokenID string) string {
	return fmt.Sprintf("friendTokens/%s", tokenID)
}

func PendingInviteIndexPath(uid string) string {
	return fmt.Sprintf("pendingInviteIndex/%s", uid)
}

func PendingInviteEntryPath(uid, matchID string) string {
	return fmt.Sprintf("pendingInviteIndex/%s/%s", uid, matchID)
}

func MailNotificationPath(notificationID string) string {
	return fmt.Sprintf("mail/notifications/%s", notificationID)
}

func MailProcessedPath(notificationID string) string {
	return fmt.Sprintf("mail/processed/%s", notificationID)
}

func NotificationRequestPath(requestID string) string {
	return fmt.Sprintf("notification_requests/%s", requestID)
}

func SlotPath(date, field, timeSlot string) string {
	return fmt.Sprintf("slots/%s/%s/%s", date, field, timeSlot)
}
