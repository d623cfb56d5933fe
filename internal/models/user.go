package models

// User is the record under users/{uid}. FCMTokens is a set keyed by the
// device token; the values are client bookkeeping we never read.
type User struct {
	FCMTokens      map[string]any          `json:"fcmTokens,omitempty"`
	Notifications  map[string]Notification `json:"notifications,omitempty"`
	JoinedMatches  map[string]any          `json:"joinedMatches,omitempty"`
	MatchInvites   map[string]any          `json:"matchInvites,omitempty"`
	CreatedMatches map[string]any          `json:"createdMatches,omitempty"`
}

// FriendToken is an entry under friendTokens/{tokenId}. Older entries used
// ownerUid instead of uid for the owner.
type FriendToken struct {
	UID      string `json:"uid,omitempty"`
	OwnerUID string `json:"ownerUid,omitempty"`
}

// Owner returns the owning uid regardless of which field the entry used.
func (t *FriendToken) Owner() string {
	if t.UID != "" {
		return t.UID
	}
	return t.OwnerUID
}

// DirectoryUser is the subset of the auth directory record the backend needs.
type DirectoryUser struct {
	UID         string
	DisplayName string
	Email       string
}
