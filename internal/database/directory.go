package database

import (
	"context"

	"firebase.google.com/go/auth"

	"github.com/luisf/smartplayer-backend/internal/models"
)

// AuthDirectory resolves user records from the Firebase Auth directory.
// Lookups fail when the account no longer exists (user deletion runs after
// the auth account is gone); callers decide the fallback.
type AuthDirectory struct {
	client *auth.Client
}

func NewAuthDirectory(client *auth.Client) *AuthDirectory {
	return &AuthDirectory{client: client}
}

func (d *AuthDirectory) Lookup(ctx context.Context, uid string) (*models.DirectoryUser, error) {
	record, err := d.client.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &models.DirectoryUser{
		UID:         record.UID,
		DisplayName: record.DisplayName,
		Email:       record.Email,
	}, nil
}
