package services

import (
	"context"

	"github.com/luisf/smartplayer-backend/internal/database"
)

// TokenService reads and prunes a user's push-delivery tokens under
// users/{uid}/fcmTokens. Tokens are the map keys; the values are client
// bookkeeping.
type TokenService struct {
	store Store
}

func NewTokenService(store Store) *TokenService {
	return &TokenService{store: store}
}

func (s *TokenService) Tokens(ctx context.Context, uid string) ([]string, error) {
	var raw map[string]any
	if err := s.store.Get(ctx, database.UserTokensPath(uid), &raw); err != nil {
		return nil, err
	}
	tokens := make([]string, 0, len(raw))
	for token := range raw {
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// PruneStale removes exactly the given tokens from the user's token set in
// one atomic update.
func (s *TokenService) PruneStale(ctx context.Context, uid string, stale []string) error {
	if len(stale) == 0 {
		return nil
	}
	updates := make(map[string]any, len(stale))
	for _, token := range stale {
		updates[database.UserTokenPath(uid, token)] = nil
	}
	return s.store.Update(ctx, updates)
}
