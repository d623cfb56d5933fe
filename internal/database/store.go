package database

import (
	"context"

	"firebase.google.com/go/db"
)

// Store is the tree-structured key-value store the trigger handlers operate
// on. Paths are slash-separated from the root. Update applies all paths in
// one atomic write; a nil value deletes the path. Either every path in an
// Update changes or none do.
type Store interface {
	Get(ctx context.Context, path string, v any) error
	Exists(ctx context.Context, path string) (bool, error)
	Set(ctx context.Context, path string, v any) error
	Update(ctx context.Context, updates map[string]any) error
	Delete(ctx context.Context, path string) error
}

// RTDBStore implements Store on the Firebase Realtime Database.
type RTDBStore struct {
	client *db.Client
}

func NewRTDBStore(client *db.Client) *RTDBStore {
	return &RTDBStore{client: client}
}

func (s *RTDBStore) Get(ctx context.Context, path string, v any) error {
	return s.client.NewRef(path).Get(ctx, v)
}

func (s *RTDBStore) Exists(ctx context.Context, path string) (bool, error) {
	var raw any
	if err := s.client.NewRef(path).Get(ctx, &raw); err != nil {
		return false, err
	}
	return raw != nil, nil
}

func (s *RTDBStore) Set(ctx context.Context, path string, v any) error {
	return s.client.NewRef(path).Set(ctx, v)
}

func (s *RTDBStore) Update(ctx context.Context, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return s.client.NewRef("").Update(ctx, updates)
}

func (s *RTDBStore) Delete(ctx context.Context, path string) error {
	return s.client.NewRef(path).Delete(ctx)
}
