package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"firebase.google.com/go/auth"
	"firebase.google.com/go/db"
	"firebase.google.com/go/messaging"
	"google.golang.org/api/option"
)

// DB bundles the Firebase Admin SDK clients the backend uses: the Realtime
// Database (the shared tree store), the auth directory, FCM and the
// Firestore collections backing the mail relay.
type DB struct {
	RTDB      *db.Client
	Auth      *auth.Client
	Messaging *messaging.Client
	Firestore *firestore.Client
}

// New initializes the Admin SDK app and its clients. credentialsFile may be
// empty, in which case application-default credentials are used.
func New(ctx context.Context, projectID, databaseURL, credentialsFile string) (*DB, error) {
	conf := &firebase.Config{
		ProjectID:   projectID,
		DatabaseURL: databaseURL,
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	rtdb, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing realtime database client: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing auth client: %w", err)
	}

	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing messaging client: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing firestore client: %w", err)
	}

	return &DB{
		RTDB:      rtdb,
		Auth:      authClient,
		Messaging: msgClient,
		Firestore: fsClient,
	}, nil
}

// Close releases the clients that hold connections.
func (d *DB) Close() {
	if d.Firestore != nil {
		_ = d.Firestore.Close()
	}
}
