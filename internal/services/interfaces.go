package services

import (
	"context"

	"github.com/luisf/smartplayer-backend/internal/database"
	"github.com/luisf/smartplayer-backend/internal/events"
	"github.com/luisf/smartplayer-backend/internal/models"
)

// Store is the tree store the services read and write. Satisfied by
// database.RTDBStore in production and by the in-memory store in tests.
type Store = database.Store

// Directory resolves auth directory records. Lookups are best-effort: the
// account may already be gone by the time cleanup runs, so every call site
// carries an explicit fallback.
type Directory interface {
	Lookup(ctx context.Context, uid string) (*models.DirectoryUser, error)
}

// Messenger delivers one multicast push to a token set.
type Messenger interface {
	SendMulticast(ctx context.Context, tokens []string, msg database.PushMessage) (*database.PushResult, error)
}

// Publisher lets services chain follow-up events onto the bus.
type Publisher interface {
	Publish(ctx context.Context, evt events.Event) error
}

// MailStore is the Firestore boundary of the field-report mail relay.
type MailStore interface {
	QueueMail(ctx context.Context, id string, doc models.MailDocument) error
	GetFieldReport(ctx context.Context, id string) (*models.FieldReport, error)
	SetFieldReportStatus(ctx context.Context, id string, fields map[string]any) error
}
