package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/luisf/smartplayer-backend/internal/database"
	"github.com/luisf/smartplayer-backend/internal/events"
	"github.com/luisf/smartplayer-backend/internal/models"
)

// MockDirectory mocks the auth directory lookup
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) Lookup(ctx context.Context, uid string) (*models.DirectoryUser, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DirectoryUser), args.Error(1)
}

// MockMessenger mocks the FCM multicast sender
type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) SendMulticast(ctx context.Context, tokens []string, msg database.PushMessage) (*database.PushResult, error) {
	args := m.Called(ctx, tokens, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.PushResult), args.Error(1)
}

// MockPublisher mocks the event bus and records published events
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, evt events.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

// Published returns the events recorded across all Publish calls.
func (m *MockPublisher) Published() []events.Event {
	var out []events.Event
	for _, call := range m.Calls {
		if call.Method != "Publish" {
			continue
		}
		out = append(out, call.Arguments.Get(1).(events.Event))
	}
	return out
}

// MockMailStore mocks the Firestore mail boundary
type MockMailStore struct {
	mock.Mock
}

func (m *MockMailStore) QueueMail(ctx context.Context, id string, doc models.MailDocument) error {
	args := m.Called(ctx, id, doc)
	return args.Error(0)
}

func (m *MockMailStore) GetFieldReport(ctx context.Context, id string) (*models.FieldReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FieldReport), args.Error(1)
}

func (m *MockMailStore) SetFieldReportStatus(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

// MockFieldReportService mocks the report service behind the admin handler
type MockFieldReportService struct {
	mock.Mock
}

func (m *MockFieldReportService) Reprocess(ctx context.Context, reportID string) error {
	args := m.Called(ctx, reportID)
	return args.Error(0)
}

// MockIngestService mocks the listings ingest service
type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) StoreListings(ctx context.Context, listings []models.EventListing) error {
	args := m.Called(ctx, listings)
	return args.Error(0)
}
