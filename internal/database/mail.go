package database

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/luisf/smartplayer-backend/internal/models"
)

const (
	mailCollection         = "mail"
	fieldReportsCollection = "fieldReports"
)

// FirestoreMail backs the field-report mail relay: the fieldReports
// collection holds submitted reports, the mail collection is the outbox the
// relay extension delivers from.
type FirestoreMail struct {
	client *firestore.Client
}

func NewFirestoreMail(client *firestore.Client) *FirestoreMail {
	return &FirestoreMail{client: client}
}

func (f *FirestoreMail) QueueMail(ctx context.Context, id string, doc models.MailDocument) error {
	_, err := f.client.Collection(mailCollection).Doc(id).Set(ctx, doc)
	return err
}

func (f *FirestoreMail) GetFieldReport(ctx context.Context, id string) (*models.FieldReport, error) {
	snap, err := f.client.Collection(fieldReportsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, err
	}
	var report models.FieldReport
	if err := snap.DataTo(&report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (f *FirestoreMail) SetFieldReportStatus(ctx context.Context, id string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	_, err := f.client.Collection(fieldReportsCollection).Doc(id).Update(ctx, updates)
	return err
}
