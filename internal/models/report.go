package models

import "time"

// Field report lifecycle statuses.
const (
	ReportStatusPending = "pending"
	ReportStatusQueued  = "queued"
	ReportStatusFailed  = "failed"
)

// FieldReport is a document in the fieldReports Firestore collection,
// submitted by players reporting issues with a playing field.
type FieldReport struct {
	FieldID      string    `firestore:"fieldId,omitempty" json:"fieldId,omitempty"`
	FieldName    string    `firestore:"fieldName,omitempty" json:"fieldName,omitempty"`
	FieldAddress string    `firestore:"fieldAddress,omitempty" json:"fieldAddress,omitempty"`
	Category     string    `firestore:"category,omitempty" json:"category,omitempty"`
	Description  string    `firestore:"description,omitempty" json:"description,omitempty"`
	AllowContact bool      `firestore:"allowContact,omitempty" json:"allowContact,omitempty"`
	ContactName  string    `firestore:"contactName,omitempty" json:"contactName,omitempty"`
	ContactEmail string    `firestore:"contactEmail,omitempty" json:"contactEmail,omitempty"`
	TargetEmail  string    `firestore:"targetEmail,omitempty" json:"targetEmail,omitempty"`
	CreatedAt    time.Time `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
	Status       string    `firestore:"status,omitempty" json:"status,omitempty"`
}

// MailMessage is the rendered message body of a mail document, in the shape
// the mail-relay extension expects.
type MailMessage struct {
	Subject string `firestore:"subject" json:"subject"`
	HTML    string `firestore:"html" json:"html"`
	Text    string `firestore:"text" json:"text"`
}

// MailDocument is a document queued in the mail Firestore collection, keyed
// by the originating report ID. The relay picks it up and sends the email.
type MailDocument struct {
	To        []string       `firestore:"to" json:"to"`
	Message   MailMessage    `firestore:"message" json:"message"`
	ReplyTo   string         `firestore:"replyTo,omitempty" json:"replyTo,omitempty"`
	ReportID  string         `firestore:"reportId" json:"reportId"`
	CreatedAt time.Time      `firestore:"createdAt" json:"createdAt"`
	Status    string         `firestore:"status" json:"status"`
	Meta      map[string]any `firestore:"meta,omitempty" json:"meta,omitempty"`
}

// EventListing is one scraped third-party event record as delivered by the
// ingest adapter.
type EventListing struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Location    string `json:"location,omitempty"`
	DateTime    string `json:"date_time,omitempty"`
	IsRecurring bool   `json:"isRecurring,omitempty"`
}
