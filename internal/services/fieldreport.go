package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/luisf/smartplayer-backend/internal/events"
	"github.com/luisf/smartplayer-backend/internal/models"

	log "github.com/sirupsen/logrus"
)

var ErrReportNotFound = errors.New("field report not found")

// FieldReportService turns submitted field-issue reports into queued mail
// documents for the relay extension and tracks the report status.
type FieldReportService struct {
	mail          MailStore
	fallbackEmail string
	now           func() time.Time
}

func NewFieldReportService(mail MailStore, fallbackEmail string) *FieldReportService {
	return &FieldReportService{mail: mail, fallbackEmail: fallbackEmail, now: time.Now}
}

// HandleFieldReportCreated is the bus subscriber for new field reports. On
// failure the report is marked failed before the error propagates.
func (s *FieldReportService) HandleFieldReportCreated(ctx context.Context, evt events.Event) error {
	data, ok := evt.Data.(events.FieldReportCreated)
	if !ok {
		return nil
	}
	if err := s.Process(ctx, data.ReportID, &data.Report); err != nil {
		markErr := s.mail.SetFieldReportStatus(ctx, data.ReportID, map[string]any{
			"status":     models.ReportStatusFailed,
			"emailError": err.Error(),
		})
		if markErr != nil {
			log.WithField("reportId", data.ReportID).WithError(markErr).Error("marking field report failed")
		}
		return err
	}
	return nil
}

// Process renders the report into an email, queues it in the mail collection
// keyed by the report ID, and marks the report queued.
func (s *FieldReportService) Process(ctx context.Context, reportID string, report *models.FieldReport) error {
	createdAt := report.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	target := strings.TrimSpace(report.TargetEmail)
	if target == "" {
		target = s.fallbackEmail
	}

	subject := report.FieldName
	if subject == "" {
		subject = report.FieldID
	}
	if subject == "" {
		subject = "New issue"
	}

	doc := models.MailDocument{
		To: []string{target},
		Message: models.MailMessage{
			Subject: fmt.Sprintf("Field report: %s", subject),
			HTML:    renderFieldReportHTML(reportID, report, createdAt),
			Text:    renderFieldReportText(reportID, report, createdAt),
		},
		ReportID:  reportID,
		CreatedAt: s.now(),
		Status:    models.ReportStatusPending,
		Meta: map[string]any{
			"fieldId":  report.FieldID,
			"category": report.Category,
		},
	}
	if report.AllowContact && report.ContactEmail != "" {
		doc.ReplyTo = report.ContactEmail
	}

	if err := s.mail.QueueMail(ctx, reportID, doc); err != nil {
		return fmt.Errorf("queueing field report email: %w", err)
	}
	log.WithFields(log.Fields{"reportId": reportID, "to": target}).Info("queued field report email")

	return s.mail.SetFieldReportStatus(ctx, reportID, map[string]any{
		"status":        models.ReportStatusQueued,
		"emailQueuedAt": s.now(),
	})
}

// Reprocess re-reads a stuck report and runs Process on it. Backs the manual
// administrative endpoint.
func (s *FieldReportService) Reprocess(ctx context.Context, reportID string) error {
	report, err := s.mail.GetFieldReport(ctx, reportID)
	if err != nil {
		return ErrReportNotFound
	}
	return s.Process(ctx, reportID, report)
}

func formatReportDate(t time.Time) string {
	return t.Format("02-01-2006 15:04")
}

func renderFieldReportHTML(reportID string, report *models.FieldReport, createdAt time.Time) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; line-height:1.6;">`)
	b.WriteString(`<h2 style="margin-bottom: 8px;">New field issue report</h2>`)
	if report.FieldName != "" {
		fmt.Fprintf(&b, "<p><strong>Field:</strong> %s</p>", report.FieldName)
	}
	if report.FieldAddress != "" {
		fmt.Fprintf(&b, "<p><strong>Address:</strong> %s</p>", report.FieldAddress)
	}
	if report.FieldID != "" {
		fmt.Fprintf(&b, "<p><strong>Field ID:</strong> %s</p>", report.FieldID)
	}
	fmt.Fprintf(&b, "<p><strong>Category:</strong> %s</p>", orDash(report.Category))
	fmt.Fprintf(&b, "<p><strong>Submitted:</strong> %s</p>", formatReportDate(createdAt))
	b.WriteString("<p><strong>Description:</strong></p>")
	fmt.Fprintf(&b, `<p style="white-space:pre-wrap;background:#f7f7f7;padding:12px;border-radius:6px;border:1px solid #eee;">%s</p>`, orDash(report.Description))
	if report.AllowContact && report.ContactEmail != "" {
		name := report.ContactName
		if name == "" {
			name = report.ContactEmail
		}
		fmt.Fprintf(&b, "<p><strong>Contact:</strong> %s (%s)</p>", name, report.ContactEmail)
	}
	b.WriteString(`<hr style="margin:24px 0;border:none;border-top:1px solid #e0e0e0;" />`)
	fmt.Fprintf(&b, `<p style="font-size:12px;color:#888;">Reported via SMARTPLAYER. Document ID: %s</p>`, reportID)
	b.WriteString("</div>")
	return b.String()
}

func renderFieldReportText(reportID string, report *models.FieldReport, createdAt time.Time) string {
	lines := []string{
		"New field issue report",
		"Field: " + orDash(report.FieldName),
		"Address: " + orDash(report.FieldAddress),
		"Field ID: " + orDash(report.FieldID),
		"Category: " + orDash(report.Category),
		"Submitted: " + formatReportDate(createdAt),
		"",
		"Description:",
		orDash(report.Description),
	}
	if report.AllowContact && report.ContactEmail != "" {
		name := report.ContactName
		if name == "" {
			name = report.ContactEmail
		}
		lines = append(lines, "", fmt.Sprintf("Contact: %s (%s)", name, report.ContactEmail))
	}
	lines = append(lines, "", "Reported via SMARTPLAYER. Document ID: "+reportID)
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
