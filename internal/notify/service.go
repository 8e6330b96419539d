package notify

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/lironregev/studio-leads/internal/observability/metrics"
	"github.com/lironregev/studio-leads/pkg/logging"
)

// LeadAlert carries the normalized lead details rendered into the alert
// email.
type LeadAlert struct {
	Name       string
	Phone      string // sanitized, digits only
	Email      string
	Message    string
	Location   string
	PageURL    string
	ReceivedAt time.Time
}

// Service sends best-effort lead alert emails to a fixed recipient list.
// When no sender or recipients are configured every notification is a
// logged no-op.
type Service struct {
	sender     EmailSender
	recipients []string
	metrics    *metrics.LeadMetrics
	logger     *logging.Logger
}

// NewService creates a notification service. sender may be nil when email
// notifications are disabled; m may be nil when metrics are not collected.
func NewService(sender EmailSender, recipients []string, m *metrics.LeadMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		sender:     sender,
		recipients: recipients,
		metrics:    m,
		logger:     logger,
	}
}

// NotifyNewLead renders and sends the alert for one lead. Unconfigured
// notifications return nil. The caller decides whether a failure matters;
// the ingestion path never does.
func (s *Service) NotifyNewLead(ctx context.Context, alert LeadAlert) error {
	if s.sender == nil || len(s.recipients) == 0 {
		s.logger.Info("email notifications not configured - skipping", "lead", alert.Name)
		s.metrics.ObserveNotification("skipped")
		return nil
	}

	msg := EmailMessage{
		To:      s.recipients,
		Subject: fmt.Sprintf("New lead: %s - %s", alert.Name, alert.Phone),
		Body:    renderText(alert),
		HTML:    renderHTML(alert),
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		s.metrics.ObserveNotification("failed")
		return fmt.Errorf("notify: send lead alert: %w", err)
	}
	s.metrics.ObserveNotification("sent")
	return nil
}

// NotifyNewLeadAsync fires the notification in a goroutine. The result is
// discarded; failures and panics are logged and never reach the caller.
func (s *Service) NotifyNewLeadAsync(alert LeadAlert, timeout time.Duration) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("lead notification panicked", "panic", rec, "lead", alert.Name)
				s.metrics.ObserveNotification("failed")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := s.NotifyNewLead(ctx, alert); err != nil {
			s.logger.Error("lead notification failed", "error", err, "lead", alert.Name)
		}
	}()
}

func renderText(alert LeadAlert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New lead received!\n\n")
	fmt.Fprintf(&b, "Name: %s\n", alert.Name)
	fmt.Fprintf(&b, "Phone: %s\n", alert.Phone)
	if alert.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", alert.Email)
	}
	if alert.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", alert.Message)
	}
	fmt.Fprintf(&b, "Location: %s\n", orUnavailable(alert.Location))
	fmt.Fprintf(&b, "Received: %s\n", alert.ReceivedAt.Format("Monday, January 2 2006 at 15:04"))
	if alert.PageURL != "" {
		fmt.Fprintf(&b, "Source page: %s\n", alert.PageURL)
	}
	b.WriteString("\nAction required: contact this lead as soon as possible.\n")
	return b.String()
}

var htmlTemplate = template.Must(template.New("leadAlert").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; background-color: #f5f5f5; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 12px; overflow: hidden;">
    <div style="background: #667eea; color: white; padding: 30px; text-align: center;">
      <h1 style="margin: 0;">New lead received!</h1>
      <p style="margin: 10px 0 0;">Someone is interested in your services</p>
    </div>
    <div style="padding: 30px;">
      <p><strong>Name:</strong> {{.Name}}</p>
      <p><strong>Phone:</strong> <a href="tel:{{.Phone}}">{{.Phone}}</a></p>
      {{if .Email}}<p><strong>Email:</strong> {{.Email}}</p>{{end}}
      {{if .Message}}<p><strong>Message:</strong> {{.Message}}</p>{{end}}
      <p><strong>Location:</strong> {{.LocationDisplay}}</p>
      <p><strong>Received:</strong> {{.Received}}</p>
      {{if .PageURL}}<p><strong>Source page:</strong> {{.PageURL}}</p>{{end}}
      <p style="text-align: center; margin-top: 20px;">
        <a href="tel:{{.Phone}}" style="background: #667eea; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px;">Call now</a>
      </p>
    </div>
    <div style="padding: 20px; text-align: center; color: #666; font-size: 12px; border-top: 1px solid #eee;">
      Action required: contact this lead as soon as possible.
    </div>
  </div>
</body>
</html>`))

func renderHTML(alert LeadAlert) string {
	data := struct {
		LeadAlert
		LocationDisplay string
		Received        string
	}{
		LeadAlert:       alert,
		LocationDisplay: orUnavailable(alert.Location),
		Received:        alert.ReceivedAt.Format("Monday, January 2 2006 at 15:04"),
	}

	var b strings.Builder
	if err := htmlTemplate.Execute(&b, data); err != nil {
		// Fall back to the plain-text body on render failure.
		return ""
	}
	return b.String()
}

func orUnavailable(s string) string {
	if s == "" {
		return "Unavailable"
	}
	return s
}
