package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lironregev/studio-leads/pkg/logging"
)

const (
	defaultResendEndpoint = "https://api.resend.com/emails"
	defaultResendTimeout  = 10 * time.Second
)

// ResendSender sends emails via the Resend transactional API.
type ResendSender struct {
	apiKey     string
	from       string
	endpoint   string
	httpClient *http.Client
	logger     *logging.Logger
}

// ResendConfig holds configuration for Resend.
type ResendConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

// NewResendSender creates a Resend email sender. Returns nil when no API
// key is configured.
func NewResendSender(cfg ResendConfig, logger *logging.Logger) *ResendSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultResendTimeout
	}
	from := cfg.FromEmail
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
	}
	return &ResendSender{
		apiKey:     cfg.APIKey,
		from:       from,
		endpoint:   defaultResendEndpoint,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// SetEndpoint overrides the Resend API endpoint (useful for testing).
func (s *ResendSender) SetEndpoint(endpoint string) {
	s.endpoint = endpoint
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// Send sends an email via Resend.
func (s *ResendSender) Send(ctx context.Context, msg EmailMessage) error {
	body, err := json.Marshal(resendRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Body,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("notify: marshal resend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: create resend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("resend send failed", "error", err, "to", msg.To)
		return fmt.Errorf("notify: resend send failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("notify: read resend response: %w", err)
	}

	if resp.StatusCode >= 400 {
		s.logger.Error("resend returned error status", "status", resp.StatusCode, "body", string(respBody), "to", msg.To)
		return fmt.Errorf("notify: resend returned status %d", resp.StatusCode)
	}

	var out resendResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return fmt.Errorf("notify: unmarshal resend response: %w", err)
	}

	s.logger.Info("email sent via resend", "to", msg.To, "subject", msg.Subject, "id", out.ID)
	return nil
}

var _ EmailSender = (*ResendSender)(nil)
