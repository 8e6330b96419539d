package leads

import (
	"strings"
	"unicode"

	"github.com/lironregev/studio-leads/internal/tracking"
)

const maxUserAgentLen = 500

// Submission is the contact form payload: the visitor's details plus the
// tracking context captured client-side.
type Submission struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Message string `json:"message,omitempty"`

	tracking.Context
}

// Validate checks the only required fields. Email format and phone length
// are deliberately not validated.
func (s *Submission) Validate() error {
	if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.Phone) == "" {
		return ErrMissingRequired
	}
	return nil
}

// SanitizePhone strips every non-digit character, e.g.
// "050-123-4567" -> "0501234567".
func SanitizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TruncateUserAgent limits a user-agent string to the board column's size.
func TruncateUserAgent(ua string) string {
	if len(ua) > maxUserAgentLen {
		return ua[:maxUserAgentLen]
	}
	return ua
}

// CampaignDetail folds campaign name, term and content into the board's
// single campaign-detail column, joining non-empty values with " | ".
func CampaignDetail(campaign, term, content string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{campaign, term, content} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " | ")
}
