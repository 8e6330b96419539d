package tracking

import "net/url"

// Context carries first-touch campaign attribution and page context for one
// browsing session. Field names match the form submission payload.
type Context struct {
	UTMSource   string `json:"utmSource,omitempty"`
	UTMMedium   string `json:"utmMedium,omitempty"`
	UTMCampaign string `json:"utmCampaign,omitempty"`
	UTMTerm     string `json:"utmTerm,omitempty"`
	UTMContent  string `json:"utmContent,omitempty"`
	Referrer    string `json:"referrer,omitempty"`
	PageURL     string `json:"pageUrl,omitempty"`
	UserAgent   string `json:"userAgent,omitempty"`
}

// IsZero reports whether no attribution or page context was captured.
func (c Context) IsZero() bool {
	return c == Context{}
}

// ParsePageURL extracts utm_* campaign parameters from a landing URL.
// The page URL itself is recorded as-is; a malformed URL yields a context
// holding only the raw page URL.
func ParsePageURL(pageURL string) Context {
	ctx := Context{PageURL: pageURL}
	u, err := url.Parse(pageURL)
	if err != nil {
		return ctx
	}
	q := u.Query()
	ctx.UTMSource = q.Get("utm_source")
	ctx.UTMMedium = q.Get("utm_medium")
	ctx.UTMCampaign = q.Get("utm_campaign")
	ctx.UTMTerm = q.Get("utm_term")
	ctx.UTMContent = q.Get("utm_content")
	return ctx
}

// Merge combines a stored first-touch context with values submitted later
// in the same session. Stored values win field-by-field; submitted values
// only fill gaps, so first-touch attribution is preserved.
func Merge(stored, submitted Context) Context {
	out := stored
	if out.UTMSource == "" {
		out.UTMSource = submitted.UTMSource
	}
	if out.UTMMedium == "" {
		out.UTMMedium = submitted.UTMMedium
	}
	if out.UTMCampaign == "" {
		out.UTMCampaign = submitted.UTMCampaign
	}
	if out.UTMTerm == "" {
		out.UTMTerm = submitted.UTMTerm
	}
	if out.UTMContent == "" {
		out.UTMContent = submitted.UTMContent
	}
	if out.Referrer == "" {
		out.Referrer = submitted.Referrer
	}
	if out.PageURL == "" {
		out.PageURL = submitted.PageURL
	}
	if out.UserAgent == "" {
		out.UserAgent = submitted.UserAgent
	}
	return out
}
