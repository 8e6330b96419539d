package leads

import "time"

// ColumnIDs maps logical lead fields to the board's opaque column
// identifiers.
type ColumnIDs struct {
	Phone       string
	Email       string
	Message     string
	IPAddress   string
	Location    string
	UserAgent   string
	Referrer    string
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
	PageURL     string
	SubmittedAt string
}

// DefaultColumnIDs returns the column mapping of the production board.
func DefaultColumnIDs() ColumnIDs {
	return ColumnIDs{
		Phone:       "phone_mm02wsp0",
		Email:       "email_mm02pr2q",
		Message:     "long_text_mm021vmw",
		IPAddress:   "text_mm02jeyj",
		Location:    "text_mm02xq6k",
		UserAgent:   "text_mm029ehw",
		Referrer:    "text_mm02t2x3",
		UTMSource:   "text_mm02byrq",
		UTMMedium:   "text_mm02k300",
		UTMCampaign: "text_mm02drw6",
		PageURL:     "text_mm0251d",
		SubmittedAt: "date_mm02jwgy",
	}
}

// BuildColumnValues assembles the board record for one submission. Plain
// text columns always carry a value (possibly empty); typed columns
// (email, message) are included only when the source field is present,
// because the board rejects empty typed values. The date column holds the
// calendar date only.
func BuildColumnValues(sub *Submission, ip, location string, now time.Time, ids ColumnIDs) map[string]interface{} {
	values := map[string]interface{}{
		ids.Phone:       SanitizePhone(sub.Phone),
		ids.IPAddress:   ip,
		ids.Location:    location,
		ids.UserAgent:   TruncateUserAgent(sub.UserAgent),
		ids.Referrer:    sub.Referrer,
		ids.UTMSource:   sub.UTMSource,
		ids.UTMMedium:   sub.UTMMedium,
		ids.UTMCampaign: CampaignDetail(sub.UTMCampaign, sub.UTMTerm, sub.UTMContent),
		ids.PageURL:     sub.PageURL,
		ids.SubmittedAt: map[string]string{"date": now.Format("2006-01-02")},
	}

	if sub.Email != "" {
		values[ids.Email] = map[string]string{"email": sub.Email, "text": sub.Email}
	}
	if sub.Message != "" {
		values[ids.Message] = map[string]string{"text": sub.Message}
	}

	return values
}
