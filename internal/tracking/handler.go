package tracking

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/lironregev/studio-leads/pkg/logging"
)

// SessionCookie names the cookie that keys the session attribution store.
const SessionCookie = "lead_session"

// Handler captures first-touch attribution for a browsing session and
// exposes it back to the client.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a tracking capture handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// Capture handles GET /api/tracking. It derives a Context from the
// requested page URL (`page` query param), the Referer header and the
// User-Agent, assigns a session cookie when missing, and stores the
// context first-touch. The stored context is returned as JSON.
func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(w, r)

	pageURL := r.URL.Query().Get("page")
	ctx := ParsePageURL(pageURL)
	ctx.Referrer = r.Referer()
	ctx.UserAgent = r.UserAgent()

	stored := h.store.Capture(sessionID, ctx)

	h.logger.Debug("tracking captured",
		"session_id", sessionID,
		"utm_source", stored.UTMSource,
		"page_url", stored.PageURL,
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stored)
}

// Lookup returns the stored context for the request's session, if any.
func (h *Handler) Lookup(r *http.Request) (Context, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return Context{}, false
	}
	return h.store.Get(cookie.Value)
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
