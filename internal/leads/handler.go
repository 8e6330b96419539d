package leads

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/lironregev/studio-leads/internal/geoip"
	"github.com/lironregev/studio-leads/internal/notify"
	"github.com/lironregev/studio-leads/internal/observability/metrics"
	"github.com/lironregev/studio-leads/internal/tracking"
	"github.com/lironregev/studio-leads/pkg/logging"
)

// BoardDispatcher creates one record per lead on the external board.
type BoardDispatcher interface {
	CreateItem(ctx context.Context, itemName string, columnValues map[string]interface{}) (string, error)
}

// Notifier fires the best-effort lead alert. The call must never block the
// caller or surface errors.
type Notifier interface {
	NotifyNewLeadAsync(alert notify.LeadAlert, timeout time.Duration)
}

// SessionReader looks up a stored first-touch tracking context for the
// request's session, if any.
type SessionReader interface {
	Lookup(r *http.Request) (tracking.Context, bool)
}

// Handler ingests contact form submissions: validate, enrich with
// geolocation, dispatch to the board (awaited) and fire the email alert
// (detached).
type Handler struct {
	geo       geoip.Resolver
	board     BoardDispatcher
	notifier  Notifier
	sessions  SessionReader
	metrics   *metrics.LeadMetrics
	logger    *logging.Logger
	columnIDs ColumnIDs
	location  *time.Location
	now       func() time.Time
}

// HandlerConfig wires the handler's collaborators. Sessions and Metrics
// are optional; Timezone defaults to the local zone when empty or invalid.
type HandlerConfig struct {
	Geo       geoip.Resolver
	Board     BoardDispatcher
	Notifier  Notifier
	Sessions  SessionReader
	Metrics   *metrics.LeadMetrics
	Logger    *logging.Logger
	ColumnIDs ColumnIDs
	Timezone  string
}

// NewHandler creates the lead ingestion handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.ColumnIDs == (ColumnIDs{}) {
		cfg.ColumnIDs = DefaultColumnIDs()
	}
	loc := time.Local
	if cfg.Timezone != "" {
		if parsed, err := time.LoadLocation(cfg.Timezone); err == nil {
			loc = parsed
		}
	}
	return &Handler{
		geo:       cfg.Geo,
		board:     cfg.Board,
		notifier:  cfg.Notifier,
		sessions:  cfg.Sessions,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		columnIDs: cfg.ColumnIDs,
		location:  loc,
		now:       time.Now,
	}
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ItemID  string `json:"itemId"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Submit handles /api/contact. Cross-origin headers go on every response;
// OPTIONS short-circuits to an empty 200 and any method other than POST is
// rejected. Every external call is attempted exactly once.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return
	}

	var sub Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.logger.Error("failed to decode submission", "error", err)
		h.metrics.ObserveSubmission("bad_request")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	// First-touch attribution captured earlier in the session overrides
	// whatever the form carried.
	if h.sessions != nil {
		if stored, ok := h.sessions.Lookup(r); ok {
			sub.Context = tracking.Merge(stored, sub.Context)
		}
	}

	if err := sub.Validate(); err != nil {
		h.metrics.ObserveSubmission("invalid")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	ip := clientIP(r)

	// External calls are not cancelled by a client disconnect: once a
	// submission is accepted, the board mutation runs to completion or
	// failure on its own schedule, bounded by each client's timeout.
	ctx := context.WithoutCancel(r.Context())

	location := geoip.SentinelUnknown
	if h.geo != nil {
		location = h.geo.Resolve(ctx, ip)
	}
	h.metrics.ObserveGeoLookup(geoResult(location))

	columnValues := BuildColumnValues(&sub, ip, location, h.now().In(h.location), h.columnIDs)

	start := time.Now()
	itemID, err := h.board.CreateItem(ctx, sub.Name, columnValues)
	h.metrics.ObserveBoardLatency(time.Since(start).Seconds())
	if err != nil {
		h.logger.Error("board dispatch failed", "error", err, "name", sub.Name)
		h.metrics.ObserveSubmission("board_error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Failed to submit form",
			Details: err.Error(),
		})
		return
	}

	h.logger.Info("lead created", "item_id", itemID, "name", sub.Name, "location", location)
	h.metrics.ObserveSubmission("success")

	if h.notifier != nil {
		h.notifier.NotifyNewLeadAsync(notify.LeadAlert{
			Name:       sub.Name,
			Phone:      SanitizePhone(sub.Phone),
			Email:      sub.Email,
			Message:    sub.Message,
			Location:   location,
			PageURL:    sub.PageURL,
			ReceivedAt: h.now().In(h.location),
		}, 0)
	}

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: "Lead submitted successfully",
		ItemID:  itemID,
	})
}

// clientIP extracts the submitting client's address from proxy headers,
// falling back to the connection address, then to "Unknown".
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			return host
		}
		return r.RemoteAddr
	}
	return geoip.SentinelUnknown
}

func geoResult(location string) string {
	switch location {
	case geoip.SentinelLocal:
		return "local"
	case geoip.SentinelUnknown:
		return "unknown"
	default:
		return "resolved"
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
