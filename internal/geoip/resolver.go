package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lironregev/studio-leads/pkg/logging"
)

const (
	defaultBaseURL = "http://ip-api.com"
	defaultTimeout = 4 * time.Second

	// SentinelLocal is returned for loopback and private-range addresses
	// without making a network call.
	SentinelLocal = "Local/Private IP"

	// SentinelUnknown is returned whenever the lookup cannot produce a
	// location: empty address, transport failure, bad status or a
	// service-reported failure.
	SentinelUnknown = "Unknown"
)

// Resolver turns a client network address into a human-readable location.
// Implementations never return an error; failures degrade to a sentinel.
type Resolver interface {
	Resolve(ctx context.Context, ip string) string
}

// Client resolves locations via the ip-api.com JSON endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a geolocation client. baseURL may be empty to use the
// public ip-api.com endpoint.
func NewClient(baseURL string, timeout time.Duration, logger *logging.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type lookupResponse struct {
	Status     string `json:"status"`
	City       string `json:"city"`
	RegionName string `json:"regionName"`
	Country    string `json:"country"`
}

// Resolve returns "city, region, country" for public addresses, omitting
// empty components. Loopback and private-range addresses short-circuit to
// SentinelLocal; every failure path returns SentinelUnknown.
func (c *Client) Resolve(ctx context.Context, ip string) string {
	// An absent address is treated like a local one: nothing to look up.
	if ip == "" || IsPrivate(ip) {
		return SentinelLocal
	}
	if ip == SentinelUnknown {
		return SentinelUnknown
	}

	endpoint := fmt.Sprintf("%s/json/%s?fields=city,country,regionName", c.baseURL, url.PathEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("geoip: create request", "error", err, "ip", ip)
		return SentinelUnknown
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("geoip: lookup failed", "error", err, "ip", ip)
		return SentinelUnknown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("geoip: unexpected status", "status", resp.StatusCode, "ip", ip)
		return SentinelUnknown
	}

	var data lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		c.logger.Warn("geoip: decode response", "error", err, "ip", ip)
		return SentinelUnknown
	}
	if data.Status == "fail" {
		return SentinelUnknown
	}

	return joinLocation(data.City, data.RegionName, data.Country)
}

// IsPrivate reports whether ip is loopback or in a private range the
// service should never look up.
func IsPrivate(ip string) bool {
	if ip == "127.0.0.1" || ip == "::1" {
		return true
	}
	return strings.HasPrefix(ip, "192.168.") || strings.HasPrefix(ip, "10.")
}

// joinLocation composes "city, region, country" skipping empty parts so
// missing subfields never leave stray separators.
func joinLocation(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return SentinelUnknown
	}
	return strings.Join(kept, ", ")
}

var _ Resolver = (*Client)(nil)
