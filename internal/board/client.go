package board

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lironregev/studio-leads/pkg/logging"
)

const (
	defaultEndpoint   = "https://api.monday.com/v2"
	defaultAPIVersion = "2024-01"
	defaultTimeout    = 20 * time.Second

	mutationCreateItem = `mutation ($boardId: ID!, $itemName: String!, $columnValues: JSON!) {
  create_item (
    board_id: $boardId,
    item_name: $itemName,
    column_values: $columnValues
  ) {
    id
  }
}`
)

var (
	// ErrMissingToken means the board API credential was not configured.
	ErrMissingToken = errors.New("board: missing api token")

	// ErrMissingBoardID means no target board was configured.
	ErrMissingBoardID = errors.New("board: missing board id")
)

// Error is an application-level failure reported by the board API.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("board: api error: %s", e.Message)
}

// Client creates records on a fixed work-tracking board via its GraphQL
// HTTP API.
type Client struct {
	endpoint   string
	apiVersion string
	apiToken   string
	boardID    string
	httpClient *http.Client
	logger     *logging.Logger
}

// Config holds client settings. Endpoint and APIVersion may be empty to
// use the production defaults.
type Config struct {
	Endpoint   string
	APIVersion string
	APIToken   string
	BoardID    string
	Timeout    time.Duration
}

// NewClient creates a board API client.
func NewClient(cfg Config, logger *logging.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		apiVersion: cfg.APIVersion,
		apiToken:   cfg.APIToken,
		boardID:    cfg.BoardID,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type graphQLRequest struct {
	Query     string      `json:"query"`
	Variables interface{} `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type createItemResponse struct {
	Data struct {
		CreateItem struct {
			ID string `json:"id"`
		} `json:"create_item"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// CreateItem creates one record on the configured board and returns the
// identifier assigned by the board service. Column values are JSON-encoded
// into the mutation's columnValues variable. The call is attempted exactly
// once; there is no retry.
func (c *Client) CreateItem(ctx context.Context, itemName string, columnValues map[string]interface{}) (string, error) {
	if strings.TrimSpace(c.apiToken) == "" {
		return "", ErrMissingToken
	}
	if strings.TrimSpace(c.boardID) == "" {
		return "", ErrMissingBoardID
	}

	encoded, err := json.Marshal(columnValues)
	if err != nil {
		return "", fmt.Errorf("board: marshal column values: %w", err)
	}

	body, err := json.Marshal(graphQLRequest{
		Query: mutationCreateItem,
		Variables: map[string]interface{}{
			"boardId":      c.boardID,
			"itemName":     itemName,
			"columnValues": string(encoded),
		},
	})
	if err != nil {
		return "", fmt.Errorf("board: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("board: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiToken)
	req.Header.Set("API-Version", c.apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("board: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("board: read response: %w", err)
	}

	var out createItemResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("board: status %d: %s", resp.StatusCode, truncate(string(respBody), 300))
		}
		return "", fmt.Errorf("board: unmarshal response: %w", err)
	}

	if len(out.Errors) > 0 {
		c.logger.Error("board: api reported errors", "message", out.Errors[0].Message, "count", len(out.Errors))
		return "", &Error{Message: out.Errors[0].Message}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("board: status %d: %s", resp.StatusCode, truncate(string(respBody), 300))
	}
	if out.Data.CreateItem.ID == "" {
		return "", &Error{Message: "create_item returned empty id"}
	}

	return out.Data.CreateItem.ID, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
