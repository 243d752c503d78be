// Package source reads recent name changes from the league Wise Old Man API.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	resty "github.com/go-resty/resty/v2"

	"github.com/roach88/namerelay/internal/namechange"
)

// PageSize is the number of name changes requested per run.
// There is no pagination: changes older than the most recent PageSize are
// never seen if more than PageSize happen between two runs.
const PageSize = 50

const searchPath = "/names"

// NameChange is a name change object as returned by the source API.
// Only OldName and NewName are forwarded; the rest is kept for logging.
type NameChange struct {
	ID        int64      `json:"id"`
	PlayerID  int64      `json:"playerId"`
	OldName   string     `json:"oldName"`
	NewName   string     `json:"newName"`
	Status    string     `json:"status"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Record converts the wire object into the relay record.
func (n NameChange) Record() namechange.Record {
	return namechange.Record{OldName: n.OldName, NewName: n.NewName}
}

// Client queries the source system.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewClient creates a client for baseURL (e.g. https://api.wiseoldman.net/league).
// userAgent identifies this relay to the API. A zero timeout leaves the
// transport default in place.
func NewClient(baseURL, userAgent string, timeout time.Duration, logger *slog.Logger) *Client {
	c := resty.New()
	c.SetBaseURL(baseURL)
	c.SetHeader("User-Agent", userAgent)
	c.SetHeader("Accept", "application/json")
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &Client{http: c, logger: logger}
}

// RecentNameChanges returns up to limit of the most recent name changes.
//
// Every failure, including transport errors, is returned as *FetchError.
func (c *Client) RecentNameChanges(ctx context.Context, limit int) ([]namechange.Record, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get(searchPath)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	c.logger.Debug("source responded",
		"method", resp.Request.Method,
		"url", resp.Request.URL,
		"status", resp.StatusCode(),
		"duration", resp.Time(),
	)

	if !resp.IsSuccess() {
		return nil, &FetchError{StatusCode: resp.StatusCode(), Message: errorMessage(resp.Body())}
	}

	var changes []NameChange
	if err := json.Unmarshal(resp.Body(), &changes); err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode(), Err: fmt.Errorf("decode name changes: %w", err)}
	}

	records := make([]namechange.Record, 0, len(changes))
	for _, n := range changes {
		records = append(records, n.Record())
	}
	if err := namechange.ValidateAll(records); err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode(), Err: err}
	}
	return records, nil
}

// errorMessage extracts "message" from a JSON error body, falling back to the raw body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return string(body)
}

// HTTPClient exposes the underlying transport client, e.g. to attach a mock.
func (c *Client) HTTPClient() *http.Client {
	return c.http.GetClient()
}
