// Package destination submits name changes to the main Wise Old Man API.
package destination

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	resty "github.com/go-resty/resty/v2"

	"github.com/roach88/namerelay/internal/namechange"
)

const bulkPath = "/names/bulk"

// Response is the raw outcome of a bulk submission.
type Response struct {
	StatusCode int
	Body       string
}

// Accepted reports whether the destination now holds every submitted record.
//
// 201 means new records were created. 400 is what the API answers when every
// submitted name change is already pending or approved; the records are known
// to the destination either way.
func (r Response) Accepted() bool {
	return r.StatusCode == http.StatusCreated || r.StatusCode == http.StatusBadRequest
}

// Client submits records to the destination system.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewClient creates a client for baseURL (e.g. https://api.wiseoldman.net/v2).
// A zero timeout leaves the transport default in place.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	c := resty.New()
	c.SetBaseURL(baseURL)
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &Client{http: c, logger: logger}
}

// SubmitBulk posts all records as one JSON array.
//
// Any HTTP status is returned as a Response with a nil error; only transport
// failures produce an error. Callers decide with Response.Accepted.
func (c *Client) SubmitBulk(ctx context.Context, records []namechange.Record) (Response, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(records).
		Post(bulkPath)
	if err != nil {
		return Response{}, fmt.Errorf("submit %d name change(s): %w", len(records), err)
	}

	c.logger.Debug("destination responded",
		"method", resp.Request.Method,
		"url", resp.Request.URL,
		"status", resp.StatusCode(),
		"duration", resp.Time(),
	)

	return Response{StatusCode: resp.StatusCode(), Body: resp.String()}, nil
}

// HTTPClient exposes the underlying transport client, e.g. to attach a mock.
func (c *Client) HTTPClient() *http.Client {
	return c.http.GetClient()
}
