// Package graphql is the client of the commerce platform's GraphQL API.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"return_app/internal/core/domain"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

type Config struct {
	Endpoint string
	Timeout  time.Duration
	// AuthHeader carries the shopper token on every call, e.g. "VtexIdclientAutCookie".
	AuthHeader string
	AppToken   string
}

type Client struct {
	endpoint   string
	http       *http.Client
	authHeader string
	appToken   string
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	header := cfg.AuthHeader
	if header == "" {
		header = "Authorization"
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		http:       &http.Client{Timeout: timeout},
		authHeader: header,
		appToken:   cfg.AppToken,
	}
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage       `json:"data"`
	Errors []domain.GraphQLError `json:"errors"`
}

// Do runs one operation and decodes "data" into out. A non-empty "errors"
// list is returned as *domain.GatewayError even when partial data came back.
func (c *Client) Do(ctx context.Context, op, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: new request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if tok := domain.CustomerToken(ctx); tok != "" {
		req.Header.Set(c.authHeader, tok)
	}
	if c.appToken != "" {
		req.Header.Set("X-App-Token", c.appToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}

	var gr response
	if err := json.Unmarshal(raw, &gr); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("%s: http status %d", op, resp.StatusCode)
		}
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	if len(gr.Errors) > 0 {
		return &domain.GatewayError{Op: op, Errors: gr.Errors}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s: http status %d", op, resp.StatusCode)
	}
	if out == nil || len(gr.Data) == 0 || string(gr.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(gr.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", op, err)
	}
	return nil
}
