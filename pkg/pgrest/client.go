// Package pgrest is a thin client for the remote store's restricted query
// protocol: single-table reads and writes with point filters (eq, ilike,
// in-set), no joins, no transactions, no server-side aggregates. Row-level
// authorization is evaluated by the store from the bearer token attached to
// each request, so every client instance is scoped to exactly one principal
// and one inbound request.
package pgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
)

const defaultTimeout = 15 * time.Second

type Config struct {
	// BaseURL points at the protocol root, e.g. https://acme.example.co/rest/v1.
	BaseURL string
	// APIKey is the public project key sent with every request. It carries no
	// principal identity; authorization comes from the per-request bearer token.
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	base   *url.URL
	apiKey string
	token  string
	http   *http.Client
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, gerrors.New("pgrest: base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, gerrors.Wrap(err, "pgrest: invalid base URL")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base:   base,
		apiKey: cfg.APIKey,
		http:   &http.Client{Timeout: timeout},
	}, nil
}

// WithToken returns a copy of the client bound to the given bearer token.
// The receiver is not mutated; the base client stays credential-free and may
// be shared across requests.
func (c *Client) WithToken(token string) *Client {
	scoped := *c
	scoped.token = token
	return &scoped
}

// Ready reports whether the client can reach the store at all. A zero Client
// (configuration never loaded) is not ready.
func (c *Client) Ready() bool {
	return c != nil && c.base != nil && c.http != nil
}

func (c *Client) Authenticated() bool {
	return c != nil && c.token != ""
}

func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table, params: url.Values{}}
}

func (c *Client) do(ctx context.Context, method, table string, params url.Values, body, dst any, prefer string) error {
	if !c.Ready() {
		return gerrors.New("pgrest: client not initialized")
	}

	endpoint := *c.base
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + "/" + table
	endpoint.RawQuery = params.Encode()

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return gerrors.Wrap(err, "pgrest: encode request body")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reqBody)
	if err != nil {
		return gerrors.Wrap(err, "pgrest: build request")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return gerrors.Wrap(err, "pgrest: request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return gerrors.Wrap(err, "pgrest: read response")
	}

	if resp.StatusCode >= 400 {
		return decodeStoreError(resp.StatusCode, payload)
	}

	if dst == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return gerrors.Wrap(err, "pgrest: decode response")
	}
	return nil
}
