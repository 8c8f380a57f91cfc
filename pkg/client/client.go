// Package client fetches one encoded catalog payload over HTTP and decodes
// it into the in-memory object graph.
//
// The transport half retries transient failures with exponential backoff;
// the decode half is delegated entirely to [codec]. A fetch either yields a
// complete validated graph or an error, never a partial result.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bookwire/bookwire/pkg/catalog"
	"github.com/bookwire/bookwire/pkg/codec"
	"github.com/bookwire/bookwire/pkg/errors"
)

// Client fetches catalog payloads from one bookwire server.
type Client struct {
	baseURL string
	http    *http.Client
	// Retry policy for transient transport failures.
	attempts int
	delay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetry sets the attempt count and initial backoff delay.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) { c.attempts = attempts; c.delay = delay }
}

// New creates a client for the server at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: 30 * time.Second},
		attempts: 3,
		delay:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchBytes retrieves the raw encoded payload for one format.
func (c *Client) FetchBytes(ctx context.Context, format string) ([]byte, error) {
	cdc, err := codec.ByName(format)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/catalog/%s", c.baseURL, cdc.Name())
	var data []byte

	err = retry(ctx, c.attempts, c.delay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "build request")
		}
		req.Header.Set("Accept", cdc.ContentType())

		resp, err := c.http.Do(req)
		if err != nil {
			return &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)}
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "fetch %s: status %d", url, resp.StatusCode)}
		case resp.StatusCode == http.StatusNotFound:
			return errors.New(errors.ErrCodeNotFound, "fetch %s: status 404", url)
		case resp.StatusCode != http.StatusOK:
			return errors.New(errors.ErrCodeNetwork, "fetch %s: status %d", url, resp.StatusCode)
		}

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", url)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// FetchGraph retrieves and decodes one format's payload into the full
// object graph.
func (c *Client) FetchGraph(ctx context.Context, format string) (*catalog.Graph, error) {
	cdc, err := codec.ByName(format)
	if err != nil {
		return nil, err
	}
	data, err := c.FetchBytes(ctx, format)
	if err != nil {
		return nil, err
	}
	return cdc.Decode(data)
}
