// Package httpclient provides basic http functions
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

// DefaultTimeout bounds a request when no timeout is configured
const DefaultTimeout = 10 * time.Second

// StatusError is returned when a server answers with a status outside of 2xx
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s from %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// Client performs GET requests bounded by a timeout
type Client struct {
	log  *log.Logger
	http *http.Client
}

// New creates a Client, a timeout of zero or less uses DefaultTimeout
func New(log *log.Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		log:  log,
		http: &http.Client{Timeout: timeout},
	}
}

// GetBytes pulls the body of url using a simple GET request.
// Responses with a status outside of 2xx produce a *StatusError
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		innerErr := resp.Body.Close()
		if innerErr != nil {
			c.log.Printf("error closing http response body. error: %v\n", innerErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
