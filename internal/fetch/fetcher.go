// Package fetch downloads the remote snapshot with a single HTTP GET.
//
// No retries, no conditional headers, no authentication. Any non-2xx status
// or transport failure is returned as a *TransportError.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// Result is the outcome of a successful fetch.
type Result struct {
	Body       []byte
	StatusCode int
	Hash       string // SHA-256 of Body, hex encoded
}

// Config configures the fetcher.
type Config struct {
	Timeout  time.Duration // Default: 60s.
	MaxBytes int64         // Default: 64 MiB.
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 64 << 20
	}
}

// TransportError is a network or HTTP status failure.
type TransportError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Status     string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s for url: %s", e.Status, e.URL)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err is, or wraps, a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// ErrBodyTooLarge is wrapped by a TransportError when the body exceeds MaxBytes.
var ErrBodyTooLarge = errors.New("response body exceeds size limit")

// Fetcher performs the per-cycle GET.
type Fetcher struct {
	client *http.Client
	config Config
}

// New creates a Fetcher whose transport negotiates HTTP/2 when the server offers it.
func New(cfg Config) *Fetcher {
	cfg.defaults()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	// ConfigureTransport only fails if the transport is already configured.
	_ = http2.ConfigureTransport(transport)

	return &Fetcher{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		config: cfg,
	}
}

// NewWithClient creates a Fetcher using the provided client.
// Used by tests with httptest servers.
func NewWithClient(client *http.Client, cfg Config) *Fetcher {
	cfg.defaults()
	return &Fetcher{client: client, config: cfg}
}

// Fetch issues one GET to url and returns the full body.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("new request: %w", err)}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &TransportError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Err:        fmt.Errorf("http %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBytes+1))
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > f.config.MaxBytes {
		return nil, &TransportError{URL: url, Err: ErrBodyTooLarge}
	}

	h := sha256.Sum256(body)
	return &Result{
		Body:       body,
		StatusCode: resp.StatusCode,
		Hash:       hex.EncodeToString(h[:]),
	}, nil
}

func statusText(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
