package omdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"moviebuddy/internal/services"
)

// DefaultTimeout bounds a single lookup when no HTTP client is supplied.
const DefaultTimeout = 8 * time.Second

const maxBodyBytes = 1 << 20

// Response models the OMDb title payload. Every field is optional.
type Response struct {
	Title      string `json:"Title,omitempty"`
	Year       string `json:"Year,omitempty"`
	Genre      string `json:"Genre,omitempty"`
	Poster     string `json:"Poster,omitempty"`
	IMDbID     string `json:"imdbID,omitempty"`
	IMDbRating string `json:"imdbRating,omitempty"`
	Response   string `json:"Response,omitempty"`
	Error      string `json:"Error,omitempty"`
}

// Found reports whether OMDb matched the title. A missing Response field is
// treated as a match.
func (r *Response) Found() bool {
	return r != nil && !strings.EqualFold(r.Response, "False")
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("omdb returned status %d", e.Code)
}

// Client looks up titles against OMDb.
type Client struct {
	apiKey     string
	baseURL    *url.URL
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the timeout on the client's HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			clone := *c.httpClient
			clone.Timeout = timeout
			c.httpClient = &clone
		}
	}
}

// New creates an OMDb client. Both the API key and the base URL are required.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "omdb", "init", "api key required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "omdb", "init", "base url required", nil)
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, services.Wrap(services.ErrConfiguration, "omdb", "init", fmt.Sprintf("invalid base url %q", baseURL), err)
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Lookup fetches the OMDb record for title.
func (c *Client) Lookup(ctx context.Context, title string) (*Response, error) {
	if strings.TrimSpace(title) == "" {
		return nil, services.Wrap(services.ErrValidation, "omdb", "lookup", "title must not be empty", nil)
	}
	endpoint := *c.baseURL
	params := endpoint.Query()
	params.Set("t", title)
	params.Set("apikey", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "omdb", "build request", "", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "omdb", "lookup", fmt.Sprintf("latency=%v", latency), redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, services.Wrap(services.ErrTransport, "omdb", "lookup", fmt.Sprintf("latency=%v", latency), &StatusError{Code: resp.StatusCode})
	}

	var payload Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrService, "omdb", "decode response", "", err)
	}
	return &payload, nil
}

// redactKey strips the API key from transport errors, which embed the URL.
func redactKey(err error, key string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		redacted := *urlErr
		redacted.URL = strings.ReplaceAll(urlErr.URL, url.QueryEscape(key), "REDACTED")
		return &redacted
	}
	return err
}
