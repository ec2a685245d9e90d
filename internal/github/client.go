// Package github provides a minimal client for the GitHub REST API search and
// user endpoints. Response bodies are returned untouched.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public GitHub REST API.
	DefaultBaseURL = "https://api.github.com"

	// DefaultSearchType is searched when the caller does not pick one.
	DefaultSearchType = "repositories"

	acceptHeader = "application/vnd.github.v3+json"
)

// SearchTypes are the search endpoints the client accepts.
var SearchTypes = []string{"repositories", "code", "issues", "users"}

// Config holds what the client needs to reach the API.
type Config struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	UserAgent string
}

// Client is a minimal HTTP client for the GitHub REST API.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	http      *http.Client
}

// New returns a new client. If httpClient is nil, one with cfg.Timeout (or
// 30s when unset) is used.
func New(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "github-search-mcp"
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     cfg.Token,
		userAgent: userAgent,
		http:      httpClient,
	}
}

// SearchParams are forwarded to the search endpoint verbatim; the API is the
// authority on valid ranges.
type SearchParams struct {
	Query   string
	Page    float64
	PerPage float64
	Type    string // empty means DefaultSearchType
}

// APIError is a non-success HTTP status from the API.
type APIError struct {
	StatusCode int
	StatusText string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api status %d %s", e.StatusCode, e.StatusText)
}

// TransportError is a failure to get any response from the API.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "github api request failed: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// Search queries /search/{type}.
func (c *Client) Search(ctx context.Context, p SearchParams) (json.RawMessage, error) {
	reqURL, err := c.SearchURL(p)
	if err != nil {
		return nil, err
	}
	return c.get(ctx, reqURL)
}

// GetUser fetches /users/{username}.
func (c *Client) GetUser(ctx context.Context, username string) (json.RawMessage, error) {
	reqURL, err := c.UserURL(username)
	if err != nil {
		return nil, err
	}
	return c.get(ctx, reqURL)
}

// SearchURL composes the search URL. Query parameters keep the order
// q, page, per_page.
func (c *Client) SearchURL(p SearchParams) (string, error) {
	typ := p.Type
	if typ == "" {
		typ = DefaultSearchType
	}
	u, err := url.Parse(c.baseURL + "/search/" + url.PathEscape(typ))
	if err != nil {
		return "", fmt.Errorf("github: invalid base url: %w", err)
	}
	u.RawQuery = "q=" + encodeComponent(p.Query) +
		"&page=" + formatNumber(p.Page) +
		"&per_page=" + formatNumber(p.PerPage)
	return u.String(), nil
}

// UserURL composes the user lookup URL.
func (c *Client) UserURL(username string) (string, error) {
	u, err := url.Parse(c.baseURL + "/users/" + url.PathEscape(username))
	if err != nil {
		return "", fmt.Errorf("github: invalid base url: %w", err)
	}
	return u.String(), nil
}

func (c *Client) get(ctx context.Context, reqURL string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("github: build request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, StatusText: statusText(resp)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("github: response from %s is not valid JSON", req.URL.Path)
	}
	return json.RawMessage(body), nil
}

// statusText strips the numeric code from resp.Status ("404 Not Found").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// encodeComponent percent-encodes s for a query value, spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// formatNumber renders n in its shortest decimal form, so 1 is "1".
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
