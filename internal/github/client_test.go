package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchURL(t *testing.T) {
	c := New(Config{BaseURL: "https://api.example.com/"}, nil)

	tests := []struct {
		name   string
		params SearchParams
		want   string
	}{
		{
			name:   "defaults",
			params: SearchParams{Query: "mcp", Page: 1, PerPage: 30, Type: "repositories"},
			want:   "https://api.example.com/search/repositories?q=mcp&page=1&per_page=30",
		},
		{
			name:   "absent type searches repositories",
			params: SearchParams{Query: "mcp", Page: 2, PerPage: 10},
			want:   "https://api.example.com/search/repositories?q=mcp&page=2&per_page=10",
		},
		{
			name:   "query is percent-encoded once",
			params: SearchParams{Query: "go lang&stars:>10 c++", Page: 1, PerPage: 30, Type: "code"},
			want:   "https://api.example.com/search/code?q=go%20lang%26stars%3A%3E10%20c%2B%2B&page=1&per_page=30",
		},
		{
			name:   "numbers forwarded verbatim",
			params: SearchParams{Query: "x", Page: 0, PerPage: 1000, Type: "users"},
			want:   "https://api.example.com/search/users?q=x&page=0&per_page=1000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.SearchURL(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserURL(t *testing.T) {
	c := New(Config{}, nil)

	got, err := c.UserURL("octocat")
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/users/octocat", got)

	got, err = c.UserURL("a/b c")
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/users/a%2Fb%20c", got)
}

func TestSearchSendsHeadersAndReturnsBody(t *testing.T) {
	body := `{"total_count":1,"incomplete_results":false,"items":[{"id":1,"full_name":"a/mcp"}]}`

	var got *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer ts.Close()

	c := New(Config{BaseURL: ts.URL, Token: "secret", UserAgent: "test-agent"}, ts.Client())
	res, err := c.Search(context.Background(), SearchParams{Query: "mcp", Page: 1, PerPage: 30, Type: "repositories"})
	require.NoError(t, err)

	assert.Equal(t, body, string(res))
	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/search/repositories", got.URL.Path)
	assert.Equal(t, "q=mcp&page=1&per_page=30", got.URL.RawQuery)
	assert.Equal(t, "application/vnd.github.v3+json", got.Header.Get("Accept"))
	assert.Equal(t, "Bearer secret", got.Header.Get("Authorization"))
	assert.Equal(t, "test-agent", got.Header.Get("User-Agent"))
}

func TestGetUserAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer ts.Close()

	c := New(Config{BaseURL: ts.URL}, ts.Client())
	_, err := c.GetUser(context.Background(), "octocat")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Not Found", apiErr.StatusText)
}

func TestTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := New(Config{BaseURL: url, Timeout: time.Second}, nil)
	_, err := c.GetUser(context.Background(), "octocat")
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestInvalidJSONBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer ts.Close()

	c := New(Config{BaseURL: ts.URL}, ts.Client())
	_, err := c.GetUser(context.Background(), "octocat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid JSON")

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestNewDefaults(t *testing.T) {
	c := New(Config{}, nil)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, 30*time.Second, c.http.Timeout)
	assert.Equal(t, "github-search-mcp", c.userAgent)
}
