// Package api talks to the worship backend. Reads are memoized in a
// cache.Cache; writes invalidate the entries they may have made stale.
package api

import (
	"net/http"
	"time"

	"WorshipHub/cache"
	"WorshipHub/session"
)

// Credentials is where the client reads the bearer token from and clears it
// on 401.
type Credentials interface {
	Load() (session.Session, error)
	Save(session.Session) error
	Clear() error
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Cache      *cache.Cache
	Session    Credentials
	// ReorderInvalidatesInfo makes setlist reordering also drop group_info.
	ReorderInvalidatesInfo bool
}

// Client is the backend API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
	session    Credentials
	rules      map[Mutation]Rule
	now        func() time.Time
}

// NewClient creates a client. A nil cache gets a fresh in-memory cache.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	c := opts.Cache
	if c == nil {
		c = cache.NewMemory()
	}
	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: httpClient,
		cache:      c,
		session:    opts.Session,
		rules:      Rules(opts.ReorderInvalidatesInfo),
		now:        time.Now,
	}
}

// SetBaseURL sets the API base URL.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// SetTimeout sets the request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// Cache returns the client's request cache.
func (c *Client) Cache() *cache.Cache {
	return c.cache
}
