package api

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrUploadFailed wraps every upload failure (transport or server status)
	ErrUploadFailed = errors.New("upload failed")
	// ErrUnsupportedFile is returned before any network I/O for files that can't be uploaded
	ErrUnsupportedFile = errors.New("unsupported file")
	// ErrTransport wraps stream failures that are not caused by the agent itself
	ErrTransport = errors.New("stream transport failed")
)

// AgentError is the error surfaced when the agent reports an error event
type AgentError struct {
	Message string
}

func (e *AgentError) Error() string {
	return "agent error: " + e.Message
}

// Client talks to the analysis backend
type Client struct {
	baseURL            string
	httpClient         *http.Client
	streamClient       *http.Client
	acceptedExtensions []string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the client used for uploads
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithStreamClient replaces the client used for the event stream.
// It must not carry an overall Timeout or long runs are cut off.
func WithStreamClient(hc *http.Client) Option {
	return func(c *Client) {
		c.streamClient = hc
	}
}

// WithUploadTimeout bounds a whole upload request
func WithUploadTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithConnectTimeout bounds dialing for both clients
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		for _, hc := range []*http.Client{c.httpClient, c.streamClient} {
			hc.Transport = &http.Transport{
				Proxy:       http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{Timeout: d}).DialContext,
			}
		}
	}
}

// WithAcceptedExtensions sets which file extensions Upload accepts. An empty list accepts any file.
func WithAcceptedExtensions(exts []string) Option {
	return func(c *Client) {
		c.acceptedExtensions = exts
	}
}

// NewClient creates a client for the backend rooted at baseURL (e.g. http://localhost:8000/api/v1)
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		streamClient:       &http.Client{},
		acceptedExtensions: []string{".csv", ".parquet", ".json"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) url(path string) string {
	return fmt.Sprintf("%s%s", c.baseURL, path)
}
