// Package splunkd provides the client hooks use to call back into the host's
// REST API with the session key of the current invocation.
package splunkd

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/artpar/modinput/ports"
)

// Client provides authenticated HTTP communication with the host.
type Client struct {
	httpClient *http.Client
	baseURL    string
	sessionKey string
}

// Config configures the client.
type Config struct {
	BaseURL    string // server_uri from the input definition
	SessionKey string
	Timeout    time.Duration
	// InsecureSkipVerify accepts the host's self-signed management certificate.
	InsecureSkipVerify bool
}

// NewClient creates a new host client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // host management port uses a self-signed cert by default
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		sessionKey: cfg.SessionKey,
	}
}

// Request sends an HTTP request to the host and decodes the JSON response.
// GET and DELETE send form as the query string; other methods send it as
// a url-encoded body.
func (c *Client) Request(ctx context.Context, method, path string, form url.Values, result any) error {
	query := url.Values{}
	var body io.Reader

	if method == http.MethodGet || method == http.MethodDelete {
		for k, v := range form {
			query[k] = v
		}
	} else if form != nil {
		body = strings.NewReader(form.Encode())
	}
	query.Set("output_mode", "json")

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query.Encode(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.sessionKey != "" {
		req.Header.Set("Authorization", "Splunk "+c.sessionKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(resp.Body)
		return &Error{
			StatusCode: resp.StatusCode,
			Message:    string(msg),
		}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// ServerInfo is the subset of /services/server/info hooks usually need.
type ServerInfo struct {
	ServerName string `json:"serverName"`
	Version    string `json:"version"`
	GUID       string `json:"guid"`
}

// ServerInfo fetches basic information about the host.
func (c *Client) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	var resp struct {
		Entry []struct {
			Content ServerInfo `json:"content"`
		} `json:"entry"`
	}
	if err := c.Request(ctx, http.MethodGet, "/services/server/info", nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Entry) == 0 {
		return nil, fmt.Errorf("server info: empty response")
	}
	return &resp.Entry[0].Content, nil
}

// Error represents an error response from the host.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("splunkd error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error is a 404.
func IsNotFound(err error) bool {
	if se, ok := err.(*Error); ok {
		return se.StatusCode == http.StatusNotFound
	}
	return false
}

// IsUnauthorized returns true if the session key was rejected.
func IsUnauthorized(err error) bool {
	if se, ok := err.(*Error); ok {
		return se.StatusCode == http.StatusUnauthorized
	}
	return false
}

// Ensure interface compliance.
var _ ports.Service = (*Client)(nil)
