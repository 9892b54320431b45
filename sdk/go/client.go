// Package weeding is the Go client for the wedding media upload service.
package weeding

import (
	"context"
	"crypto/tls"
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
	defaultTimeout           = 5 * time.Minute
	defaultChunkSize         = 4 * 1024 * 1024
	defaultSimpleUploadLimit = 4 * 1024 * 1024

	maxListLimit = 100
)

// Client is the upload service API client.
type Client struct {
	baseURL           string
	chunkSize         int64
	simpleUploadLimit int64
	httpClient        *http.Client
}

// NewClient creates a new client with the given configuration.
//
// Example:
//
//	client, err := weeding.NewClient(weeding.ClientConfig{
//	    BaseURL: "https://media.example.com",
//	})
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, &ValidationError{Field: "BaseURL", Message: "is required"}
	}

	parsedURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, &ValidationError{Field: "BaseURL", Message: "must be a valid URL"}
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, &ValidationError{Field: "BaseURL", Message: "must use http or https protocol"}
	}
	if parsedURL.Host == "" {
		return nil, &ValidationError{Field: "BaseURL", Message: "must include a host"}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	simpleUploadLimit := cfg.SimpleUploadLimit
	if simpleUploadLimit <= 0 {
		simpleUploadLimit = defaultSimpleUploadLimit
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}

	return &Client{
		baseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		chunkSize:         chunkSize,
		simpleUploadLimit: simpleUploadLimit,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HealthStatus is the service's health probe result.
type HealthStatus struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
	Storage       string `json:"storage"`
	OpenSessions  int    `json:"openSessions"`
}

// Health probes the service. A degraded service returns a status other
// than "ok" without an error; transport failures return an error.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	resp, err := c.request(ctx, http.MethodGet, "/health", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// The probe reports degradation with a 503 plus the same body shape
	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decoding health response: %w", err)
	}
	return &status, nil
}

// validateFilename rejects names the server would refuse.
func validateFilename(name string) error {
	if name == "" {
		return &ValidationError{Field: "filename", Message: "cannot be empty"}
	}
	if len(name) > 255 {
		return &ValidationError{Field: "filename", Message: "cannot exceed 255 characters"}
	}
	return nil
}

// request makes an HTTP request to the API.
func (c *Client) request(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	return resp, nil
}

// handleResponse checks for errors and decodes the JSON response body.
func handleResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error      string `json:"error"`
			Details    string `json:"details"`
			RetryAfter int    `json:"retryAfter"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			errResp.Error = resp.Status
		}
		retryAfter := errResp.RetryAfter
		if retryAfter == 0 {
			retryAfter, _ = strconv.Atoi(resp.Header.Get("Retry-After"))
		}
		return newAPIError(resp.StatusCode, errResp.Error, errResp.Details, retryAfter)
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
