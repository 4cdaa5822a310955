// Package client talks to the remote prioritization service: the analysis
// endpoint that scores a task set and the suggestion endpoint that returns a
// short ranked list.
//
// Every failure is returned as a *domain.DomainError:
//
//   - SERVER_ERROR: non-success response carrying an HTML error page
//   - API_ERROR: non-success response carrying a structured {"error": ...} body
//   - TRANSPORT_ERROR: server unreachable or response body undecodable
//
// Analyze rejects an empty task set with EMPTY_INPUT before any request is made.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prio/prio/internal/domain"
)

const (
	// DefaultScheme is the default URL scheme.
	DefaultScheme = "http"
	// DefaultHost is the default server host.
	DefaultHost = "localhost"
	// DefaultPort is the default server port.
	DefaultPort = 8000

	// AnalyzePath is the analysis endpoint.
	AnalyzePath = "/api/tasks/analyze/"
	// SuggestPath is the suggestion endpoint.
	SuggestPath = "/api/tasks/suggest/"

	// RequestIDHeader carries a per-call ID for log correlation.
	RequestIDHeader = "X-Request-ID"
)

// Client is an HTTP client for the prioritization API.
type Client struct {
	baseURL string       // scheme://host:port
	http    *http.Client // HTTP client
	logger  *log.Logger  // per-request log
}

// NewClient creates a new prioritization API client.
func NewClient(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	baseURL := cfg.baseURL
	if baseURL == "" {
		if cfg.scheme != "http" && cfg.scheme != "https" {
			return nil, fmt.Errorf("invalid scheme %q: must be http or https", cfg.scheme)
		}
		if cfg.host == "" {
			return nil, fmt.Errorf("host is required: use WithHost option")
		}
		if cfg.port < 1 || cfg.port > 65535 {
			return nil, fmt.Errorf("invalid port %d: must be between 1 and 65535", cfg.port)
		}
		baseURL = fmt.Sprintf("%s://%s:%d", cfg.scheme, cfg.host, cfg.port)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: must be an absolute http(s) URL", baseURL)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		logger:  cfg.logger,
	}, nil
}

// BaseURL returns the server URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Analyze sends the task set and strategy to the analysis endpoint and
// returns the ranked, scored tasks.
func (c *Client) Analyze(ctx context.Context, tasks []domain.Task, strategy domain.Strategy) (*domain.AnalysisResult, error) {
	if len(tasks) == 0 {
		return nil, domain.NewEmptyInputError()
	}

	body := analyzeRequest{
		Tasks:    domain.CloneTasks(tasks),
		Strategy: string(strategy),
	}

	req, err := c.newJSONRequest(ctx, http.MethodPost, AnalyzePath, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, parseErrorResponse(resp)
	}

	var result domain.AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, domain.NewTransportError(fmt.Errorf("failed to decode analysis response: %w", err), false)
	}
	if result.Tasks == nil {
		result.Tasks = []domain.ScoredTask{}
	}

	return &result, nil
}

// Suggest asks the suggestion endpoint for its ranked short list.
func (c *Client) Suggest(ctx context.Context) ([]domain.Suggestion, error) {
	req, err := c.newRequest(ctx, http.MethodGet, SuggestPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, parseErrorResponse(resp)
	}

	var result suggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, domain.NewTransportError(fmt.Errorf("failed to decode suggestions response: %w", err), false)
	}
	if result.Suggestions == nil {
		result.Suggestions = []domain.Suggestion{}
	}

	return result.Suggestions, nil
}

// newRequest creates a new HTTP request with common headers.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())

	return req, nil
}

// newJSONRequest creates a new HTTP request with JSON body.
func (c *Client) newJSONRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, &buf)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

// do performs the round trip and logs its outcome.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	requestID := req.Header.Get(RequestIDHeader)

	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Printf("%s %s failed after %v request_id=%s: %v", req.Method, req.URL.Path, duration, requestID, err)
		return nil, transportError(err)
	}

	c.logger.Printf("%s %s %d %v request_id=%s", req.Method, req.URL.Path, resp.StatusCode, duration, requestID)
	return resp, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
