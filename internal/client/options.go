package client

import (
	"io"
	"log"
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientConfig)

// clientConfig holds the configuration for a Client.
type clientConfig struct {
	baseURL    string
	scheme     string
	host       string
	port       int
	timeout    time.Duration
	httpClient *http.Client
	logger     *log.Logger
}

// defaultConfig returns the default client configuration. No timeout is
// applied unless WithTimeout is given; callers bound calls with a context.
func defaultConfig() *clientConfig {
	return &clientConfig{
		scheme: DefaultScheme,
		host:   DefaultHost,
		port:   DefaultPort,
		logger: log.New(io.Discard, "", 0),
	}
}

// WithBaseURL sets the full server URL, overriding scheme, host and port.
func WithBaseURL(baseURL string) Option {
	return func(c *clientConfig) {
		c.baseURL = baseURL
	}
}

// WithScheme sets the URL scheme (http or https).
func WithScheme(scheme string) Option {
	return func(c *clientConfig) {
		c.scheme = scheme
	}
}

// WithHost sets the server host.
func WithHost(host string) Option {
	return func(c *clientConfig) {
		c.host = host
	}
}

// WithPort sets the server port.
func WithPort(port int) Option {
	return func(c *clientConfig) {
		c.port = port
	}
}

// WithTimeout sets an overall HTTP timeout for each call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for per-request logging.
func WithLogger(logger *log.Logger) Option {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}
