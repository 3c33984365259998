package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

// Client talks to an urchain indexer. It is safe for concurrent use: the
// configuration is fixed at construction and the http.Client is shared.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
	policy     RetryPolicy
	timer      retry.Timer
}

// ClientOption customizes a Client at construction
type ClientOption func(*Client)

// WithHTTPClient replaces the default transport
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets the logger used for retry and failure diagnostics
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetryPolicy sets the policy used when a call passes no overrides
func WithRetryPolicy(policy RetryPolicy) ClientOption {
	return func(c *Client) {
		c.policy = policy
	}
}

// WithTimer swaps the timer used for the wait between attempts
func WithTimer(timer retry.Timer) ClientOption {
	return func(c *Client) {
		c.timer = timer
	}
}

// NewClient creates a new indexer client. No connection is made until the
// first call.
func NewClient(host, apiKey string, opts ...ClientOption) (*Client, error) {
	host = strings.TrimSpace(host)
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHost, err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHost, host)
	}

	switch apiKey {
	case "":
		return nil, ErrMissingAPIKey
	case placeholderAPIKey:
		return nil, ErrPlaceholderAPIKey
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultHTTPTimeout,
		},
		baseURL: strings.TrimRight(base.String(), "/"),
		apiKey:  apiKey,
		logger:  zap.NewNop(),
		policy:  DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.policy.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Host returns the base host the client was built with
func (c *Client) Host() string {
	return c.baseURL
}

// Get runs a GET command with the given query parameters and returns the raw
// response body. Values are formatted with fmt.Sprint; nil values are skipped.
func (c *Client) Get(ctx context.Context, command string, params map[string]any, opts ...CallOption) (json.RawMessage, error) {
	return c.execute(ctx, Endpoint{Path: command, Method: http.MethodGet}, params, opts)
}

// Post runs a POST command with body encoded as JSON and returns the raw
// response body. A nil body is sent as an empty object.
func (c *Client) Post(ctx context.Context, command string, body any, opts ...CallOption) (json.RawMessage, error) {
	if body == nil {
		body = struct{}{}
	}
	return c.execute(ctx, Endpoint{Path: command, Method: http.MethodPost}, body, opts)
}

// endpointURL joins the base host and a command path with a single slash
func (c *Client) endpointURL(command string) string {
	return c.baseURL + "/" + strings.TrimLeft(command, "/")
}

type requestFunc func(ctx context.Context) (*http.Request, error)

// newRequestFunc prepares the request for ep. The payload is encoded once so
// every attempt sends the same bytes.
func (c *Client) newRequestFunc(ep Endpoint, payload any) requestFunc {
	target := c.endpointURL(ep.Path)

	if ep.Method == http.MethodGet {
		params, _ := payload.(map[string]any)
		query := url.Values{}
		for k, v := range params {
			if v == nil {
				continue
			}
			query.Set(k, fmt.Sprint(v))
		}
		if len(query) > 0 {
			target += "?" + query.Encode()
		}

		return func(ctx context.Context) (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, ep.Method, target, nil)
			if err != nil {
				return nil, err
			}
			c.setHeaders(req)
			return req, nil
		}
	}

	data, encodeErr := json.Marshal(payload)
	return func(ctx context.Context) (*http.Request, error) {
		if encodeErr != nil {
			return nil, encodeErr
		}
		req, err := http.NewRequestWithContext(ctx, ep.Method, target, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		c.setHeaders(req)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
}

// attempt performs a single request/response cycle
func (c *Client) attempt(ctx context.Context, newRequest requestFunc, timeout time.Duration) (json.RawMessage, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := newRequest(ctx)
	if err != nil {
		return nil, &attemptFailure{err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &attemptFailure{url: req.URL.String(), sent: true, err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &attemptFailure{
			url:  req.URL.String(),
			sent: true,
			err:  fmt.Errorf("failed to read response: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &attemptFailure{
			url:      req.URL.String(),
			sent:     true,
			answered: true,
			status:   resp.StatusCode,
			header:   resp.Header,
			body:     body,
		}
	}

	return json.RawMessage(body), nil
}

// attemptFailure records what went wrong in one attempt. It is turned into
// the caller-facing error only once the retries are exhausted.
type attemptFailure struct {
	url      string
	sent     bool
	answered bool
	status   int
	header   http.Header
	body     []byte
	err      error
}

func (f *attemptFailure) Error() string {
	if f.answered {
		return fmt.Sprintf("request failed with status %d: %s", f.status, string(f.body))
	}
	return f.err.Error()
}

func (f *attemptFailure) Unwrap() error {
	return f.err
}
