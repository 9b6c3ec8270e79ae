package orders

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

	"github.com/google/uuid"
)

// OrderService is the request/response contract the sync engine consumes.
// *Client implements it; tests substitute fakes.
type OrderService interface {
	ListOrders(ctx context.Context) ([]Order, error)
	SendVerification(ctx context.Context, id int64) error
	DeleteOrder(ctx context.Context, id int64) error
}

var _ OrderService = (*Client)(nil)

// Client talks to the order service HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultBaseURL   = "http://127.0.0.1:8000/dashboard"
	defaultUserAgent = "pawndesk/0.1"
	requestTimeout   = 10 * time.Second
	maxErrorBody     = 4 << 10

	// RequestIDHeader carries a per-request id the service can log.
	RequestIDHeader = "X-Request-ID"
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for baseURL, which may be a host:port or a full
// URL with a path prefix such as http://host:8000/dashboard.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the resolved service root.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return strings.TrimSuffix(c.baseURL.String(), "/")
}

// ListOrders fetches every order the service exposes, in service order.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	if c == nil {
		return nil, &TransportError{Op: OpList, Path: "/orders", Err: ErrNilClient}
	}
	var payload []Order
	if err := c.do(ctx, OpList, http.MethodGet, "orders", &payload); err != nil {
		return nil, err
	}
	if err := validateCollection(payload); err != nil {
		return nil, &TransportError{Op: OpList, Path: "/orders", Err: fmt.Errorf("invalid payload: %w", err)}
	}
	return payload, nil
}

// SendVerification asks the service to email the customer a verification
// code. It is not idempotent and is never retried here.
func (c *Client) SendVerification(ctx context.Context, id int64) error {
	if c == nil {
		return &TransportError{Op: OpVerify, Path: "/verification/" + strconv.FormatInt(id, 10), Err: ErrNilClient}
	}
	return c.do(ctx, OpVerify, http.MethodPost, "verification/"+strconv.FormatInt(id, 10), nil)
}

// DeleteOrder removes the order and any pending verification for it.
func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	if c == nil {
		return &TransportError{Op: OpDelete, Path: "/order/" + strconv.FormatInt(id, 10), Err: ErrNilClient}
	}
	return c.do(ctx, OpDelete, http.MethodDelete, "order/"+strconv.FormatInt(id, 10), nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, dest any) error {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	fail := func(status int, detail string, err error) error {
		return &TransportError{Op: op, Path: "/" + path, StatusCode: status, Detail: detail, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fail(0, "", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(0, "", fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fail(resp.StatusCode, readErrorDetail(resp.Body), nil)
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fail(resp.StatusCode, "", fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// readErrorDetail extracts the "detail" field of an error body, falling back
// to the trimmed raw text.
func readErrorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(raw, &payload) == nil && len(payload.Detail) > 0 {
		var text string
		if json.Unmarshal(payload.Detail, &text) == nil {
			return strings.TrimSpace(text)
		}
		return strings.TrimSpace(string(payload.Detail))
	}
	return strings.TrimSpace(string(raw))
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}
