package remna

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

const requestTimeout = 30 * time.Second

// Category classifies a failed call against the Remnawave API.
type Category string

const (
	CategoryTimeout       Category = "timeout"
	CategoryConnection    Category = "connection"
	CategoryHTTP          Category = "http"
	CategoryMalformedJSON Category = "malformed_json"
	CategoryUnexpected    Category = "unexpected"
)

// Error carries the failed operation, its cause category and, for HTTP
// failures, the upstream status and body.
type Error struct {
	Op         string
	Category   Category
	StatusCode int
	Body       string
	cause      error
}

func (e *Error) Error() string {
	if e.Category == CategoryHTTP {
		return fmt.Sprintf("remna %s: HTTP %d: %s", e.Op, e.StatusCode, e.Body)
	}
	if e.cause != nil {
		return fmt.Sprintf("remna %s: %s: %v", e.Op, e.Category, e.cause)
	}
	return fmt.Sprintf("remna %s: %s", e.Op, e.Category)
}

func (e *Error) Unwrap() error { return e.cause }

// Config holds the static provisioning parameters sent with every
// user-creation call.
type Config struct {
	BaseURL    string
	Token      string
	Tag        string
	Status     string
	Inbounds   []string
	ExpireDays int
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		now:        time.Now,
	}
}

// CreateUser provisions a user on the panel. A 400 response whose body
// reports the user already exists is the idempotent path and succeeds.
// Exactly one attempt; no retries.
func (c *Client) CreateUser(ctx context.Context, username string) (CreateResult, error) {
	const op = "create_user"

	expireAt := formatExpiry(c.now().UTC().AddDate(0, 0, c.cfg.ExpireDays))
	payload := createUserRequest{
		Username:           username,
		Tag:                c.cfg.Tag,
		ExpireAt:           expireAt,
		Status:             c.cfg.Status,
		ActiveUserInbounds: c.cfg.Inbounds,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, &Error{Op: op, Category: CategoryUnexpected, cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/users", bytes.NewReader(body))
	if err != nil {
		return 0, &Error{Op: op, Category: CategoryUnexpected, cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, classifyTransport(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, &Error{Op: op, Category: CategoryUnexpected, cause: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		slog.Info("Remna user created", "username", username, "expire_at", expireAt)
		return Created, nil
	case resp.StatusCode == http.StatusBadRequest && isAlreadyExists(respBody):
		slog.Info("Remna user already exists, reusing", "username", username)
		return AlreadyExists, nil
	default:
		return 0, &Error{Op: op, Category: CategoryHTTP, StatusCode: resp.StatusCode, Body: string(respBody)}
	}
}

// GetSubscriptionLink fetches the user's subscription links and returns
// the first one. An empty list is not an error: ok reports presence.
func (c *Client) GetSubscriptionLink(ctx context.Context, username string) (string, bool, error) {
	const op = "get_vless"

	url := c.cfg.BaseURL + "/api/subscriptions/by-username/" + username
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, &Error{Op: op, Category: CategoryUnexpected, cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, classifyTransport(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, &Error{Op: op, Category: CategoryUnexpected, cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false, &Error{Op: op, Category: CategoryHTTP, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed subscriptionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", false, &Error{Op: op, Category: CategoryMalformedJSON, cause: err}
	}

	if len(parsed.Response.Links) == 0 {
		return "", false, nil
	}
	return parsed.Response.Links[0], true, nil
}

func isAlreadyExists(body []byte) bool {
	return strings.Contains(strings.ToLower(string(body)), "already exists")
}

// formatExpiry renders an ISO-8601 UTC timestamp with millisecond
// precision and a trailing Z, matching what the panel expects.
func formatExpiry(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.000Z")
}

func classifyTransport(op string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Op: op, Category: CategoryTimeout, cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Op: op, Category: CategoryTimeout, cause: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &Error{Op: op, Category: CategoryConnection, cause: err}
	}
	return &Error{Op: op, Category: CategoryUnexpected, cause: err}
}
