package whois

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"webhost-storefront/internal/logging"
)

// StatusAvailable is the lookup result for an unregistered domain.
const StatusAvailable = "available"

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("whois api key not configured")

// Result is the registry status of a single domain.
type Result struct {
	Domain string `json:"domain"`
	Status string `json:"status"`
}

// Available reports whether the domain can be bought.
func (r Result) Available() bool { return r.Status == StatusAvailable }

// Checker looks up domain availability.
type Checker interface {
	Check(ctx context.Context, name string) (Result, error)
}

// Client calls an apilayer-compatible WHOIS check endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logrus.FieldLogger
}

// NewClient creates a WHOIS client.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger logrus.FieldLogger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.OrDiscard(logger),
	}
}

// Check queries the registry for name.
func (c *Client) Check(ctx context.Context, name string) (Result, error) {
	if c.apiKey == "" {
		return Result{}, ErrNotConfigured
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Result{}, fmt.Errorf("parse whois url: %w", err)
	}
	q := u.Query()
	q.Set("domain", name)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{"domain": name, "status": resp.StatusCode}).Warn("whois: unexpected status")
		return Result{}, fmt.Errorf("whois lookup failed with status %d", resp.StatusCode)
	}

	result := gjson.GetBytes(body, "result")
	if !result.Exists() || result.String() == "" {
		msg := gjson.GetBytes(body, "message").String()
		return Result{}, fmt.Errorf("whois response missing result: %s", msg)
	}

	c.logger.WithFields(logrus.Fields{"domain": name, "result": result.String()}).Debug("whois: lookup")
	return Result{Domain: name, Status: result.String()}, nil
}
