// Package spam checks reader comments against the Akismet REST API.
package spam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Verdict is the outcome of a comment check.
type Verdict string

const (
	VerdictHam  Verdict = "ham"
	VerdictSpam Verdict = "spam"
)

// DefaultUserIP is reported when the comment carries no client address.
const DefaultUserIP = "127.0.0.1"

// Comment is the data sent for a comment check.
type Comment struct {
	UserIP    string
	UserAgent string
	Referrer  string
	Permalink string
	Author    string
	Content   string
}

// Checker classifies comments.
type Checker interface {
	// VerifyKey confirms the configured key is accepted by the service.
	VerifyKey(ctx context.Context) error

	// Check verifies the key, then classifies c. A rejected key returns
	// ErrInvalidKey.
	Check(ctx context.Context, c Comment) (Verdict, error)
}

// akismetClient implements Checker using the Akismet HTTP API.
type akismetClient struct {
	cfg      Config
	http     *http.Client
	observer Observer

	mu       sync.Mutex
	verified bool
}

// NewAkismetClient creates a Checker for the Akismet service.
func NewAkismetClient(cfg Config, observer Observer) Checker {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &akismetClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c *akismetClient) VerifyKey(ctx context.Context) error {
	c.mu.Lock()
	verified := c.verified
	c.mu.Unlock()
	if verified {
		return nil
	}

	form := url.Values{
		"key":  {c.cfg.APIKey},
		"blog": {c.cfg.BlogURL},
	}
	body, err := c.call(ctx, "verify-key", form)
	if err != nil {
		return err
	}
	switch body {
	case "valid":
		c.mu.Lock()
		c.verified = true
		c.mu.Unlock()
		return nil
	case "invalid":
		return ErrInvalidKey
	default:
		return fmt.Errorf("%w: verify-key returned %q", ErrInvalidResponse, body)
	}
}

func (c *akismetClient) Check(ctx context.Context, cm Comment) (Verdict, error) {
	if err := c.VerifyKey(ctx); err != nil {
		return "", err
	}

	userIP := cm.UserIP
	if userIP == "" {
		userIP = DefaultUserIP
	}
	form := url.Values{
		"api_key":         {c.cfg.APIKey},
		"blog":            {c.cfg.BlogURL},
		"user_ip":         {userIP},
		"user_agent":      {cm.UserAgent},
		"referrer":        {cm.Referrer},
		"permalink":       {cm.Permalink},
		"comment_type":    {"comment"},
		"comment_author":  {cm.Author},
		"comment_content": {cm.Content},
		"blog_charset":    {"UTF-8"},
	}
	body, err := c.call(ctx, "comment-check", form)
	if err != nil {
		return "", err
	}
	switch body {
	case "true":
		return VerdictSpam, nil
	case "false":
		return VerdictHam, nil
	default:
		return "", fmt.Errorf("%w: comment-check returned %q", ErrInvalidResponse, body)
	}
}

// call posts form to method with retries and reports the outcome to the
// observer. Each attempt gets its own timeout; cancellation of ctx stops
// retrying.
func (c *akismetClient) call(ctx context.Context, method string, form url.Values) (string, error) {
	start := time.Now()

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries
	for i := 0; i < attempts; i++ {
		body, err := c.doRequest(ctx, method, form)
		if err == nil {
			c.observer.OnCallComplete(CallEvent{
				Method:    method,
				LatencyMs: time.Since(start).Milliseconds(),
				Success:   true,
				Verdict:   verdictOf(method, body),
			})
			return body, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	err := classify(ctx, lastErr)
	c.observer.OnCallComplete(CallEvent{
		Method:    method,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   false,
		ErrorCode: errorCode(err),
	})
	return "", err
}

func (c *akismetClient) doRequest(ctx context.Context, method string, form url.Values) (string, error) {
	timeout := time.Duration(c.cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = time.Duration(DefaultConfig().TimeoutMs) * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := strings.TrimRight(c.cfg.Endpoint, "/") + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "cmscontent/1.0 | akismet")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("akismet returned status %d: %s", resp.StatusCode, string(data))
	}
	return strings.TrimSpace(string(data)), nil
}

func verdictOf(method, body string) Verdict {
	if method != "comment-check" {
		return ""
	}
	switch body {
	case "true":
		return VerdictSpam
	case "false":
		return VerdictHam
	}
	return ""
}

func classify(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil, errors.Is(err, ErrTimeout):
		return ErrTimeout
	case isConnectionError(err):
		return ErrUnavailable
	default:
		return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
	}
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidKey):
		return "INVALID_KEY"
	default:
		return "UNKNOWN"
	}
}
