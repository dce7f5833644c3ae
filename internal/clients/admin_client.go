package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodySize    = 4 << 20
	userAgent      = "msquare-admin-console"
)

// AdminClient talks to the MSquare Market admin REST API.
type AdminClient struct {
	l          *zap.Logger
	baseURL    *url.URL
	session    *Session
	httpClient *http.Client
}

// NewAdminClient creates a client for the API rooted at baseURL.
// A zero timeout falls back to 30s.
func NewAdminClient(l *zap.Logger, baseURL string, session *Session, timeout time.Duration) (*AdminClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid API url %q", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("API url %q must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if session == nil {
		session = &Session{}
	}

	return &AdminClient{
		l:       l,
		baseURL: u,
		session: session,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// BaseURL returns the API root the client was created with.
func (c *AdminClient) BaseURL() string {
	return c.baseURL.String()
}

func (c *AdminClient) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends a JSON request and decodes a JSON answer into out (when out is not nil).
func (c *AdminClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	token, err := c.session.Token(time.Now())
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return errors.Wrap(err, "failed to create HTTP request")
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observe(method, path, "transport_error", started)
		if isOffline(err) {
			c.l.Warn("admin API unreachable", zap.String("path", path), zap.Error(err))
			return errors.Wrapf(ErrOffline, "%s %s: %s", method, path, err)
		}
		return errors.Wrapf(err, "%s %s failed", method, path)
	}
	defer resp.Body.Close()
	observe(method, path, statusClass(resp.StatusCode), started)
	c.l.Debug("admin API request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(started)))

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.l.Warn("admin API rejected the token", zap.String("method", method), zap.String("path", path))
		return errors.Wrapf(ErrUnauthorized, "%s %s", method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: extractMessage(resp.StatusCode, respBody)}
		c.l.Warn("admin API error",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message))
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Wrapf(err, "failed to decode %s %s response", method, path)
	}
	return nil
}

// Ping checks that the API answers at all.
func (c *AdminClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}
