// Package orchclient is the typed HTTP client for the orchestrator
// gateway. Operations fail with a TransportError carrying the HTTP status
// when the gateway answered and with the raw transport failure otherwise;
// Classify folds either into the shared taxonomy. No caching, no retries.
package orchclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pkt.systems/coxswain/internal/orchwire"
	"pkt.systems/pslog"
)

// Config configures the orchestrator client.
type Config struct {
	// Endpoint is the gateway base URL, e.g. "https://orchestrator.local".
	Endpoint string
	// UserID tags proxied calls and created sessions.
	UserID string
	// Timeout bounds a single request. Zero means no client timeout;
	// callers bound requests via context.
	Timeout time.Duration
}

// Client talks to the orchestrator gateway.
type Client struct {
	base   *url.URL
	httpc  *http.Client
	userID string
}

// New constructs a client for the given gateway endpoint.
func New(cfg Config) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if trimmed == "" {
		return nil, errors.New("orchestrator endpoint is required")
	}
	base, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse orchestrator endpoint: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported orchestrator endpoint scheme %q", base.Scheme)
	}
	return &Client{
		base:   base,
		httpc:  &http.Client{Timeout: cfg.Timeout},
		userID: cfg.UserID,
	}, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	if c != nil && c.httpc != nil {
		c.httpc.CloseIdleConnections()
	}
	return nil
}

// ListSessions fetches all sessions visible to the client.
func (c *Client) ListSessions(ctx context.Context) ([]orchwire.Session, error) {
	var resp orchwire.ListSessionsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// GetSession fetches one session by id.
func (c *Client) GetSession(ctx context.Context, id string) (orchwire.Session, error) {
	if strings.TrimSpace(id) == "" {
		return orchwire.Session{}, errors.New("session id is required")
	}
	var resp orchwire.GetSessionResponse
	if err := c.do(ctx, http.MethodGet, "/v1/sessions/"+url.PathEscape(id), nil, &resp); err != nil {
		return orchwire.Session{}, err
	}
	if resp.Session == nil {
		return orchwire.Session{}, &TransportError{StatusCode: http.StatusNotFound, Message: "session not found"}
	}
	return *resp.Session, nil
}

// CreateSession creates a session. A response without a session object is
// reported as-is; the caller decides whether that is fatal.
func (c *Client) CreateSession(ctx context.Context, req orchwire.CreateSessionRequest) (orchwire.CreateSessionResponse, error) {
	log := pslog.Ctx(ctx)
	log.Info("orchestrator session create start", "name", req.Name, "user", req.UserID)
	var resp orchwire.CreateSessionResponse
	if err := c.do(ctx, http.MethodPost, "/v1/sessions", req, &resp); err != nil {
		logTransportError(log, "orchestrator session create failed", err)
		return orchwire.CreateSessionResponse{}, err
	}
	return resp, nil
}

// DeleteSession deletes a session by id.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("session id is required")
	}
	log := pslog.Ctx(ctx)
	log.Info("orchestrator session delete start", "session", id)
	var resp orchwire.DeleteSessionResponse
	if err := c.do(ctx, http.MethodDelete, "/v1/sessions/"+url.PathEscape(id), nil, &resp); err != nil {
		logTransportError(log, "orchestrator session delete failed", err)
		return err
	}
	return nil
}

// CheckHealth probes the orchestrator.
func (c *Client) CheckHealth(ctx context.Context) (orchwire.HealthResponse, error) {
	var resp orchwire.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return orchwire.HealthResponse{}, err
	}
	return resp, nil
}

// ProxyHTTP routes a raw HTTP call through a session's sandbox endpoint.
// The response body is opaque to this client.
func (c *Client) ProxyHTTP(ctx context.Context, req orchwire.ProxyRequest) (orchwire.ProxyResponse, error) {
	if strings.TrimSpace(req.SessionID) == "" {
		return orchwire.ProxyResponse{}, errors.New("session id is required")
	}
	if req.UserID == "" {
		req.UserID = c.userID
	}
	log := pslog.Ctx(ctx).With("session", req.SessionID)
	log.Debug("orchestrator proxy start", "method", req.Method, "path", req.Path, "body_len", len(req.Body), "headers", len(req.Headers))
	var resp orchwire.ProxyResponse
	if err := c.do(ctx, http.MethodPost, "/v1/sessions/"+url.PathEscape(req.SessionID)+"/proxy", req, &resp); err != nil {
		logTransportError(log, "orchestrator proxy failed", err)
		return orchwire.ProxyResponse{}, err
	}
	log.Trace("orchestrator proxy ok", "status", resp.StatusCode, "body_len", len(resp.Body))
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c == nil || c.httpc == nil {
		return errors.New("orchestrator client not initialized")
	}
	target := c.base.JoinPath(path).String()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{StatusCode: resp.StatusCode, Message: errorMessage(data, resp.StatusCode)}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// maxResponseBytes bounds gateway response bodies.
const maxResponseBytes = 16 << 20

func errorMessage(body []byte, status int) string {
	var wire orchwire.ErrorResponse
	if err := json.Unmarshal(body, &wire); err == nil && strings.TrimSpace(wire.Error) != "" {
		return wire.Error
	}
	return http.StatusText(status)
}
