package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"iotview/config"
	"iotview/models"
	"iotview/session"
)

const (
	signInPath          = "/auth/signin"
	signOutPath         = "/auth/signout"
	listConnectionsPath = "/services/IotConnect/getAllIoTConnections"
	getConnectionPath   = "/services/IotConnect/getConnectionById/"
)

// Client issues authenticated REST calls to the single backend origin. It
// attaches the bearer token when the session store holds one and maps
// transport and server failures to user-facing messages.
type Client struct {
	baseURL string
	http    *http.Client
	store   session.Store
	logger  *slog.Logger
}

func NewClient(cfg *config.Config, store session.Store, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		store:   store,
		logger:  logger.With("component", "gateway"),
	}
}

type signInRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
	SessionRequired int    `json:"session_required"`
}

type signInResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// SignIn exchanges credentials for an opaque bearer token. A 2xx response
// without a token field is itself a failure.
func (c *Client) SignIn(ctx context.Context, identifier, secret string, sessionMinutes int) (string, error) {
	body, err := json.Marshal(signInRequest{
		UsernameOrEmail: identifier,
		Password:        secret,
		SessionRequired: sessionMinutes,
	})
	if err != nil {
		return "", NewAuthError("Failed to encode sign-in request.", err)
	}

	status, respBody, err := c.do(ctx, http.MethodPost, signInPath, bytes.NewReader(body))
	if err != nil {
		return "", NewNetworkError(err)
	}
	if status < 200 || status >= 300 {
		return "", NewAuthError(serverMessage(respBody, "Failed to login. Please check your credentials."))
	}

	var resp signInResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", NewAuthError("Invalid response from server", err)
	}
	if resp.Token == "" {
		return "", NewAuthError("Invalid response from server")
	}
	return resp.Token, nil
}

// SignOut tells the backend to revoke the session. Best effort: callers
// clear local state regardless of the outcome.
func (c *Client) SignOut(ctx context.Context) error {
	status, respBody, err := c.do(ctx, http.MethodPost, signOutPath, nil)
	if err != nil {
		return NewNetworkError(err)
	}
	if status < 200 || status >= 300 {
		return NewFetchError(serverMessage(respBody, "Failed to sign out."), nil)
	}
	return nil
}

// ListConnections fetches every configured connection. An empty, missing or
// non-array body normalizes to an empty list rather than an error.
func (c *Client) ListConnections(ctx context.Context) ([]models.Connection, error) {
	status, respBody, err := c.do(ctx, http.MethodGet, listConnectionsPath, nil)
	if err != nil {
		return nil, NewNetworkError(err)
	}
	if status < 200 || status >= 300 {
		return nil, NewFetchError(serverMessage(respBody, "Failed to fetch connections."), nil)
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return []models.Connection{}, nil
	}
	var connections []models.Connection
	if err := json.Unmarshal(respBody, &connections); err != nil {
		c.logger.Warn("connection list body is not an array, treating as empty", slog.Any("error", err))
		return []models.Connection{}, nil
	}
	if connections == nil {
		connections = []models.Connection{}
	}
	return connections, nil
}

// GetConnection fetches one connection by id. A 404 is not distinguished
// from other failures.
func (c *Client) GetConnection(ctx context.Context, id string) (*models.Connection, error) {
	status, respBody, err := c.do(ctx, http.MethodGet, getConnectionPath+url.PathEscape(id), nil)
	if err != nil {
		return nil, NewNetworkError(err)
	}
	if status < 200 || status >= 300 {
		return nil, NewFetchError(serverMessage(respBody, "Failed to fetch connection details."), nil)
	}

	var connection models.Connection
	if err := json.Unmarshal(respBody, &connection); err != nil {
		return nil, NewFetchError("Failed to fetch connection details.", err)
	}
	return &connection, nil
}

// do issues one request and reads the full body. A returned error means the
// transport failed; HTTP status handling is the caller's.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token, err := c.store.Token(); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("request failed", "method", method, "path", path, slog.Any("error", err))
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// serverMessage extracts the backend's message field from an error body,
// falling back to a generic message.
func serverMessage(body []byte, fallback string) string {
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err == nil && resp.Message != "" {
		return resp.Message
	}
	return fallback
}
