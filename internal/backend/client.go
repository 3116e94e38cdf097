// Package backend is the HTTP client for the equivalence REST backend
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/aethra/equivalencias/internal/errors"
	"github.com/aethra/equivalencias/internal/models"
)

const (
	pathCheckAuth     = "/api/check-auth"
	pathLogin         = "/api/login"
	pathLogout        = "/api/logout"
	pathEquivalencias = "/api/equivalencias"
)

// Client talks to one backend on behalf of one panel session.
// The backend authenticates by cookie, so every Client owns its own jar.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client with a fresh cookie jar
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}, nil
}

// errorBody is the failure envelope; "error" is optional
type errorBody struct {
	Error string `json:"error"`
}

// =============================================================================
// SESSION
// =============================================================================

// CheckAuth returns the backend's session state.
// GET /api/check-auth
func (c *Client) CheckAuth(ctx context.Context) (models.Session, error) {
	var session models.Session
	if err := c.do(ctx, "check-auth", http.MethodGet, pathCheckAuth, nil, &session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// Login posts credentials and returns the username the backend accepted.
// POST /api/login
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		Username string `json:"username"`
	}
	creds := models.Credentials{Username: username, Password: password}
	if err := c.do(ctx, "login", http.MethodPost, pathLogin, creds, &resp); err != nil {
		return "", err
	}
	if resp.Username == "" {
		resp.Username = username
	}
	return resp.Username, nil
}

// Logout ends the backend session.
// POST /api/logout
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, pathLogout, nil, nil)
}

// =============================================================================
// EQUIVALENCIAS
// =============================================================================

// List fetches the full collection.
// GET /api/equivalencias
func (c *Client) List(ctx context.Context) ([]models.Equivalencia, error) {
	var records []models.Equivalencia
	if err := c.do(ctx, "list", http.MethodGet, pathEquivalencias, nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.Equivalencia{}
	}
	return records, nil
}

// Create submits a new record.
// POST /api/equivalencias
func (c *Client) Create(ctx context.Context, form models.Form) error {
	return c.do(ctx, "create", http.MethodPost, pathEquivalencias, form, nil)
}

// Update replaces the fields of record id.
// PUT /api/equivalencias/{id}
func (c *Client) Update(ctx context.Context, id int64, form models.Form) error {
	return c.do(ctx, "update", http.MethodPut, recordPath(id), form, nil)
}

// Delete removes record id.
// DELETE /api/equivalencias/{id}
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, "delete", http.MethodDelete, recordPath(id), nil, nil)
}

func recordPath(id int64) string {
	return pathEquivalencias + "/" + strconv.FormatInt(id, 10)
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do sends one request. Transport failures and undecodable success bodies
// become TransportError; non-2xx responses become APIError.
func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewTransportError(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewTransportError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		return apperrors.NewAPIError(op, resp.StatusCode, eb.Error)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.NewTransportError(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
