// Package api wraps the remote HTTP collaborators of the uPanel client:
// the user records backend and the ViaCEP postal-code lookup service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"upanel/internal/model"
)

// Credentials is the sign-in response: the authenticated email plus the
// bearer token to attach to subsequent requests.
type Credentials struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// Client talks to the user records backend.
type Client struct {
	baseURL  string
	pageSize int
	http     *http.Client
	logger   *zap.Logger
	token    string
}

// NewClient creates a backend client. pageSize is the listing page size
// requested from the backend; values below 1 fall back to 10. A nil logger
// is replaced with a no-op.
func NewClient(baseURL string, pageSize int, timeout time.Duration, logger *zap.Logger) *Client {
	if pageSize < 1 {
		pageSize = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  baseURL,
		pageSize: pageSize,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// SetToken installs the bearer token attached to every request. An empty
// token clears it.
func (c *Client) SetToken(token string) {
	c.token = token
}

// SignIn exchanges credentials for a token.
func (c *Client) SignIn(ctx context.Context, email, password string) (Credentials, error) {
	body := map[string]string{"email": email, "password": password}

	var creds Credentials
	if err := c.do(ctx, http.MethodPost, "/login", body, &creds, nil); err != nil {
		return Credentials{}, err
	}
	if creds.Email == "" {
		creds.Email = email
	}
	return creds, nil
}

// ListUsers fetches one page of records, sized by the configured page size.
// query is substring-matched by the backend; filters are forwarded as sort
// field and direction. The total record count comes back in the
// X-Total-Count response header.
func (c *Client) ListUsers(ctx context.Context, page int, query string, f model.Filters) ([]model.User, int, error) {
	q := url.Values{}
	q.Set("_page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(c.pageSize))
	q.Set("q", query)
	q.Set("_sort", f.Sort)
	q.Set("_order", f.Order)

	var users []model.User
	var header http.Header
	if err := c.do(ctx, http.MethodGet, "/usuarios?"+q.Encode(), nil, &users, &header); err != nil {
		return nil, 0, err
	}

	total, err := strconv.Atoi(header.Get("X-Total-Count"))
	if err != nil {
		return nil, 0, fmt.Errorf("invalid X-Total-Count header %q: %w", header.Get("X-Total-Count"), err)
	}
	return users, total, nil
}

// CreateUser stores a new record. The caller assigns the identifier.
func (c *Client) CreateUser(ctx context.Context, u model.User) error {
	return c.do(ctx, http.MethodPost, "/usuarios", u, nil, nil)
}

// UpdateUser replaces the record at u.ID. The identifier travels in the
// path, not the body.
func (c *Client) UpdateUser(ctx context.Context, u model.User) error {
	body := struct {
		Nome     string         `json:"nome"`
		CPF      string         `json:"cpf"`
		Email    string         `json:"email"`
		Endereco model.Endereco `json:"endereco"`
	}{u.Nome, u.CPF, u.Email, u.Endereco}

	return c.do(ctx, http.MethodPut, "/usuarios/"+url.PathEscape(u.ID), body, nil, nil)
}

// DeleteUser removes the record with the given identifier.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/usuarios/"+url.PathEscape(id), nil, nil, nil)
}

// do issues one request and decodes the JSON response into out (when non-nil).
// header, when non-nil, receives the response headers.
func (c *Client) do(ctx context.Context, method, path string, in, out any, header *http.Header) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: backend returned status %d: %s", method, path, resp.StatusCode, string(data))
	}

	if header != nil {
		*header = resp.Header
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
