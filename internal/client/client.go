// Package client is a typed client for the admin API. It attaches the stored
// bearer token to every request, unwraps the response envelope and forgets
// the token as soon as the server rejects it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"sitecms/internal/model"
	"sitecms/internal/upload"
)

const defaultTimeout = 30 * time.Second

// APIError is returned for every non-2xx response.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Pagination mirrors the list envelope.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

type envelope struct {
	Code       int             `json:"code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Pagination *Pagination     `json:"pagination"`
}

// ListOptions are the common list query parameters.
type ListOptions struct {
	Page     int
	PageSize int
	Keyword  string
	Status   string
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(o.PageSize))
	}
	if o.Keyword != "" {
		q.Set("keyword", o.Keyword)
	}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	return q
}

// Client talks to the admin API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenStore sets where the bearer token is kept.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) { c.tokens = store }
}

// New creates a client for baseURL, e.g. http://localhost:3001/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  &MemoryTokenStore{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoginResult is returned by Login.
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Login exchanges credentials for a token and stores it.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var out LoginResult
	if _, err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil,
		map[string]string{"username": username, "password": password}, &out); err != nil {
		return nil, err
	}
	if err := c.tokens.Save(out.Token); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	return &out, nil
}

// Logout revokes the token server-side and forgets it locally. The local
// token is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	if clearErr := c.tokens.Clear(); clearErr != nil && err == nil {
		err = fmt.Errorf("clear token: %w", clearErr)
	}
	return err
}

// Me describes the authenticated user.
type Me struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Me returns the user behind the stored token.
func (c *Client) Me(ctx context.Context) (*Me, error) {
	var out Me
	if _, err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword changes the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/change-password", nil,
		map[string]string{"oldPassword": oldPassword, "newPassword": newPassword}, nil)
	return err
}

// Products lists products.
func (c *Client) Products(ctx context.Context, opts ListOptions) (*Page[model.Product], error) {
	return list[model.Product](ctx, c, "/products", opts)
}

// Messages lists contact messages. Requires a token.
func (c *Client) Messages(ctx context.Context, opts ListOptions) (*Page[model.Message], error) {
	return list[model.Message](ctx, c, "/messages", opts)
}

// UpdateMessageStatus sets the triage status of a message.
func (c *Client) UpdateMessageStatus(ctx context.Context, id uint, status model.MessageStatus) (*model.Message, error) {
	var out model.Message
	path := fmt.Sprintf("/messages/%d/status", id)
	if _, err := c.doJSON(ctx, http.MethodPut, path, nil, map[string]string{"status": string(status)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upload sends the file at path to POST /upload/{category}.
func (c *Client) Upload(ctx context.Context, category, path string) (*upload.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("detect content type: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(path)))
	h.Set("Content-Type", mtype.String())
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var out upload.File
	if _, err := c.do(ctx, http.MethodPost, "/upload/"+url.PathEscape(category), nil, &body, w.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func list[T any](ctx context.Context, c *Client, path string, opts ListOptions) (*Page[T], error) {
	var items []T
	pagination, err := c.doJSON(ctx, http.MethodGet, path, opts.query(), nil, &items)
	if err != nil {
		return nil, err
	}
	page := &Page[T]{Items: items}
	if pagination != nil {
		page.Pagination = *pagination
	}
	return page, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out interface{}) (*Pagination, error) {
	var body io.Reader
	contentType := ""
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, body, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) (*Pagination, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	token, err := c.tokens.Load()
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: env.Message, Code: env.Error}
		if decodeErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
		}
		if resp.StatusCode == http.StatusUnauthorized {
			_ = c.tokens.Clear()
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
	}
	return env.Pagination, nil
}
