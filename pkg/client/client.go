// Package client is a typed client for the strmly HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Session carries the token returned by Signup or Login. Authenticated calls take it explicitly.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Uploader struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoURL    string    `json:"videoUrl"`
	FileSize    int64     `json:"fileSize"`
	Format      string    `json:"format,omitempty"`
	Width       *int      `json:"width,omitempty"`
	Height      *int      `json:"height,omitempty"`
	Duration    *float64  `json:"duration,omitempty"`
	Uploader    Uploader  `json:"uploader"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	TotalVideos int64 `json:"totalVideos"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

type VideoPage struct {
	Videos     []Video    `json:"videos"`
	Pagination Pagination `json:"pagination"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is returned for every response with success=false.
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("strmly: %d %s", e.Status, e.Message)
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an *APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []FieldError    `json:"errors"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	// uploadClient shares httpClient's transport without its overall timeout.
	uploadClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which has a 30 second timeout.
// The timeout is not applied to Upload; bound uploads with the ctx deadline instead.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	uc := *c.httpClient
	uc.Timeout = 0
	c.uploadClient = &uc
	return c
}

type authPayload struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (c *Client) Signup(ctx context.Context, name, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/auth/signup", map[string]string{"name": name, "email": email, "password": password})
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/auth/login", map[string]string{"email": email, "password": password})
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*Session, error) {
	var out authPayload
	if err := c.doJSON(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &Session{Token: out.Token, ExpiresAt: out.ExpiresAt, User: out.User}, nil
}

func (c *Client) Profile(ctx context.Context, s *Session) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/auth/profile", s, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UpdateName renames the session user. Videos uploaded earlier keep the old name.
func (c *Client) UpdateName(ctx context.Context, s *Session, name string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPut, "/auth/profile", s, map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	if s != nil {
		s.User = out.User
	}
	return &out.User, nil
}

// ListVideos returns a feed page. Zero page or limit leaves the server default.
func (c *Client) ListVideos(ctx context.Context, page, limit int) (*VideoPage, error) {
	var out VideoPage
	if err := c.doJSON(ctx, http.MethodGet, "/videos"+pageQuery(page, limit), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UserVideos(ctx context.Context, userID string, page, limit int) (*VideoPage, error) {
	var out VideoPage
	path := "/users/" + url.PathEscape(userID) + "/videos" + pageQuery(page, limit)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetVideo(ctx context.Context, id string) (*Video, error) {
	var out struct {
		Video Video `json:"video"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/videos/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Video, nil
}

func (c *Client) Recommended(ctx context.Context) ([]Video, error) {
	var out struct {
		Videos []Video `json:"videos"`
		Count  int     `json:"count"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/recommended", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Videos, nil
}

func pageQuery(page, limit int) string {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) doJSON(ctx context.Context, method, path string, s *Session, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(c.httpClient, req, s, out)
}

func (c *Client) send(hc *http.Client, req *http.Request, s *Session, out any) error {
	req.Header.Set("Accept", "application/json")
	if s != nil && s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode, Message: env.Message, Fields: env.Errors}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
