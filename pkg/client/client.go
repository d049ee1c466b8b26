package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/vaheed/coursenova/pkg/routes"
	"github.com/vaheed/coursenova/pkg/types"
)

// Client talks to the course API.
type Client struct {
	base  string
	http  *http.Client
	token string
}

func New(base, token string) *Client {
	return &Client{base: trim(base), http: http.DefaultClient, token: token}
}

// WithHTTPClient replaces the underlying http.Client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	if h != nil {
		c.http = h
	}
	return c
}

func trim(s string) string {
	if len(s) > 0 && s[len(s)-1] == '/' {
		return s[:len(s)-1]
	}
	return s
}

// Response is a raw API answer: the status code and the undecoded body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("empty response body (status %d)", r.StatusCode)
	}
	return json.Unmarshal(r.Body, v)
}

// APIError is returned by the typed helpers for non-2xx answers.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// Do issues a request against path (relative to the base URL) and reads the
// full body. Transport failures are the only errors; any status is returned.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	var br io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		br = bytes.NewReader(b)
	}
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, br)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: raw}, nil
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any, want int) error {
	resp, err := c.Do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if resp.StatusCode != want {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(resp.Body, apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

// CourseInput is the writable part of a course.
type CourseInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ListCourses returns courses matching the filter.
func (c *Client) ListCourses(ctx context.Context, f types.CourseFilter) ([]types.Course, error) {
	q := url.Values{}
	if f.ID != nil {
		q.Set("id", types.FormatID(*f.ID))
	}
	if f.Name != nil {
		q.Set("name", *f.Name)
	}
	var out []types.Course
	if err := c.call(ctx, http.MethodGet, routes.MustReverse(routes.CourseList), q, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCourse(ctx context.Context, id int64) (types.Course, error) {
	var out types.Course
	err := c.call(ctx, http.MethodGet, routes.MustReverse(routes.CourseDetail, id), nil, nil, &out, http.StatusOK)
	return out, err
}

func (c *Client) CreateCourse(ctx context.Context, name, description string) (types.Course, error) {
	var out types.Course
	in := CourseInput{Name: &name, Description: &description}
	err := c.call(ctx, http.MethodPost, routes.MustReverse(routes.CourseList), nil, in, &out, http.StatusCreated)
	return out, err
}

// UpdateCourse replaces name and description.
func (c *Client) UpdateCourse(ctx context.Context, id int64, name, description string) (types.Course, error) {
	var out types.Course
	in := CourseInput{Name: &name, Description: &description}
	err := c.call(ctx, http.MethodPut, routes.MustReverse(routes.CourseDetail, id), nil, in, &out, http.StatusOK)
	return out, err
}

// PatchCourse changes only the non-nil fields of in.
func (c *Client) PatchCourse(ctx context.Context, id int64, in CourseInput) (types.Course, error) {
	var out types.Course
	err := c.call(ctx, http.MethodPatch, routes.MustReverse(routes.CourseDetail, id), nil, in, &out, http.StatusOK)
	return out, err
}

func (c *Client) DeleteCourse(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, routes.MustReverse(routes.CourseDetail, id), nil, nil, nil, http.StatusNoContent)
}

// IssueToken asks the server to mint a token; requires an admin token when auth is on.
func (c *Client) IssueToken(ctx context.Context, subject string, roles []string, ttlMinutes int) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]any{"subject": subject, "roles": roles, "ttlMinutes": ttlMinutes}
	if err := c.call(ctx, http.MethodPost, "/tokens", nil, body, &out, http.StatusCreated); err != nil {
		return "", err
	}
	return out.Token, nil
}
