// Package remote is the HTTP client for the /api/data and /api/auth endpoints.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/astromechza/tld-buddy/pkg/model"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "tld-buddy-session"

var ErrUnauthorized = errors.New("unauthorized")

type Client struct {
	baseUrl *url.URL
	client  *http.Client
}

// New builds a client against baseUrl. A nil httpClient gets a fresh client with its own cookie jar so the session
// cookie set by Login is replayed on later requests.
func New(baseUrl *url.URL, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		httpClient = &http.Client{Jar: jar}
	}
	return &Client{baseUrl: baseUrl, client: httpClient}, nil
}

// Load returns the raw remote document. Callers decide whether it is well formed.
func (c *Client) Load(ctx context.Context) (json.RawMessage, error) {
	resp, err := c.do(ctx, http.MethodGet, "api/data", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return raw, nil
}

func (c *Client) Save(ctx context.Context, data model.AppData) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode body: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPut, "api/data", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *Client) Login(ctx context.Context, password string) error {
	body, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return fmt.Errorf("failed to encode body: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "api/auth/login", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *Client) Check(ctx context.Context) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, "api/auth/check", nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return false, err
	}
	var out struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("failed to decode body: %w", err)
	}
	return out.Authenticated, nil
}

// SessionToken returns the session cookie currently held in the jar, or "" when there is none.
func (c *Client) SessionToken() string {
	if c.client.Jar == nil {
		return ""
	}
	for _, cookie := range c.client.Jar.Cookies(c.baseUrl) {
		if cookie.Name == SessionCookie {
			return cookie.Value
		}
	}
	return ""
}

// SetSessionToken seeds the jar with a previously obtained session token.
func (c *Client) SetSessionToken(token string) {
	if c.client.Jar == nil || token == "" {
		return
	}
	c.client.Jar.SetCookies(c.baseUrl, []*http.Cookie{{Name: SessionCookie, Value: token, Path: "/"}})
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl.JoinPath(path).String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to %s %s: %w", method, path, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
