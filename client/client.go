package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"campstock/internal/models"
)

// Client talks to the campstock API. All calls inject the session's
// bearer token and translate error bodies into Go errors. There are no
// automatic retries; callers decide what to do with a failure.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// New creates a client against the given base URL, for example
// "http://localhost:8080".
func New(baseURL string, session *Session) *Client {
	if session == nil {
		session = NewSession()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		session: session,
	}
}

// Session returns the client's session store
func (c *Client) Session() *Session {
	return c.session
}

// APIError is a non-2xx response translated into an error
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
}

// extractDetail pulls a human-readable message out of an error body.
// The server sends {"detail": "..."} for most failures; validation
// failures can carry an array of {"msg": ...} objects instead.
func extractDetail(body []byte) string {
	var direct struct {
		Detail json.RawMessage `json:"detail"`
		ErrMsg string          `json:"error"`
	}
	if err := json.Unmarshal(body, &direct); err != nil {
		return strings.TrimSpace(string(body))
	}
	if direct.ErrMsg != "" {
		return direct.ErrMsg
	}
	if len(direct.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var s string
	if err := json.Unmarshal(direct.Detail, &s); err == nil {
		return s
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(direct.Detail, &list); err == nil && len(list) > 0 {
		msgs := make([]string, 0, len(list))
		for _, item := range list {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return strings.TrimSpace(string(direct.Detail))
}

// do performs a request and decodes the JSON response into out (which
// may be nil). A 401 clears the session and returns ErrSessionExpired.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Clear()
		return ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Detail: extractDetail(data)}
	}

	if out != nil && len(data) > 0 {
		return json.Unmarshal(data, out)
	}
	return nil
}

// getJSON issues a GET and decodes the response
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

// sendJSON issues a request with a JSON body and decodes the response
func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, body, "application/json", out)
}

// uploadFile issues a multipart POST with one file field plus extra
// form fields, and decodes the response
func (c *Client) uploadFile(ctx context.Context, path, fieldName, fileName string, content io.Reader, fields map[string]string, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(fieldName, fileName)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, content); err != nil {
		return err
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	return c.do(ctx, http.MethodPost, path, &buf, w.FormDataContentType(), out)
}

// download issues a GET and returns the raw body plus the filename from
// the Content-Disposition header, for file exports
func (c *Client) download(ctx context.Context, path string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", err
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Clear()
		return nil, "", ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &APIError{StatusCode: resp.StatusCode, Detail: extractDetail(data)}
	}

	filename := ""
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if i := strings.Index(cd, "filename="); i >= 0 {
			filename = strings.Trim(cd[i+len("filename="):], `"`)
		}
	}
	return data, filename, nil
}

// TokenResponse is the login response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login authenticates with email and password and stores the session
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var token TokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &token); err != nil {
		return nil, err
	}
	c.session.Set(token.AccessToken, nil)

	var user models.User
	if err := c.getJSON(ctx, "/api/v1/auth/me", &user); err != nil {
		c.session.Clear()
		return nil, err
	}
	c.session.Set(token.AccessToken, &user)
	return &user, nil
}

// Logout clears the local session. Tokens are stateless server-side.
func (c *Client) Logout() {
	c.session.Clear()
}
