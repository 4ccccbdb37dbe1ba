package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"WorshipHub/logger"

	"github.com/golang-jwt/jwt/v5"
)

// body is an encoded request body with its content type.
type body struct {
	reader      io.Reader
	contentType string
}

func jsonBody(v interface{}) (*body, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return &body{reader: bytes.NewReader(data), contentType: "application/json"}, nil
}

// filePart is an optional file attached to a multipart body.
type filePart struct {
	field    string
	filename string
	data     []byte
}

func multipartBody(fields map[string]string, file *filePart) (*body, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if file != nil && len(file.data) > 0 {
		part, err := w.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, fmt.Errorf("create file part: %w", err)
		}
		if _, err := part.Write(file.data); err != nil {
			return nil, fmt.Errorf("write file part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return &body{reader: &buf, contentType: w.FormDataContentType()}, nil
}

func (c *Client) createRequest(ctx context.Context, method, path string, b *body) (*http.Request, error) {
	var reader io.Reader
	if b != nil {
		reader = b.reader
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimSuffix(c.baseURL, "/")+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if b != nil {
		req.Header.Set("Content-Type", b.contentType)
	}
	return req, nil
}

// do sends one authenticated request and decodes a JSON response into out
// (when non-nil). A 401 clears the stored credentials and yields ErrUnauthorized.
func (c *Client) do(ctx context.Context, method, path string, b *body, out interface{}) error {
	return c.send(ctx, method, path, b, out, true)
}

func (c *Client) send(ctx context.Context, method, path string, b *body, out interface{}, auth bool) error {
	var token string
	if auth {
		token = c.token()
	}
	if token != "" && c.tokenExpired(token) {
		logger.Info("stored token expired, skipping request", logger.String("path", path))
		c.unauthorized()
		return ErrUnauthorized
	}

	req, err := c.createRequest(ctx, method, path, b)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("request failed", logger.String("method", method), logger.String("path", path), logger.ErrorField(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	logger.Debug("api request",
		logger.String("method", method),
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", time.Since(start)))

	if resp.StatusCode == http.StatusUnauthorized && auth {
		c.unauthorized()
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// getOne reads a single entity. An empty or null body is an error, so it is
// never cached as a valid entry.
func getOne[T any](ctx context.Context, c *Client, path string) (*T, error) {
	var out *T
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%w: GET %s", ErrEmptyResponse, path)
	}
	return out, nil
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &payload) == nil {
		switch {
		case payload.Message != "":
			msg = payload.Message
		case payload.Error != "":
			msg = payload.Error
		}
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

func (c *Client) token() string {
	if c.session == nil {
		return ""
	}
	sess, err := c.session.Load()
	if err != nil {
		logger.Warn("failed to read session, sending anonymous request", logger.ErrorField(err))
		return ""
	}
	return sess.Token
}

// unauthorized drops the stored credentials and everything cached under them.
func (c *Client) unauthorized() {
	if c.session != nil {
		if err := c.session.Clear(); err != nil {
			logger.Error("failed to clear session", logger.ErrorField(err))
		}
	}
	c.cache.Clear(context.Background())
}

// TokenExpiry returns the exp claim of a JWT token without verifying it.
// ok is false for tokens that are not JWTs or carry no exp.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	date, err := parsed.Claims.GetExpirationTime()
	if err != nil || date == nil {
		return time.Time{}, false
	}
	return date.Time, true
}

func (c *Client) tokenExpired(token string) bool {
	exp, ok := TokenExpiry(token)
	return ok && !c.now().Before(exp)
}
