package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL   = "http://localhost:8080/api/v1"
	defaultUserAgent = "partner-panel-cli/1.0"
	defaultTimeout   = 15 * time.Second
)

type Client struct {
	HTTP        *http.Client
	BaseURL     string
	UserAgent   string
	AccessToken string
	TenantID    string
	Logger      logrus.FieldLogger
}

func NewClient() *Client {
	return &Client{
		HTTP: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:   DefaultBaseURL,
		UserAgent: defaultUserAgent,
		Logger:    logrus.StandardLogger(),
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, payload any) (*http.Request, error) {
	// path segments arrive already escaped, so join before parsing
	base, err := url.Parse(strings.TrimSuffix(c.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		base.RawQuery = query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, base.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if c.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	}
	if c.TenantID != "" {
		req.Header.Set("X-Tenant-ID", c.TenantID)
	}
	return req, nil
}

// do sends req and decodes a 2xx JSON body into dest. A nil dest discards the body.
func (c *Client) do(req *http.Request, dest any) error {
	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.logger().WithFields(logrus.Fields{
			"method":     req.Method,
			"path":       req.URL.Path,
			"request_id": req.Header.Get("X-Request-ID"),
		}).WithError(err).Debug("request failed")
		return err
	}
	defer resp.Body.Close()

	c.logger().WithFields(logrus.Fields{
		"method":      req.Method,
		"path":        req.URL.Path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
		"request_id":  req.Header.Get("X-Request-ID"),
	}).Debug("request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return newError(resp, body)
	}

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if err == io.EOF {
			return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrEmptyResponse)
		}
		return err
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return c.do(req, dest)
}

func (c *Client) send(ctx context.Context, method, path string, payload, dest any) error {
	req, err := c.newRequest(ctx, method, path, nil, payload)
	if err != nil {
		return err
	}
	return c.do(req, dest)
}

func (c *Client) logger() logrus.FieldLogger {
	if c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}

func resourcePath(collection, id string) string {
	return "/" + collection + "/" + url.PathEscape(id)
}
