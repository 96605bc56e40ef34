// Package apiclient is the HTTP transport of the admin client.
// It speaks JSON to the catalog API and turns non-2xx responses into
// *apperror.TransportError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"backoffice/internal/admin"
	"backoffice/internal/core/apperror"
	appctx "backoffice/internal/core/context"
	"backoffice/pkg/logger"
)

var tracer = otel.Tracer("backoffice/apiclient")

var _ admin.Transport = (*Client)(nil)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 64 << 10

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// HTTPClient overrides the default gzip-capable client (tests).
	HTTPClient *http.Client
}

// Client performs JSON requests relative to a base URL.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a client. The base URL must be absolute.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{
			Timeout:   timeout,
			Transport: gzhttp.Transport(http.DefaultTransport),
		}
	}

	return &Client{base: base, http: hc}, nil
}

// Get implements admin.Transport.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) (int, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post implements admin.Transport.
func (c *Client) Post(ctx context.Context, path string, body, out any) (int, error) {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Patch implements admin.Transport.
func (c *Client) Patch(ctx context.Context, path string, body, out any) (int, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete implements admin.Transport.
func (c *Client) Delete(ctx context.Context, path string) (int, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (int, error) {
	target := c.resolve(path, query)

	ctx, span := tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", target),
		))
	defer span.End()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid := appctx.GetRequestID(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	logger.Debug(ctx, "api call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		return resp.StatusCode, &apperror.TransportError{
			Method: method,
			URL:    target,
			Status: resp.StatusCode,
			Body:   raw,
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return resp.StatusCode, nil
}
