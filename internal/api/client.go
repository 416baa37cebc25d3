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

	"hackorsnooze/internal/domain"
	"hackorsnooze/internal/logger"
	"hackorsnooze/internal/metrics"
)

// DefaultBaseURL is the public Hack or Snooze v3 deployment.
const DefaultBaseURL = "https://hack-or-snooze-v3.herokuapp.com"

// Client talks to one API deployment. It is safe for concurrent use.
type Client struct {
	Base string
	HTTP *http.Client

	log     logger.Logger
	metrics *metrics.APIMetrics
}

var (
	_ domain.StoryService = (*Client)(nil)
	_ domain.AuthService  = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.HTTP = hc
		}
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.HTTP = &http.Client{Transport: c.HTTP.Transport, Timeout: d}
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = logger.OrNop(l) }
}

func WithMetrics(m *metrics.APIMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New returns a client for base, or DefaultBaseURL when base is empty.
func New(base string, opts ...Option) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	c := &Client{
		Base: strings.TrimRight(base, "/"),
		HTTP: http.DefaultClient,
		log:  logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call describes one request.
type call struct {
	op       string
	method   string
	path     string
	query    url.Values
	in       any
	out      any
	statuses statusMap
}

func (c *Client) do(ctx context.Context, cl call) (err error) {
	start := time.Now()
	reqID := uuid.NewString()
	defer func() {
		elapsed := time.Since(start)
		kind := domain.ErrorKind(err)
		c.metrics.Observe(cl.op, kind, elapsed.Seconds())
		fields := []logger.Field{
			logger.Op(cl.op),
			logger.String("request_id", reqID),
			logger.Duration("elapsed", elapsed),
		}
		if err != nil {
			c.log.Warn("api call failed", append(fields, logger.ErrorKind(kind), logger.Error(err))...)
			return
		}
		c.log.Debug("api call", fields...)
	}()

	var body io.Reader
	if cl.in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(cl.in); err != nil {
			return fmt.Errorf("%s: encode request: %w", cl.op, err)
		}
		body = buf
	}

	u := c.Base + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", cl.op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrRemoteUnavailable, cl.method, cl.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return statusError(cl.op, resp, cl.statuses)
	}
	if cl.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		return fmt.Errorf("%w: %s: decode response: %v", domain.ErrMalformedRecord, cl.op, err)
	}
	return nil
}

func storyPath(id string) string { return "/stories/" + url.PathEscape(id) }

func userPath(username string) string { return "/users/" + url.PathEscape(username) }

func favoritePath(username, storyID string) string {
	return userPath(username) + "/favorites/" + url.PathEscape(storyID)
}
