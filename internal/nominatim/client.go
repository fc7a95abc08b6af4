// Package nominatim provides a client for the Nominatim geocoding API.
//
// Requests are configured through chained builders obtained from a Client:
//
//	lookup := client.NewLookup().Format(nominatim.FormatXML).OsmIDs("R146656,W104393803")
//	resp, err := client.Send(ctx, lookup)
//
// Each builder describes one request. Setters validate their argument and
// record the first violation, which Send returns without touching the network.
package nominatim

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nominatim_gateway/platform/logger"
)

// DefaultBaseURL is the public OpenStreetMap Nominatim instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org/"

// Observer is notified once per round trip. statusCode is 0 on transport failures.
type Observer interface {
	ObserveRequest(endpoint string, statusCode int, elapsed time.Duration)
}

// Client sends requests to one Nominatim instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
	log        *logger.Logger
	observer   Observer
	email      string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithUserAgent sets the User-Agent header. The public instance rejects
// requests that do not identify the application.
func WithUserAgent(userAgent string) Option {
	return WithHeader("User-Agent", userAgent)
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if strings.TrimSpace(value) != "" {
			c.headers.Set(key, value)
		}
	}
}

// WithEmail adds the email parameter to every search, reverse, lookup and
// details request created by the client.
func WithEmail(address string) Option {
	return func(c *Client) {
		c.email = strings.TrimSpace(address)
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// New creates a client for the instance at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse nominatim base url: %w", err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("nominatim base url %q must be an absolute http(s) url", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/",
		httpClient: &http.Client{},
		headers:    make(http.Header),
		log:        logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.email != "" {
		if err := validate.Var(c.email, "email"); err != nil {
			return nil, &InvalidParameterError{Param: "email", Value: c.email, Reason: "must be a valid e-mail address"}
		}
	}
	return c, nil
}

// BaseURL returns the normalized base URL, always ending in a slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) NewSearch() *Search {
	s := newSearch()
	seed(c, &s.builder)
	return s
}

func (c *Client) NewReverse() *Reverse {
	r := newReverse()
	seed(c, &r.builder)
	return r
}

func (c *Client) NewLookup() *Lookup {
	l := newLookup()
	seed(c, &l.builder)
	return l
}

func (c *Client) NewDetails() *Details {
	d := newDetails()
	seed(c, &d.builder)
	return d
}

func (c *Client) NewStatus() *Status {
	return newStatus()
}

func seed[T any](c *Client, b *builder[T]) {
	if c.email != "" {
		b.query.Set("email", c.email)
	}
}

// URL returns the address req is sent to.
func (c *Client) URL(req Request) string {
	target := c.baseURL + req.Endpoint()
	if qs := req.QueryString(); qs != "" {
		target += "?" + qs
	}
	return target
}

// Send issues req and returns the body of a 2xx response. A builder holding a
// validation error is rejected before any network I/O. Non-2xx statuses and
// transport failures are returned as *RequestError.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	if err := req.Err(); err != nil {
		return nil, err
	}

	endpoint := req.Endpoint()
	method := req.HTTPMethod()
	log := c.log.WithContext(ctx)

	httpReq, err := http.NewRequestWithContext(ctx, method, c.URL(req), nil)
	if err != nil {
		return nil, &RequestError{Method: method, Endpoint: endpoint, Err: fmt.Errorf("create request: %w", err)}
	}
	for key, values := range c.headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observe(endpoint, 0, time.Since(start))
		log.Error("nominatim request failed", "endpoint", endpoint, "error", err)
		return nil, &RequestError{Method: method, Endpoint: endpoint, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	c.observe(endpoint, resp.StatusCode, elapsed)
	if err != nil {
		log.Error("failed to read nominatim payload", "endpoint", endpoint, "error", err)
		return nil, &RequestError{Method: method, Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	log.UpstreamCall(method, endpoint, resp.StatusCode, float64(elapsed.Milliseconds()))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Error("nominatim upstream error", "endpoint", endpoint, "status", resp.StatusCode)
		return nil, &RequestError{Method: method, Endpoint: endpoint, StatusCode: resp.StatusCode, Body: body}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Format:     req.ResponseFormat(),
	}, nil
}

// Find sends req and decodes the JSON body into generic maps and slices.
func (c *Client) Find(ctx context.Context, req Request) (interface{}, error) {
	resp, err := c.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Decode()
}

// Status queries /status and fails unless the server reports itself healthy.
func (c *Client) Status(ctx context.Context) (StatusReport, error) {
	var report StatusReport
	resp, err := c.Send(ctx, c.NewStatus())
	if err != nil {
		return report, err
	}
	if err := resp.DecodeJSON(&report); err != nil {
		return report, err
	}
	if !report.OK() {
		return report, fmt.Errorf("nominatim status %d: %s", report.Status, report.Message)
	}
	return report, nil
}

func (c *Client) observe(endpoint string, statusCode int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(endpoint, statusCode, elapsed)
	}
}
