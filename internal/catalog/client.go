// Package catalog fetches the product list from the remote demo API and
// tracks its load state for the presentation layers.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL = "https://dummyjson.com"
	DefaultLimit   = 12

	tracerName = "github.com/jcmexdev/storefront/internal/catalog"
)

// ErrFetchFailed covers every fetch failure: transport errors, non-2xx
// status, and bodies that are not an object with a products array.
var ErrFetchFailed = errors.New("catalog: fetch failed")

// Client fetches the product list. No retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limit      int
	tracer     trace.Tracer
	log        *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimit sets the page size requested from the API.
func WithLimit(n int) ClientOption {
	return func(c *Client) { c.limit = n }
}

// WithTimeout bounds the whole request. Zero leaves the transport default.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) ClientOption {
	return func(c *Client) { c.tracer = tp.Tracer(tracerName) }
}

// WithClientLogger sets the logger. Defaults to slog.Default().
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// NewClient returns a Client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		limit:      DefaultLimit,
		tracer:     otel.Tracer(tracerName),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL is the endpoint FetchProducts calls.
func (c *Client) URL() string {
	q := url.Values{"limit": []string{strconv.Itoa(c.limit)}}
	return c.baseURL + "/products?" + q.Encode()
}

// FetchProducts issues a single GET and decodes the product list.
func (c *Client) FetchProducts(ctx context.Context) ([]ProductDTO, error) {
	fetchID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "catalog.FetchProducts",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("catalog.fetch_id", fetchID),
			attribute.String("url.full", c.URL()),
		),
	)
	defer span.End()

	products, err := c.fetch(ctx, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.WarnContext(ctx, "catalog fetch failed", "fetch_id", fetchID, "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("catalog.product_count", len(products)))
	c.log.InfoContext(ctx, "catalog fetched", "fetch_id", fetchID, "count", len(products))
	return products, nil
}

func (c *Client) fetch(ctx context.Context, span trace.Span) ([]ProductDTO, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFetchFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	var body ProductsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrFetchFailed, err)
	}
	if body.Products == nil {
		return nil, fmt.Errorf("%w: response has no products array", ErrFetchFailed)
	}
	return *body.Products, nil
}
