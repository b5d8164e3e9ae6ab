package settingsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	graphql "github.com/hasura/go-graphql-client"
	"golang.org/x/sync/singleflight"

	"github.com/germanamz/providerctl/pkg/provider"
)

// ErrNotFound is returned when a provider id is not among the saved
// providers.
var ErrNotFound = errors.New("settingsapi: provider not found")

// RequestIDHeader carries the per-call correlation id.
const RequestIDHeader = "X-Request-ID"

// Auth holds the credentials sent with every call.
type Auth struct {
	Token  string // Token value; empty disables the header.
	Header string // Header name (default: "Authorization").
	Scheme string // Scheme prefix (default: "Bearer" when Header is "Authorization").
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the transport. Nil keeps http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithAuth sets the credentials.
func WithAuth(a Auth) Option {
	return func(c *Client) { c.auth = a }
}

// WithHeader adds a header to every call.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithLogger sets the logger for request tracing. Nil keeps the discard
// logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithCatalogTTL bounds how long a fetched catalog is served from memory.
// Zero keeps it until a mutation invalidates it.
func WithCatalogTTL(d time.Duration) Option {
	return func(c *Client) { c.ttl = d }
}

// Client talks to the provider settings GraphQL API. It is safe for
// concurrent use. The catalog is fetched at most once at a time and cached
// until a successful mutation or the TTL expires.
type Client struct {
	gql        *graphql.Client
	httpClient *http.Client
	auth       Auth
	headers    map[string]string
	log        *slog.Logger
	ttl        time.Duration
	now        func() time.Time

	sf        singleflight.Group
	mu        sync.Mutex
	catalog   *provider.Catalog
	fetchedAt time.Time
	gen       uint64
}

// New creates a Client for the GraphQL endpoint at url.
func New(url string, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		headers:    make(map[string]string),
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	c.gql = graphql.NewClient(url, c.httpClient).WithRequestModifier(c.modifyRequest)
	return c
}

type requestIDKey struct{}

func (c *Client) modifyRequest(r *http.Request) {
	if c.auth.Token != "" {
		header := c.auth.Header
		if header == "" {
			header = "Authorization"
		}

		value := c.auth.Token
		if header == "Authorization" {
			scheme := c.auth.Scheme
			if scheme == "" {
				scheme = "Bearer"
			}
			value = scheme + " " + value
		} else if c.auth.Scheme != "" {
			value = c.auth.Scheme + " " + value
		}

		r.Header.Set(header, value)
	}

	for k, v := range c.headers {
		r.Header.Set(k, v)
	}

	id, ok := r.Context().Value(requestIDKey{}).(string)
	if !ok {
		id = uuid.NewString()
	}
	r.Header.Set(RequestIDHeader, id)
}

// exec runs one operation and decodes its normalized data into dest.
func (c *Client) exec(ctx context.Context, op, query string, vars map[string]any, dest any) error {
	id := uuid.NewString()
	ctx = context.WithValue(ctx, requestIDKey{}, id)
	start := c.now()

	raw, err := c.gql.ExecRaw(ctx, query, vars, graphql.OperationName(op))
	if err != nil {
		c.log.ErrorContext(ctx, "graphql call failed",
			"op", op,
			"request_id", id,
			"duration", c.now().Sub(start),
			"error", err,
		)
		return fmt.Errorf("settingsapi: %s: %w", op, err)
	}

	c.log.DebugContext(ctx, "graphql call",
		"op", op,
		"request_id", id,
		"duration", c.now().Sub(start),
	)

	data, err := NormalizeJSON(raw)
	if err != nil {
		return fmt.Errorf("settingsapi: %s: %w", op, err)
	}

	if c.log.Enabled(ctx, slog.LevelDebug) {
		var v any
		if json.Unmarshal(data, &v) == nil {
			c.log.DebugContext(ctx, "graphql response", "op", op, "request_id", id, "data", Normalize(v))
		}
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("settingsapi: %s: decode response: %w", op, err)
	}
	return nil
}
