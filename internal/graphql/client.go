// Package graphql owns the single connection to the Pipefy GraphQL API.
//
// A Client wraps one Transport bound to one OAuth2 client-credentials
// endpoint and serializes every Execute call through a FIFO lock: the
// transport supports a single active session, so two tool calls sharing
// the client run their network round trips one after the other.
package graphql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"golang.org/x/sync/semaphore"
)

// ErrConfig reports missing or contradictory client configuration.
var ErrConfig = errors.New("graphql: invalid configuration")

// Options configures a Client.
type Options struct {
	Endpoint     string
	TokenURL     string
	ClientID     string
	ClientSecret string

	// Schema is an optional SDL document. When set, every query is
	// validated against it before it is sent.
	Schema string

	// Transport is a pre-built transport to reuse. It already carries its
	// own endpoint and credentials, so Schema must be empty.
	Transport Transport

	// HTTPClient is the base client used for token and API requests.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client is the shared, lock-guarded GraphQL executor. It is safe for
// concurrent use.
type Client struct {
	transport Transport
	schema    *ast.Schema
	sem       *semaphore.Weighted
	logger    *slog.Logger
}

// NewClient validates opts and builds a Client. It returns an error
// wrapping ErrConfig when credentials are missing or when both Schema and
// Transport are supplied.
func NewClient(opts Options) (*Client, error) {
	if opts.Schema != "" && opts.Transport != nil {
		return nil, fmt.Errorf("%w: cannot specify both a schema and a pre-built transport; "+
			"a reused transport already has its schema configured", ErrConfig)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	transport := opts.Transport
	if transport == nil {
		if missing := missingCredentials(opts); len(missing) > 0 {
			return nil, fmt.Errorf("%w: missing %s", ErrConfig, strings.Join(missing, ", "))
		}
		transport = NewHTTPTransport(opts.Endpoint, OAuth2HTTPClient(opts))
	}

	c := &Client{
		transport: transport,
		sem:       semaphore.NewWeighted(1),
		logger:    logger,
	}

	if opts.Schema != "" {
		schema, err := gqlparser.LoadSchema(&ast.Source{Name: "pipefy.graphql", Input: opts.Schema})
		if err != nil {
			return nil, fmt.Errorf("%w: loading schema: %v", ErrConfig, err)
		}
		c.schema = schema
	}

	return c, nil
}

func missingCredentials(opts Options) []string {
	var missing []string
	if strings.TrimSpace(opts.Endpoint) == "" {
		missing = append(missing, "endpoint URL")
	}
	if strings.TrimSpace(opts.TokenURL) == "" {
		missing = append(missing, "token URL")
	}
	if strings.TrimSpace(opts.ClientID) == "" {
		missing = append(missing, "client id")
	}
	if strings.TrimSpace(opts.ClientSecret) == "" {
		missing = append(missing, "client secret")
	}
	return missing
}

// Execute runs one GraphQL document with variables. Calls are admitted one
// at a time in arrival order; ctx only bounds the wait for the lock and
// whatever the transport honours. Transport errors are returned unchanged.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (map[string]any, error) {
	if c.schema != nil {
		if _, errs := gqlparser.LoadQuery(c.schema, query); len(errs) > 0 {
			return nil, fromValidation(errs)
		}
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	op := operationName(query)
	start := time.Now()
	data, err := c.transport.Execute(ctx, query, variables)
	if err != nil {
		c.logger.Warn("graphql operation failed", "operation", op, "duration", time.Since(start), "error", err)
		return nil, err
	}
	c.logger.Debug("graphql operation", "operation", op, "duration", time.Since(start))
	return data, nil
}

var rootFieldRe = regexp.MustCompile(`\{\s*([A-Za-z_][A-Za-z0-9_]*)`)

// operationName returns the first root field of a document, used only
// for log lines.
func operationName(query string) string {
	m := rootFieldRe.FindStringSubmatch(query)
	if m == nil {
		return "unknown"
	}
	return m[1]
}
