package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	gqlclient "github.com/hasura/go-graphql-client"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrSessionConflict is returned by a transport entered while another
// call still holds its session.
var ErrSessionConflict = errors.New("graphql: transport already connected")

// Transport executes one GraphQL document and returns the decoded "data"
// object.
type Transport interface {
	Execute(ctx context.Context, query string, variables map[string]any) (map[string]any, error)
}

// HTTPTransport posts documents to a GraphQL endpoint. Like the session
// based transports it replaces, it admits one active call at a time and
// fails fast with ErrSessionConflict instead of queueing.
type HTTPTransport struct {
	gql    *gqlclient.Client
	active atomic.Bool
}

// NewHTTPTransport builds a transport for endpoint. httpClient carries
// authentication; nil means http.DefaultClient.
func NewHTTPTransport(endpoint string, httpClient *http.Client) *HTTPTransport {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPTransport{gql: gqlclient.NewClient(endpoint, httpClient)}
}

// Execute implements Transport.
func (t *HTTPTransport) Execute(ctx context.Context, query string, variables map[string]any) (map[string]any, error) {
	if !t.active.CompareAndSwap(false, true) {
		return nil, ErrSessionConflict
	}
	defer t.active.Store(false)

	raw, err := t.gql.ExecRaw(ctx, query, variables)
	if err != nil {
		return nil, fromClientError(err)
	}

	data := map[string]any{}
	if len(raw) == 0 || string(raw) == "null" {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding graphql data: %w", err)
	}
	return data, nil
}

// OAuth2HTTPClient returns an HTTP client that obtains and refreshes
// tokens with the client-credentials grant.
func OAuth2HTTPClient(opts Options) *http.Client {
	cfg := clientcredentials.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		TokenURL:     opts.TokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	ctx := context.Background()
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}
	return cfg.Client(ctx)
}
