package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxResponseBytes = 8 << 20

var tracer = otel.Tracer("github.com/dfryer1193/cmsblog/shared/graphql")

// Config is everything the client needs to reach the CMS. An empty Token only
// disables mutations and authenticated queries.
type Config struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

// Observer receives one call per round trip. Outcome is "success", "config_error" or "transport_error".
type Observer interface {
	ObserveUpstream(operation string, outcome string, elapsed time.Duration)
}

type Option func(*Client)

// WithHTTPClient replaces the default client, whose only setting is Config.Timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// Client performs GraphQL requests against a single endpoint.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	observer   Observer
}

func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		endpoint:   cfg.Endpoint,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) HasEndpoint() bool {
	return c.endpoint != ""
}

func (c *Client) HasCredential() bool {
	return c.token != ""
}

type request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors gqlerror.List   `json:"errors"`
}

// Execute runs op with vars and decodes the data member of the response into out.
// out may be nil when the caller does not need the result.
func (c *Client) Execute(ctx context.Context, op Operation, vars map[string]any, out any) (err error) {
	ctx, span := tracer.Start(ctx, "graphql "+op.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("graphql.operation.name", op.Name),
			attribute.String("graphql.operation.type", op.Kind.String()),
		),
	)
	start := time.Now()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if c.observer != nil {
			c.observer.ObserveUpstream(op.Name, outcomeOf(err), time.Since(start))
		}
	}()

	if c.endpoint == "" {
		return ErrMissingEndpoint
	}
	if op.requiresCredential() && c.token == "" {
		return ErrMissingCredential
	}

	body, err := json.Marshal(request{Query: op.Document, Variables: vars, OperationName: op.Name})
	if err != nil {
		return &TransportError{Operation: op.Name, Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Operation: op.Name, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if op.requiresCredential() {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Operation: op.Name, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Operation: op.Name, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var envelope response
	decodeErr := json.Unmarshal(payload, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		te := &TransportError{Operation: op.Name, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
		if decodeErr == nil {
			te.Errors = envelope.Errors
		}
		return te
	}

	if decodeErr != nil {
		return &TransportError{Operation: op.Name, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", decodeErr)}
	}

	if len(envelope.Errors) > 0 {
		return &TransportError{Operation: op.Name, StatusCode: resp.StatusCode, Errors: envelope.Errors}
	}

	if out == nil || len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &TransportError{Operation: op.Name, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode data: %w", err)}
	}

	return nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsConfigurationError(err):
		return "config_error"
	default:
		return "transport_error"
	}
}
