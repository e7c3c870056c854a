package graphql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

// ConfigurationError reports a client setting that is required but missing.
// It is never retried.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return "graphql: missing configuration: " + e.Setting
}

var (
	ErrMissingEndpoint   = &ConfigurationError{Setting: "endpoint"}
	ErrMissingCredential = &ConfigurationError{Setting: "bearer token"}
)

// TransportError is any failed round trip: network failure (StatusCode 0), a non-2xx
// status, GraphQL errors in the response body, or a response that could not be decoded.
type TransportError struct {
	Operation  string
	StatusCode int
	Errors     gqlerror.List
	Err        error
}

func (e *TransportError) Error() string {
	var detail string
	switch {
	case len(e.Errors) > 0:
		msgs := make([]string, 0, len(e.Errors))
		for _, ge := range e.Errors {
			msgs = append(msgs, ge.Message)
		}
		detail = strings.Join(msgs, "; ")
	case e.Err != nil:
		detail = e.Err.Error()
	default:
		detail = "unknown failure"
	}

	if e.StatusCode != 0 {
		return fmt.Sprintf("graphql: %s failed with status %d: %s", e.Operation, e.StatusCode, detail)
	}
	return fmt.Sprintf("graphql: %s failed: %s", e.Operation, detail)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusCode returns the upstream HTTP status carried by err, or 0 when there is none.
func StatusCode(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}

// IsConfigurationError reports whether err is caused by missing client configuration.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
