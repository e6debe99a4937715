package startgg

import (
	"fmt"
	"strings"

	"github.com/smashcolombia/startgg-stats/internal/usecase"
)

// TransportError wraps a network-level failure: DNS, connection, TLS or a
// request timeout. Retrying is the caller's decision; the client never
// retries on its own.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("startgg transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == usecase.ErrUpstream }

// HTTPStatusError reports a non-2xx response from the GraphQL endpoint.
type HTTPStatusError struct {
	Status int
	Body   string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("startgg status=%d body=%s", e.Status, e.Body)
}

func (e *HTTPStatusError) Is(target error) bool { return target == usecase.ErrUpstream }

// GraphQLError reports a 200 response carrying an errors array.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "startgg graphql errors: " + strings.Join(e.Messages, "; ")
}

func (e *GraphQLError) Is(target error) bool { return target == usecase.ErrUpstream }

// MalformedResponseError reports a body that is not parseable JSON or that
// lacks the data shape the query promises.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("startgg malformed response: %s: %v", e.Reason, e.Err)
	}
	return "startgg malformed response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == usecase.ErrUpstream }

// isCircuitFailure decides whether a request outcome should trip the breaker.
// Client-side GraphQL errors and 4xx responses are not provider outages.
func isCircuitFailure(err error) bool {
	switch typed := err.(type) {
	case *TransportError:
		return true
	case *HTTPStatusError:
		return typed.Status == 429 || typed.Status >= 500
	default:
		return false
	}
}
