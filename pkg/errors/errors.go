package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFetchFailed marks an aborted fetch phase. A run never diffs against partial state.
var ErrFetchFailed = errors.New("fetch of live state failed")

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation is returned when validation fails
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrRemote is returned when a remote API answers with a non-2xx status
type ErrRemote struct {
	Service string
	Status  int
	Body    string
}

func (e *ErrRemote) Error() string {
	return fmt.Sprintf("%s API error: status %d, body: %s", e.Service, e.Status, e.Body)
}

// Transient reports whether the request may succeed if retried (rate limit or server error).
func (e *ErrRemote) Transient() bool {
	return e.Status == 429 || e.Status >= 500
}

// UserError is one entry of a GraphQL mutation's userErrors list
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// ErrUserErrors is returned when a mutation succeeds at the HTTP level but reports userErrors
type ErrUserErrors struct {
	Operation string
	Errors    []UserError
}

func (e *ErrUserErrors) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ue := range e.Errors {
		if len(ue.Field) > 0 {
			msgs[i] = strings.Join(ue.Field, ".") + ": " + ue.Message
		} else {
			msgs[i] = ue.Message
		}
	}
	return fmt.Sprintf("%s userErrors: %s", e.Operation, strings.Join(msgs, "; "))
}

// IsTransient reports whether err (or anything it wraps) is a retryable remote failure
func IsTransient(err error) bool {
	var remote *ErrRemote
	if errors.As(err, &remote) {
		return remote.Transient()
	}
	return false
}
