/*
Copyright the Mirrorctl contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package client

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies a control-plane failure into the categories the
// orchestration layers act on. Everything above this package depends on the
// Kind, never on HTTP status codes.
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindNotFound        Kind = "not-found"
	KindConflict        Kind = "conflict"
	KindTransient       Kind = "transient"
	KindUnknown         Kind = "unknown"
)

// APIError is a structured failure from the control plane.
type APIError struct {
	Kind       Kind
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("control plane returned %d (%s): %s", e.StatusCode, e.Kind, e.Message)
	}
	return fmt.Sprintf("control plane error (%s): %s", e.Kind, e.Message)
}

// NewNotFound returns a NotFound APIError for a resource that a lookup
// produced no records for. Collection queries return 200 with zero records,
// so absence cannot be mapped from the status code alone.
func NewNotFound(resource string) error {
	return errors.WithStack(&APIError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	})
}

// NewTransient wraps a transport-level failure (connection reset, DNS,
// timeout) as a retryable error.
func NewTransient(err error) error {
	return errors.WithStack(&APIError{
		Kind:    KindTransient,
		Message: err.Error(),
	})
}

func kindForStatus(code int) Kind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindUnauthenticated
	case code == http.StatusNotFound:
		return KindNotFound
	case code == http.StatusConflict:
		return KindConflict
	case code == http.StatusTooManyRequests || code >= 500:
		return KindTransient
	default:
		return KindUnknown
	}
}

func errorKind(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsNotFound reports whether err represents an absent resource.
func IsNotFound(err error) bool { return errorKind(err) == KindNotFound }

// IsConflict reports whether err represents a concurrent-mutation rejection.
// Conflicts are retryable with backoff; the controller's own concurrency
// control is the only cross-invocation safety net.
func IsConflict(err error) bool { return errorKind(err) == KindConflict }

// IsTransient reports whether err represents a transport or server hiccup.
func IsTransient(err error) bool { return errorKind(err) == KindTransient }

// IsUnauthenticated reports whether err represents an authentication failure.
func IsUnauthenticated(err error) bool { return errorKind(err) == KindUnauthenticated }

// IsRetriable reports whether err may succeed on a later attempt.
// PreconditionFailed-style errors are never retriable.
func IsRetriable(err error) bool { return IsConflict(err) || IsTransient(err) }
