// Package serrors defines the tagged error vocabulary shared by services and
// API controllers. Expected business outcomes (not found, duplicate, version
// conflict) are values of this type, never bare errors matched by string.
package serrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindUnknown             Kind = ""
	KindInvalidArgument     Kind = "invalid_argument"
	KindMissingPrecondition Kind = "missing_precondition"
	KindInvalidPrecondition Kind = "invalid_precondition"
	KindUnauthenticated     Kind = "unauthenticated"
	KindNotFound            Kind = "not_found"
	KindDuplicateConflict   Kind = "duplicate_conflict"
	KindVersionConflict     Kind = "version_conflict"
	KindNoOpRejected        Kind = "noop_rejected"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
)

type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Op, string(e.Kind))
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf walks the error chain and returns the kind of the first tagged
// error found, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error kind to the surface status code. Unknown kinds
// surface as 500 so that unclassified failures stay visibly broken.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidArgument, KindMissingPrecondition, KindInvalidPrecondition, KindNoOpRejected:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicateConflict, KindVersionConflict:
		return http.StatusConflict
	case KindUpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the stable machine-readable code used in API error envelopes.
func Code(kind Kind) string {
	switch kind {
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindMissingPrecondition:
		return "MISSING_PRECONDITION"
	case KindInvalidPrecondition:
		return "INVALID_PRECONDITION"
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindNotFound:
		return "NOT_FOUND"
	case KindDuplicateConflict:
		return "DUPLICATE_CONFLICT"
	case KindVersionConflict:
		return "VERSION_CONFLICT"
	case KindNoOpRejected:
		return "NOOP_REJECTED"
	case KindUpstreamUnavailable:
		return "UPSTREAM_UNAVAILABLE"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}
