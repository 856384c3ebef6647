package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carelog/carelog/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// WriteTaggedError renders an error from the service layer using its kind's
// status and code. Untagged errors surface as a generic 500 with no detail,
// so internal messages never leak to the caller.
func WriteTaggedError(w http.ResponseWriter, err error) error {
	kind := serrors.KindOf(err)
	message := "internal server error"
	if kind != serrors.KindUnknown {
		var se *serrors.Error
		if errors.As(err, &se) && se.Message != "" {
			message = se.Message
		} else {
			message = defaultMessage(kind)
		}
	}
	return WriteError(w, serrors.HTTPStatus(kind), serrors.Code(kind), message, nil)
}

func defaultMessage(kind serrors.Kind) string {
	switch kind {
	case serrors.KindInvalidArgument:
		return "invalid argument"
	case serrors.KindMissingPrecondition:
		return "missing precondition header"
	case serrors.KindInvalidPrecondition:
		return "malformed precondition header"
	case serrors.KindUnauthenticated:
		return "authentication required"
	case serrors.KindNotFound:
		return "resource not found"
	case serrors.KindDuplicateConflict:
		return "resource already exists"
	case serrors.KindVersionConflict:
		return "resource was modified concurrently"
	case serrors.KindNoOpRejected:
		return "update changes nothing"
	case serrors.KindUpstreamUnavailable:
		return "upstream store unavailable"
	default:
		return "internal server error"
	}
}
