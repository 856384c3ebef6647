package pgrest

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SQLSTATE codes surfaced in the protocol's error body.
const (
	codeUniqueViolation = "23505"
)

// StoreError is a failure reported by the store itself, as opposed to a
// transport failure reaching it.
type StoreError struct {
	Status  int
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("store error %d: %s", e.Status, e.Message)
}

// IsUniqueViolation reports whether the store rejected a write because of a
// uniqueness constraint. The constraint is the authoritative defense against
// duplicate rows; callers translate this to their duplicate-conflict outcome.
func IsUniqueViolation(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Code == codeUniqueViolation
}

func decodeStoreError(status int, payload []byte) error {
	se := &StoreError{Status: status}
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
		Hint    string `json:"hint"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		se.Code = body.Code
		se.Message = body.Message
		se.Details = body.Details
		se.Hint = body.Hint
	} else {
		se.Message = string(payload)
	}
	return se
}
