package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/carelog/carelog/pkg/httpapi"
	"github.com/carelog/carelog/pkg/serrors"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if err := httpapi.WriteJSON(w, status, payload); err != nil {
		panic(err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, serrors.Code(serrors.KindInvalidArgument), "invalid json body", nil)
		return false
	}
	return true
}

func writeValidationErrors(w http.ResponseWriter, errs map[string]string) {
	_ = httpapi.WriteError(w, http.StatusBadRequest, serrors.Code(serrors.KindInvalidArgument), "validation failed", errs)
}
