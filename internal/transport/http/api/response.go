package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"hrrecords/internal/domain/core"
)

// ErrorBody is the shape of every failed response.
type ErrorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, ErrorBody{Error: message, Code: code, RequestID: requestID})
}

// FromError writes the response for a domain error: 404 for ErrNotFound, 400
// for validation and coercion failures, 413 for oversized bodies and 500 for
// anything else. Internal details never reach the client.
func FromError(w http.ResponseWriter, err error, requestID string) {
	var verr *core.ValidationError
	var cerr *core.CoercionError
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, core.ErrNotFound):
		Fail(w, http.StatusNotFound, "not_found", "record not found", requestID)
	case errors.As(err, &verr):
		Fail(w, http.StatusBadRequest, "validation_error", verr.Error(), requestID)
	case errors.As(err, &cerr):
		Fail(w, http.StatusBadRequest, "coercion_error", cerr.Error(), requestID)
	case errors.As(err, &maxErr):
		Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
	default:
		slog.Error("request failed", "err", err, "request_id", requestID)
		Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}
