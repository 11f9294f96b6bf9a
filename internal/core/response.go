// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync/atomic"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

var exposeDetails atomic.Bool

// ExposeErrorDetails toggles stack traces on 500 responses. It is enabled
// outside production.
func ExposeErrorDetails(enabled bool) {
	exposeDetails.Store(enabled)
}

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, MsgUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = MsgForbidden
	}
	Error(w, http.StatusForbidden, message)
}

func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, MsgNotFound)
}

// HandleError is the single mapping from service and store failures to HTTP
// responses.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var conflictErr *ConflictError

	if msg, ok := ValidationMessage(err); ok {
		BadRequest(w, msg)
		return
	}

	switch {
	case errors.As(err, &conflictErr):
		if conflictErr.Field == "email" {
			BadRequest(w, MsgEmailExists)
			return
		}
		BadRequest(w, MsgDuplicateEntry)
	case errors.Is(err, ErrNotFound):
		NotFound(w)
	case errors.Is(err, ErrInvalidReference):
		BadRequest(w, MsgInvalidReference)
	case errors.Is(err, ErrUnauthorized):
		Unauthorized(w)
	case errors.Is(err, ErrForbidden):
		Forbidden(w, "")
	default:
		InternalServerError(w, r, err)
	}
}

func InternalServerError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	slog.ErrorContext(ctx, "internal server error",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"trace_id", TraceIDFromContext(ctx),
	)
	SetSpanError(ctx, err)

	resp := ErrorResponse{Error: MsgInternalError}
	if err != nil && err.Error() != "" {
		resp.Error = err.Error()
	}
	if exposeDetails.Load() {
		resp.Details = string(debug.Stack())
	}

	JSON(w, http.StatusInternalServerError, resp)
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return Invalid(MsgInvalidBody)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return Invalid(MsgInvalidBody)
	}
	return nil
}
