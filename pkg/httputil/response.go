package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/danupra/hrisgo/pkg/errors"
	"github.com/danupra/hrisgo/pkg/logger"
	"github.com/danupra/hrisgo/pkg/validator"
)

// Response is the JSON envelope used by every endpoint. Paging is only set
// on list responses.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
	Paging  any    `json:"paging,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// Headers are already sent if encoding fails, so the error is swallowed.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteOK writes a success envelope with the given data and message.
func WriteOK(w http.ResponseWriter, status int, data any, message string) {
	WriteJSON(w, status, Response{Success: true, Data: data, Message: message})
}

// WriteList writes a success envelope with a paging block attached.
func WriteList(w http.ResponseWriter, data any, paging any, message string) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: data, Message: message, Paging: paging})
}

// WriteError translates a domain error into the failure envelope
// {success:false, data:null, message}. Internal errors are logged with the
// request-scoped logger and surfaced with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	status := apperrors.HTTPStatus(err)
	message := "internal server error"

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && status != http.StatusInternalServerError {
		message = appErr.Message
	}

	if status == http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, Response{Success: false, Data: nil, Message: message})
}

// WriteValidationError writes a 400 failure envelope. Field-level messages
// from the validator are joined into the message string.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{Success: false, Data: nil, Message: valErr.Error()})
		return
	}
	WriteJSON(w, http.StatusBadRequest, Response{Success: false, Data: nil, Message: err.Error()})
}
