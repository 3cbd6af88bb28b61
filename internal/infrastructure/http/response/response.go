package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mrops-br/shopping-cart/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// StatusFor maps a domain error category to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error sends err with the status its category maps to.
func Error(w http.ResponseWriter, err error) {
	ErrorWithStatus(w, StatusFor(err), err)
}

// ErrorWithStatus writes err as a JSON error body with an explicit status.
func ErrorWithStatus(w http.ResponseWriter, status int, err error) {
	errorType := "error"
	switch status {
	case http.StatusNotFound:
		errorType = "not_found"
	case http.StatusBadRequest:
		errorType = "bad_request"
	case http.StatusConflict:
		errorType = "conflict"
	case http.StatusInternalServerError:
		errorType = "internal_server_error"
	}

	JSON(w, status, ErrorResponse{
		Error:   errorType,
		Message: err.Error(),
	})
}
