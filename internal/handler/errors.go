package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"primariaPortal/internal/apperr"
	"primariaPortal/internal/logger"
)

// Response is the envelope of every error and of every mutation result.
type Response struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
	Data    any                 `json:"data,omitempty"`
}

const serverErrorMessage = "A apărut o eroare internă. Încercați din nou mai târziu."

// WriteError sends a failure envelope
func WriteError(w http.ResponseWriter, message string, statusCode int, fields ...apperr.FieldError) {
	writeJSON(w, Response{Success: false, Message: message, Errors: fields}, statusCode)
}

// WriteSuccess sends data as is; read endpoints return the resource directly
func WriteSuccess(w http.ResponseWriter, data any, statusCode int) {
	writeJSON(w, data, statusCode)
}

// WriteResult wraps a mutation result in the success envelope
func WriteResult(w http.ResponseWriter, message string, data any, statusCode int) {
	writeJSON(w, Response{Success: true, Message: message, Data: data}, statusCode)
}

// WriteAppError maps an error to its status. Unknown errors are logged with full
// detail and answered with a generic message.
func WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		WriteError(w, apperr.ErrValidation.Error(), http.StatusBadRequest, apperr.FieldsOf(err)...)
	case errors.Is(err, apperr.ErrUploadRejected):
		WriteError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, apperr.ErrUnauthorized):
		WriteError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, apperr.ErrForbidden):
		WriteError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, apperr.ErrNotFound):
		WriteError(w, err.Error(), http.StatusNotFound)
	default:
		logger.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		WriteError(w, serverErrorMessage, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Debugf("eroare la scrierea răspunsului: %v", err)
	}
}
