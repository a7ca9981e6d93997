package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

func WriteJSON(w http.ResponseWriter, payload any, code int) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(payload)
}

func DecodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// ValidationErrorResponse contains field-specific validation messages
// swagger:model ValidationErrorResponse
type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

func WriteValidationError(w http.ResponseWriter, err error) error {
	res := ValidationErrorResponse{
		Message: "invalid request",
		Fields:  make(map[string]string),
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, err := range ve {
			res.Fields[err.Field()] = err.Tag()
		}
	}

	return WriteJSON(w, res, http.StatusBadRequest)
}

// ErrorResponse describes a standard error response
// swagger:model ErrorResponse
type ErrorResponse struct {
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, message string, code int) error {
	return WriteJSON(w, ErrorResponse{Message: message}, code)
}

// ConflictResponse describes a business-rule rejection
// swagger:model ConflictResponse
type ConflictResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	OrderID   int64     `json:"order_id"`
	Timestamp time.Time `json:"timestamp"`
}

func WriteConflict(w http.ResponseWriter, message string, orderID int64) error {
	return WriteJSON(w, ConflictResponse{
		Error:     "operation not permitted",
		Message:   message,
		OrderID:   orderID,
		Timestamp: time.Now().UTC(),
	}, http.StatusConflict)
}
