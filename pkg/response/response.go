// Package response centralises JSON response writing.
//
// Failures always carry the same envelope:
//
//	{"error": "not_found", "message": "product 42 not found"}
//
// Success payloads are written as-is, so controllers stay in charge of
// their own response shapes.
package response

import (
	"encoding/json"
	"net/http"
)

// Pagination is the metadata block attached to paginated listings.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page count from total and limit.
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

type failure struct {
	Error   string      `json:"error"`
	Message interface{} `json:"message"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Success sends a 200 with v as the body.
func Success(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusOK, v)
}

// Created sends a 201 with v as the body.
func Created(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusCreated, v)
}

// Fail sends the uniform error envelope.
func Fail(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, failure{Error: code, Message: message})
}

// ValidationFail sends a 400 with a per-field error map as the message.
func ValidationFail(w http.ResponseWriter, errs map[string]string) {
	JSON(w, http.StatusBadRequest, failure{Error: "validation_error", Message: errs})
}

// BadRequest sends a 400.
func BadRequest(w http.ResponseWriter, message string) {
	Fail(w, http.StatusBadRequest, "bad_request", message)
}

// Unauthorized sends a 401. The message never reveals whether the key was
// missing or merely wrong.
func Unauthorized(w http.ResponseWriter) {
	Fail(w, http.StatusUnauthorized, "unauthorized", "a valid API key is required")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	Fail(w, http.StatusNotFound, "not_found", message)
}

// UnsupportedMediaType sends a 415.
func UnsupportedMediaType(w http.ResponseWriter) {
	Fail(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "request body must be JSON")
}

// Internal sends a 500 with a generic message.
func Internal(w http.ResponseWriter) {
	Fail(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred")
}
