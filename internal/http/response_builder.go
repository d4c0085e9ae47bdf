// Package http exposes the JSON API.
//
// This file implements a small builder for JSON responses so every handler
// writes the same content type and envelope shapes.

package http

import (
	"encoding/json"
	"net/http"
)

const contentTypeJSON = "application/json; charset=utf-8"

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       any
}

// NewJSONResponse creates a builder with a default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(key, value string) *JSONResponseBuilder {
	b.headers[key] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write sends headers, status and the encoded body.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for k, v := range b.headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(b.statusCode)
	if b.body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(b.body)
}

// messageBody is the shape of success messages and failure envelopes.
// Error is only filled for unexpected failures.
type messageBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// MessageResponse builds a {"message": ...} response.
func MessageResponse(status int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(status).Body(messageBody{Message: message})
}

// ErrorResponse builds the failure envelope.
func ErrorResponse(status int, message, detail string) *JSONResponseBuilder {
	return NewJSONResponse().Status(status).Body(messageBody{Message: message, Error: detail})
}

// writeJSON is shorthand for the common success case.
func writeJSON(w http.ResponseWriter, status int, v any) {
	NewJSONResponse().Status(status).Body(v).Write(w)
}
