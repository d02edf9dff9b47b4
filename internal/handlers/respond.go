// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP surface of the widget delivery
// service: public render/embed/script/analytics endpoints and the
// key-scoped programmatic routes.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error codes surfaced in the response envelope.
const (
	CodeWidgetNotFound    = "WIDGET_NOT_FOUND"
	CodeRenderError       = "RENDER_ERROR"
	CodeValidationError   = "VALIDATION_ERROR"
	CodeInvalidAPIKey     = "INVALID_API_KEY"
	CodeInsufficientScope = "INSUFFICIENT_SCOPE"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternalError     = "INTERNAL_ERROR"
)

// errorBody is the error half of the response envelope. Field carries
// field-level detail for validation failures.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// envelope is the standard JSON response shape: exactly one of Data or
// Error is set.
type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

// respondData writes a success envelope.
func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{Success: false, Error: &errorBody{Code: code, Message: message}})
}

// respondFieldError writes a validation error naming the offending
// field.
func respondFieldError(w http.ResponseWriter, status int, code, message, field string) {
	writeJSON(w, status, envelope{Success: false, Error: &errorBody{Code: code, Message: message, Field: field}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write json response failed", "error", err)
	}
}
