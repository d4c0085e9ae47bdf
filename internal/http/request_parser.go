// Package http exposes the JSON API.
//
// This file implements helpers for reading request data: JSON bodies, path
// parameters and the authenticated user.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"fintrack/internal/auth"
	"fintrack/internal/core"
)

const maxJSONBodyBytes = 1 << 20

// decodeJSON reads a single JSON object into dst. Any malformed, empty or
// oversized body is a validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &core.Error{Kind: core.ErrValidation, Message: MsgInvalidBody, Err: errors.New("empty body")}
		}
		return &core.Error{Kind: core.ErrValidation, Message: MsgInvalidBody, Err: err}
	}
	if dec.More() {
		return &core.Error{Kind: core.ErrValidation, Message: MsgInvalidBody, Err: errors.New("trailing data after JSON object")}
	}
	return nil
}

// pathID returns the trimmed {id} wildcard.
func pathID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		return "", core.Validation("Missing id")
	}
	return id, nil
}

// currentUser returns the ID set by the auth middleware.
func currentUser(r *http.Request) (string, error) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return "", &core.Error{Kind: core.ErrUnauthorized, Message: auth.MsgNoToken, Err: fmt.Errorf("no user in context for %s", r.URL.Path)}
	}
	return id, nil
}

// requestBaseURL rebuilds scheme://host for absolute links to uploads.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); proto == "https" || proto == "http" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
