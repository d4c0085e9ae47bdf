package http

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

const (
	MsgInvalidBody  = "Invalid request body"
	MsgTooManyReqs  = "Too many requests, please try again later"
	MsgFileTooLarge = "File too large"

	maxErrorDetail = 120
)

// writeError maps err to a status and envelope. fallback is the message
// shown for unexpected failures, e.g. "Error adding income source".
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op, fallback string, err error) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	userID, _ := auth.UserIDFromContext(ctx)

	var status int
	var errorType string
	switch {
	case errors.Is(err, core.ErrValidation):
		status, errorType = http.StatusBadRequest, log.ErrorTypeValidation
	case errors.Is(err, core.ErrConflict):
		status, errorType = http.StatusBadRequest, log.ErrorTypeConflict
	case errors.Is(err, core.ErrUnauthorized):
		status, errorType = http.StatusUnauthorized, log.ErrorTypeAuth
	case errors.Is(err, core.ErrNotFound):
		status, errorType = http.StatusNotFound, log.ErrorTypeNotFound
	default:
		logger.ErrorContext(ctx, "Request failed",
			log.NewFields().WithOperation(op).WithUser(userID).WithError(err).WithErrorType(log.ErrorTypeInternal).ToSlice()...)
		ErrorResponse(http.StatusInternalServerError, fallback, shortError(err)).Write(w)
		return
	}

	logger.DebugContext(ctx, "Request rejected",
		log.NewFields().WithOperation(op).WithUser(userID).WithError(err).WithErrorType(errorType).ToSlice()...)
	ErrorResponse(status, core.PublicMessage(err, http.StatusText(status)), "").Write(w)
}

func (s *Server) writeAuthError(w http.ResponseWriter, _ *http.Request, message string) {
	ErrorResponse(http.StatusUnauthorized, message, "").Write(w)
}

func (s *Server) writeRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r), log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, MsgTooManyReqs, "").Write(w)
}

// shortError truncates the error text so internals never flood a response.
func shortError(err error) string {
	msg := err.Error()
	if utf8.RuneCountInString(msg) <= maxErrorDetail {
		return msg
	}
	runes := []rune(msg)
	return string(runes[:maxErrorDetail]) + "..."
}
