package domain

import (
	"errors"
	"net/http"
)

// Sentinel errors for infrastructure-level error discrimination.
// Repositories wrap these so services can map to API error codes without
// leaking DynamoDB details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
)

// StatusError is an API-visible error: a machine-readable code plus the HTTP
// status it maps to. Services return these directly; the generic 500 is
// reserved for everything else.
type StatusError struct {
	Code    string
	Status  int
	Message string
}

func (e *StatusError) Error() string { return e.Message }

// Verification error taxonomy. Each value is terminal for a single attempt:
// the first failing check short-circuits the workflow.
var (
	ErrRateLimited = &StatusError{Code: "RATE_LIMIT_EXCEEDED", Status: http.StatusTooManyRequests,
		Message: "too many requests"}
	ErrMissingToken = &StatusError{Code: "MISSING_TOKEN", Status: http.StatusBadRequest,
		Message: "token query parameter is required"}
	ErrInvalidTokenFormat = &StatusError{Code: "INVALID_TOKEN_FORMAT", Status: http.StatusBadRequest,
		Message: "token must be a 64-character lowercase hex string"}
	ErrTokenNotFound = &StatusError{Code: "TOKEN_NOT_FOUND", Status: http.StatusNotFound,
		Message: "verification token not found"}
	ErrInvalidTokenData = &StatusError{Code: "INVALID_TOKEN_DATA", Status: http.StatusBadRequest,
		Message: "stored token record is invalid"}
	ErrTokenAlreadyUsed = &StatusError{Code: "TOKEN_ALREADY_USED", Status: http.StatusBadRequest,
		Message: "verification token has already been used"}
	ErrTokenExpired = &StatusError{Code: "TOKEN_EXPIRED", Status: http.StatusBadRequest,
		Message: "verification token has expired"}
	ErrEmailMismatch = &StatusError{Code: "EMAIL_MISMATCH", Status: http.StatusBadRequest,
		Message: "email does not match the address this token was issued to"}
	ErrReviewNotFound = &StatusError{Code: "REVIEW_NOT_FOUND", Status: http.StatusNotFound,
		Message: "pending review not found"}
)
