package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrorCode tells the page what kind of failure it is looking at
type ErrorCode string

const (
	ErrCodeBadRequest         ErrorCode = "BAD_REQUEST"
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidFilter      ErrorCode = "INVALID_FILTER"
	ErrCodeInvalidSource      ErrorCode = "INVALID_SOURCE"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
	ErrCodeSessionStore       ErrorCode = "SESSION_ERROR"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeExternalAPI        ErrorCode = "EXTERNAL_API_ERROR"
)

// errorKind is the HTTP status and page message of an ErrorCode
type errorKind struct {
	status    int
	message   string
	retryable bool
}

var errorKinds = map[ErrorCode]errorKind{
	ErrCodeBadRequest:         {http.StatusBadRequest, "The request body could not be read", false},
	ErrCodeValidation:         {http.StatusBadRequest, "Request validation failed", false},
	ErrCodeInvalidFilter:      {http.StatusBadRequest, "The filter could not be applied", false},
	ErrCodeInvalidSource:      {http.StatusBadRequest, "The feed source is invalid", false},
	ErrCodeNotFound:           {http.StatusNotFound, "There is nothing at this address", false},
	ErrCodeRateLimited:        {http.StatusTooManyRequests, "Too many requests. Please wait a moment", true},
	ErrCodeSessionStore:       {http.StatusInternalServerError, "Your view could not be saved", true},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, "The reader is not ready yet", true},
	ErrCodeExternalAPI:        {http.StatusBadGateway, "Failed to communicate with the RSS backend", true},
}

// APIError is the JSON body of every failed API call
type APIError struct {
	Error     ErrorCode `json:"error"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp string    `json:"timestamp"`
}

// StatusFor returns the HTTP status sent with code
func StatusFor(code ErrorCode) int {
	if kind, ok := errorKinds[code]; ok {
		return kind.status
	}
	return http.StatusInternalServerError
}

// Respond writes err as an APIError for the request r. Client mistakes are logged
// as warnings, server and backend failures as errors.
func Respond(w http.ResponseWriter, r *http.Request, code ErrorCode, err error) {
	kind, ok := errorKinds[code]
	if !ok {
		kind = errorKind{http.StatusInternalServerError, "An unknown error occurred", false}
	}
	if err == nil {
		err = errors.New(kind.message)
	}

	apiErr := APIError{
		Error:     code,
		Message:   kind.message,
		Details:   err.Error(),
		Retryable: kind.retryable,
		RequestID: RequestID(r),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	entry := Logger.WithFields(logrus.Fields{
		"error_code":  code,
		"status_code": kind.status,
		"request_id":  apiErr.RequestID,
		"session_id":  SessionID(r),
		"path":        r.URL.Path,
		"error":       apiErr.Details,
	})
	if kind.status >= http.StatusInternalServerError {
		entry.Error("API request failed")
	} else {
		entry.Warn("API request rejected")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(kind.status)
	json.NewEncoder(w).Encode(apiErr)
}

func RespondBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	Respond(w, r, ErrCodeBadRequest, err)
}

func RespondValidationError(w http.ResponseWriter, r *http.Request, err error) {
	Respond(w, r, ErrCodeValidation, err)
}

// RespondInvalidFilter rejects a filter before it reaches the session
func RespondInvalidFilter(w http.ResponseWriter, r *http.Request, err error) {
	Respond(w, r, ErrCodeInvalidFilter, err)
}

// RespondInvalidSource rejects a source before it reaches the backend
func RespondInvalidSource(w http.ResponseWriter, r *http.Request, err error) {
	Respond(w, r, ErrCodeInvalidSource, err)
}

func RespondRateLimited(w http.ResponseWriter, r *http.Request, err error) {
	Respond(w, r, ErrCodeRateLimited, err)
}

// RespondSessionError reports a state that was computed but could not be stored
func RespondSessionError(w http.ResponseWriter, r *http.Request, err error) {
	Respond(w, r, ErrCodeSessionStore, err)
}

func RespondServiceUnavailable(w http.ResponseWriter, r *http.Request, err error) {
	Respond(w, r, ErrCodeServiceUnavailable, err)
}

func RespondExternalAPIError(w http.ResponseWriter, r *http.Request, err error) {
	Respond(w, r, ErrCodeExternalAPI, err)
}

// NotFoundHandler answers requests that match no route
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Respond(w, r, ErrCodeNotFound, errors.New("no route for "+r.Method+" "+r.URL.Path))
	})
}
