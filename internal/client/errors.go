package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed API call for the UI layer: validation
// problems surface inline, conflicts and benign not-founds are handled
// silently, transport errors get a retry affordance.
type ErrorKind int

const (
	KindTransport ErrorKind = iota
	KindValidation
	KindNotAuthorized
	KindNotFound
	KindConflict
)

// APIError is a failed response from the server. Status 0 means the
// request never produced a response (network failure).
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api: transport error: %s", e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func (e *APIError) Kind() ErrorKind {
	switch e.Status {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindNotAuthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	default:
		return KindTransport
	}
}

func isKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind() == kind
	}
	return false
}

func IsValidation(err error) bool    { return isKind(err, KindValidation) }
func IsNotAuthorized(err error) bool { return isKind(err, KindNotAuthorized) }
func IsNotFound(err error) bool      { return isKind(err, KindNotFound) }
func IsConflict(err error) bool      { return isKind(err, KindConflict) }
