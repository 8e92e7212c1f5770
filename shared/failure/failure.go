// Package failure carries errors that are meant for the client, each with the HTTP status to answer with.
// Any other error reaching a handler is answered with 500.
package failure

import (
	"errors"
	"net/http"
)

type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

func (e *Failure) Error() string {
	return e.Message
}

func newFailure(code int, message string) error {
	return &Failure{Code: code, Message: message}
}

// BadRequest turns a validation error into a 400. A nil error stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return newFailure(http.StatusForbidden, msg)
}

func NotFound(msg string) error {
	return newFailure(http.StatusNotFound, msg)
}

// Conflict reports a write that lost against the current state: an overlapping stay, a claimed task,
// a sync already running.
func Conflict(msg string) error {
	return newFailure(http.StatusConflict, msg)
}

// UnprocessableEntity reports a well-formed request that the entity's current state does not allow.
func UnprocessableEntity(msg string) error {
	return newFailure(http.StatusUnprocessableEntity, msg)
}

// GetCode returns the status carried by err, or 500 when err is not a Failure.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// IsClientError reports whether err is a Failure answered with a 4xx status.
func IsClientError(err error) bool {
	code := GetCode(err)

	return code >= http.StatusBadRequest && code < http.StatusInternalServerError
}
