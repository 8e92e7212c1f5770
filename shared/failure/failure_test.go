package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"innkeep/shared/failure"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{name: "bad request", err: failure.BadRequest(errors.New("from is required")), code: http.StatusBadRequest, msg: "from is required"},
		{name: "bad request from string", err: failure.BadRequestFromString("room does not exist"), code: http.StatusBadRequest, msg: "room does not exist"},
		{name: "unauthorized", err: failure.Unauthorized("Token has expired"), code: http.StatusUnauthorized, msg: "Token has expired"},
		{name: "forbidden", err: failure.Forbidden("task belongs to another housekeeper"), code: http.StatusForbidden, msg: "task belongs to another housekeeper"},
		{name: "not found", err: failure.NotFound("task not found"), code: http.StatusNotFound, msg: "task not found"},
		{name: "conflict", err: failure.Conflict("task already claimed"), code: http.StatusConflict, msg: "task already claimed"},
		{name: "unprocessable", err: failure.UnprocessableEntity("task is not completed"), code: http.StatusUnprocessableEntity, msg: "task is not completed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, failure.GetCode(tt.err))
			assert.Equal(t, tt.msg, tt.err.Error())
		})
	}
}

func TestNilPassthrough(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
}

func TestGetCode(t *testing.T) {
	wrapped := fmt.Errorf("admit booking: %w", failure.Conflict("room no longer available, please search again"))

	assert.Equal(t, http.StatusConflict, failure.GetCode(wrapped))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(errors.New("connection refused")))
	assert.Equal(t, http.StatusForbidden, failure.GetCode(failure.ForbiddenError))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, failure.IsClientError(failure.Conflict("task already claimed")))
	assert.True(t, failure.IsClientError(fmt.Errorf("claim: %w", failure.NotFound("task not found"))))
	assert.False(t, failure.IsClientError(errors.New("connection refused")))
	assert.False(t, failure.IsClientError(nil))
}
