package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     codes.Code
		httpCode int
	}{
		{"nil", nil, codes.OK, http.StatusOK},
		{"validation", NewValidationError("username is required"), codes.InvalidArgument, http.StatusBadRequest},
		{"authentication", ErrInvalidCredentials, codes.Unauthenticated, http.StatusUnauthorized},
		{"not found", NewNotFoundError("user", "user not found"), codes.NotFound, http.StatusNotFound},
		{"already exists", ErrAlreadyExists, codes.AlreadyExists, http.StatusConflict},
		{"internal", NewInternalError("boom", errors.New("cause")), codes.Internal, http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("lookup: %w", NewNotFoundError("user", "")), codes.NotFound, http.StatusNotFound},
		{"plain", errors.New("connection reset"), codes.Unknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := Code(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.httpCode, runtime.HTTPStatusFromCode(code))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "validation failed", NewValidationError().Error())
	assert.Equal(t, "validation failed: a, b", NewValidationError("a", "b").Error())
	assert.Equal(t, InvalidCredentialsMessage, ErrInvalidCredentials.Error())
	assert.Equal(t, "user not found", NewNotFoundError("user", "").Error())
	assert.Equal(t, "user already exists", NewAlreadyExistsError("user", "").Error())

	cause := errors.New("disk full")
	internal := NewInternalError("write failed", cause)
	assert.Equal(t, "write failed: disk full", internal.Error())
	assert.ErrorIs(t, internal, cause)
	assert.Equal(t, "write failed", internal.GRPCStatus().Message())
}

func TestGRPCStatuser(t *testing.T) {
	var _ GRPCStatuser = NewValidationError()
	var _ GRPCStatuser = NewAuthenticationError("x")
	var _ GRPCStatuser = NewNotFoundError("x", "")
	var _ GRPCStatuser = NewAlreadyExistsError("x", "")
	var _ GRPCStatuser = NewInternalError("x", nil)
}
