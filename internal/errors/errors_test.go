package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", NotFound("swap request"), http.StatusNotFound, "NOT_FOUND"},
		{"forbidden", Forbidden("only the receiver can respond"), http.StatusForbidden, "FORBIDDEN"},
		{"precondition", PreconditionFailed("request is not pending"), http.StatusBadRequest, "PRECONDITION_FAILED"},
		{"conflict", Conflict("duplicate"), http.StatusConflict, "CONFLICT"},
		{"invalid argument", InvalidArgument("rating must be between 1 and 5"), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"unauthenticated", Unauthenticated("missing token"), http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"wrapped", fmt.Errorf("create swap: %w", Conflict("pending request exists")), http.StatusConflict, "CONFLICT"},
		{"internal", Internal(errors.New("connection refused")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"foreign", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_HidesInternalCause(t *testing.T) {
	httpErr := MapErrorToHTTP(Internal(errors.New("dial tcp 10.0.0.3:3306: refused")))
	assert.Equal(t, "internal server error", httpErr.ToErrorResponse().Error)
}

func TestAppError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("get user: %w", NotFound("user"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestInternal_Unwraps(t *testing.T) {
	cause := errors.New("deadlock")
	err := Internal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "deadlock")
}
