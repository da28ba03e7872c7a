package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	attendanceerrors "go-presence/internal/attendance/errors"
	autherrors "go-presence/internal/auth/errors"
	journalerrors "go-presence/internal/journal/errors"
	"go-presence/internal/location"
	sessionerrors "go-presence/internal/session/errors"
	"go-presence/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesByCode(t *testing.T) {
	sentinel := apperror.New(apperror.CodePunchRejected, "Failed to punch in", http.StatusUnprocessableEntity)
	withServerMessage := sentinel.WithMessage("Shift not started")

	wrapped := fmt.Errorf("punch in: %w", withServerMessage)

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.False(t, errors.Is(wrapped, apperror.ErrNotFound))
	assert.Equal(t, "Shift not started", withServerMessage.Error())
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := map[string]*apperror.AppError{
		"ErrNotFound":             apperror.ErrNotFound,
		"ErrForbidden":            apperror.ErrForbidden,
		"ErrInternal":             apperror.ErrInternal,
		"ErrUnauthorized":         apperror.ErrUnauthorized,
		"ErrInvalidInput":         apperror.ErrInvalidInput,
		"ErrNetworkFailure":       attendanceerrors.ErrNetworkFailure,
		"ErrMalformedResponse":    attendanceerrors.ErrMalformedResponse,
		"ErrPunchRejected":        attendanceerrors.ErrPunchRejected,
		"ErrStatusUnavailable":    attendanceerrors.ErrStatusUnavailable,
		"ErrHistoryUnavailable":   attendanceerrors.ErrHistoryUnavailable,
		"ErrNotAuthenticated":     autherrors.ErrNotAuthenticated,
		"ErrLoginFailed":          autherrors.ErrLoginFailed,
		"ErrAuthUnavailable":      autherrors.ErrAuthUnavailable,
		"ErrInvalidToken":         autherrors.ErrInvalidToken,
		"ErrTokenExpired":         autherrors.ErrTokenExpired,
		"autherrors.ErrForbidden": autherrors.ErrForbidden,
		"ErrCorruptCredential":    autherrors.ErrCorruptCredential,
		"ErrDuplicateEntry":       journalerrors.ErrDuplicateEntry,
		"ErrJournalDisabled":      journalerrors.ErrJournalDisabled,
		"ErrInvalidLimit":         journalerrors.ErrInvalidLimit,
		"ErrPermissionDenied":     location.ErrPermissionDenied,
		"ErrUnavailable":          location.ErrUnavailable,
		"ErrPunchInProgress":      sessionerrors.ErrPunchInProgress,
		"ErrAlreadyClockedIn":     sessionerrors.ErrAlreadyClockedIn,
		"ErrSessionReset":         sessionerrors.ErrSessionReset,
	}

	for name, err := range sentinels {
		for otherName, other := range sentinels {
			if name == otherName {
				assert.True(t, errors.Is(err.WithCause(errors.New("x")), other), name)
				continue
			}
			assert.False(t, errors.Is(err, other), "%s matched %s", name, otherName)
		}
	}
}

func TestAppError_WithCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := apperror.ErrInternal.WithCause(cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Nil(t, apperror.ErrInternal.Err)
}

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		httpErr := apperror.ToHTTP(apperror.ErrUnauthorized)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
		assert.Equal(t, apperror.CodeUnauthorized, httpErr.Code)
		assert.Nil(t, httpErr.Details)
	})

	t.Run("unknown error is masked", func(t *testing.T) {
		httpErr := apperror.ToHTTP(errors.New("secret driver detail"))
		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, apperror.CodeInternalError, httpErr.Code)
		assert.NotContains(t, httpErr.Message, "secret")
	})
}

func TestRequiredAndInvalidField(t *testing.T) {
	assert.Equal(t, "Email is required", apperror.RequiredField("Email").Message)
	assert.Equal(t, "Company Id is invalid", apperror.InvalidField("Company Id").Message)
}
