package attendanceerrors

import (
	"go-presence/internal/shared/apperror"
	"net/http"
)

var (
	ErrNetworkFailure = apperror.New(
		apperror.CodeServiceUnavailable,
		"Unable to reach the attendance service",
		http.StatusServiceUnavailable,
	)
	ErrMalformedResponse = apperror.New(
		apperror.CodeMalformedResponse,
		"The attendance service returned an unexpected response",
		http.StatusBadGateway,
	)
	ErrPunchRejected = apperror.New(
		apperror.CodePunchRejected,
		"Punch was rejected",
		http.StatusUnprocessableEntity,
	)
	ErrStatusUnavailable = apperror.New(
		apperror.CodeStatusUnavailable,
		"Failed to check status",
		http.StatusBadGateway,
	)
	ErrHistoryUnavailable = apperror.New(
		apperror.CodeHistoryUnavailable,
		"Failed to fetch attendance history",
		http.StatusBadGateway,
	)
)

// PunchRejected carries the server's message so it can be shown verbatim.
func PunchRejected(message string) *apperror.AppError {
	return ErrPunchRejected.WithMessage(message)
}
