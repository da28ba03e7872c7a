package sessionerrors

import (
	"go-presence/internal/shared/apperror"
	"net/http"
)

var (
	ErrPunchInProgress = apperror.New(
		apperror.CodePunchInProgress,
		"Another punch is still in progress",
		http.StatusConflict,
	)
	ErrAlreadyClockedIn = apperror.New(
		apperror.CodeInvalidState,
		"You are already punched in",
		http.StatusConflict,
	)
	ErrSessionReset = apperror.New(
		apperror.CodeSessionReset,
		"The session was reset before the request completed",
		http.StatusConflict,
	)
)
