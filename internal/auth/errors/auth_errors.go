package autherrors

import (
	"go-presence/internal/shared/apperror"
	"net/http"
)

var (
	ErrNotAuthenticated = apperror.New(
		apperror.CodeNotAuthenticated,
		"You are not signed in",
		http.StatusUnauthorized,
	)
	ErrLoginFailed = apperror.New(
		apperror.CodeLoginFailed,
		"Email atau password salah",
		http.StatusUnauthorized,
	)
	ErrAuthUnavailable = apperror.New(
		apperror.CodeAuthUnavailable,
		"Unable to reach the authentication service",
		http.StatusServiceUnavailable,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeTokenInvalid,
		"Invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeTokenExpired,
		"Token expired",
		http.StatusUnauthorized,
	)
	ErrForbidden = apperror.New(
		apperror.CodeEmployeeMismatch,
		"Token does not belong to the signed-in employee",
		http.StatusForbidden,
	)
	ErrCorruptCredential = apperror.New(
		apperror.CodeCredentialCorrupt,
		"Stored credential is unreadable",
		http.StatusInternalServerError,
	)
)
