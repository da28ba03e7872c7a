package location

import (
	"net/http"

	"go-presence/internal/shared/apperror"
)

var (
	ErrPermissionDenied = apperror.New(
		apperror.CodeLocationDenied,
		"Permission to access location was denied",
		http.StatusForbidden,
	)
	ErrUnavailable = apperror.New(
		apperror.CodeLocationUnavailable,
		"Unable to determine current location",
		http.StatusServiceUnavailable,
	)
)
