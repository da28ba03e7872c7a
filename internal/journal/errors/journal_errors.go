package journalerrors

import (
	"go-presence/internal/shared/apperror"
	"net/http"
)

var (
	ErrDuplicateEntry = apperror.New(
		apperror.CodeDuplicateEntry,
		"Journal entry already exists",
		http.StatusConflict,
	)
	ErrJournalDisabled = apperror.New(
		apperror.CodeJournalDisabled,
		"Punch journal is not configured",
		http.StatusServiceUnavailable,
	)
	ErrInvalidLimit = apperror.New(
		apperror.CodeInvalidLimit,
		"Limit must be between 1 and 200",
		http.StatusBadRequest,
	)
)
