package apperror

// Each sentinel owns its code; errors.Is compares codes.
const (
	// Client errors (4xx)
	CodeInvalidInput     = "INVALID_INPUT"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeInvalidState     = "INVALID_STATE"
	CodeInvalidLimit     = "INVALID_LIMIT"
	CodeDuplicateEntry   = "DUPLICATE_ENTRY"
	CodePunchInProgress  = "PUNCH_IN_PROGRESS"
	CodeSessionReset     = "SESSION_RESET"
	CodeNotAuthenticated = "NOT_AUTHENTICATED"
	CodeTokenExpired     = "TOKEN_EXPIRED"
	CodeTokenInvalid     = "TOKEN_INVALID"
	CodeEmployeeMismatch = "EMPLOYEE_MISMATCH"

	// Attendance domain
	CodeLocationDenied      = "LOCATION_DENIED"
	CodeLocationUnavailable = "LOCATION_UNAVAILABLE"
	CodePunchRejected       = "PUNCH_REJECTED"
	CodeLoginFailed         = "AUTH_FAILED"

	// Upstream / server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeAuthUnavailable    = "AUTH_UNAVAILABLE"
	CodeJournalDisabled    = "JOURNAL_DISABLED"
	CodeMalformedResponse  = "MALFORMED_RESPONSE"
	CodeStatusUnavailable  = "STATUS_UNAVAILABLE"
	CodeHistoryUnavailable = "HISTORY_UNAVAILABLE"
	CodeCredentialCorrupt  = "CREDENTIAL_CORRUPT"
)
