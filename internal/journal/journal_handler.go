package journal

import (
	"net/http"
	"strconv"

	journalerrors "go-presence/internal/journal/errors"
	"go-presence/internal/shared/apperror"
	"go-presence/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const defaultListLimit = 50

type Handler struct {
	repo Repository
}

// NewHandler accepts a nil repo when no database is configured.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) List(c *gin.Context) {
	if h.repo == nil {
		writeServiceError(c, journalerrors.ErrJournalDisabled)
		return
	}

	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			writeServiceError(c, journalerrors.ErrInvalidLimit)
			return
		}
		limit = n
	}

	entries, err := h.repo.ListByEmployee(c.Request.Context(), c.GetString("company_id"), c.GetString("employee_id"), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entries, nil)
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}
