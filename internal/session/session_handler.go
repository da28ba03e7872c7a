package session

import (
	"net/http"

	"go-presence/internal/attendance"
	"go-presence/internal/shared/apperror"
	"go-presence/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const defaultHistoryPageSize = 20

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Get(c *gin.Context) {
	response.Success(c, http.StatusOK, ToSnapshotResponse(h.service.Snapshot()), nil)
}

func (h *Handler) CheckStatus(c *gin.Context) {
	rec, err := h.service.CheckStatus(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, StatusResponse{
		ClockedIn: rec != nil,
		Current:   ToRecordResponse(rec),
	}, nil)
}

func (h *Handler) PunchIn(c *gin.Context) {
	rec, err := h.service.PunchIn(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ToRecordResponse(&rec), nil)
}

func (h *Handler) PunchOut(c *gin.Context) {
	closed, err := h.service.PunchOut(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, PunchOutResponse{
		Closed:  ToRecordResponse(closed),
		Dropped: closed == nil,
	}, nil)
}

func (h *Handler) Toggle(c *gin.Context) {
	res, err := h.service.Toggle(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	status := http.StatusOK
	if res.Direction == attendance.ClockIn {
		status = http.StatusCreated
	}
	response.Success(c, status, ToggleResponse{
		Direction: string(res.Direction),
		Record:    ToRecordResponse(res.Record),
		Dropped:   res.Direction == attendance.ClockOut && res.Record == nil,
	}, nil)
}

// History serves the cached list; refresh=true refetches it from the
// attendance service first.
func (h *Handler) History(c *gin.Context) {
	var q HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", apperror.MapValidationError(err).Error())
		return
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = defaultHistoryPageSize
	}

	var records []Record
	if q.Refresh {
		fetched, err := h.service.FetchHistory(c.Request.Context())
		if err != nil {
			writeServiceError(c, err)
			return
		}
		records = fetched
	} else {
		records = h.service.History()
	}

	start, end := response.Paginate(len(records), q.Page, q.PageSize)
	meta := response.NewPaginationMeta(int64(len(records)), q.Page, q.PageSize)
	response.Success(c, http.StatusOK, ToRecordResponses(records[start:end]), &meta)
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}
