package journal_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-presence/internal/journal"
	journalMock "go-presence/internal/journal/mock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupJournalRouter(repo journal.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	asEmployee := func(c *gin.Context) {
		c.Set("employee_id", "42")
		c.Set("company_id", "7")
		c.Next()
	}
	journal.RegisterRoutes(r.Group("/api/v1"), journal.NewHandler(repo), asEmployee)
	return r
}

func TestJournalHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := journalMock.NewMockRepository(ctrl)
	router := setupJournalRouter(repo)

	t.Run("default limit", func(t *testing.T) {
		repo.EXPECT().ListByEmployee(gomock.Any(), "7", "42", 50).
			Return([]journal.Entry{{ID: uuid.New(), EmployeeID: "42", Outcome: journal.OutcomeDropped}}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/session/journal", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var res struct {
			Data []journal.Entry `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.Len(t, res.Data, 1)
		assert.Equal(t, journal.OutcomeDropped, res.Data[0].Outcome)
	})

	t.Run("custom limit", func(t *testing.T) {
		repo.EXPECT().ListByEmployee(gomock.Any(), "7", "42", 5).Return(nil, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/session/journal?limit=5", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/session/journal?limit=0", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestJournalHandler_Disabled(t *testing.T) {
	router := setupJournalRouter(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/session/journal", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
