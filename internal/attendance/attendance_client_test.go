package attendance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-presence/internal/attendance"
	attendanceerrors "go-presence/internal/attendance/errors"
	"go-presence/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) attendance.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return attendance.NewClient(srv.URL+"/", srv.Client())
}

func writeJSON(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

func TestClient_GetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("message match means clocked in", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/attendance/status", r.URL.Path)
			assert.Equal(t, "emp 1", r.URL.Query().Get("employee_id"))
			writeJSON(w, 200, `{"status":200,"message":"Employee is currently clocked in"}`)
		})

		st, err := c.GetStatus(ctx, "emp 1")
		require.NoError(t, err)
		assert.True(t, st.ClockedIn)
		assert.Equal(t, attendance.SignalMessage, st.Signal)
	})

	t.Run("any other message means not clocked in", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"status":200,"message":"Employee is not clocked in"}`)
		})

		st, err := c.GetStatus(ctx, "E1")
		require.NoError(t, err)
		assert.False(t, st.ClockedIn)
	})

	t.Run("body status must be 200", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"status":"201","message":"Employee is currently clocked in"}`)
		})

		st, err := c.GetStatus(ctx, "E1")
		require.NoError(t, err)
		assert.False(t, st.ClockedIn)
	})

	t.Run("structured field wins over message", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"status":200,"message":"Employee is currently clocked in","data":{"clocked_in":false}}`)
		})

		st, err := c.GetStatus(ctx, "E1")
		require.NoError(t, err)
		assert.False(t, st.ClockedIn)
		assert.Equal(t, attendance.SignalField, st.Signal)
	})

	t.Run("non 2xx is a failure", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 500, `{"message":"database down"}`)
		})

		_, err := c.GetStatus(ctx, "E1")
		assert.ErrorIs(t, err, attendanceerrors.ErrStatusUnavailable)
		assert.Equal(t, "database down", err.Error())
	})

	t.Run("4xx status body is evaluated", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 404, `{"status":404,"message":"Employee is not clocked in"}`)
		})

		st, err := c.GetStatus(ctx, "E1")
		require.NoError(t, err)
		assert.False(t, st.ClockedIn)
		assert.Equal(t, attendance.SignalMessage, st.Signal)
		assert.Equal(t, "Employee is not clocked in", st.Message)
	})

	t.Run("4xx without status body is a failure", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 404, `<html>not found</html>`)
		})

		_, err := c.GetStatus(ctx, "E1")
		assert.ErrorIs(t, err, attendanceerrors.ErrStatusUnavailable)
	})

	t.Run("malformed body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `<html>`)
		})

		_, err := c.GetStatus(ctx, "E1")
		assert.ErrorIs(t, err, attendanceerrors.ErrMalformedResponse)
	})

	t.Run("network failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := attendance.NewClient(url, nil).GetStatus(ctx, "E1")
		assert.ErrorIs(t, err, attendanceerrors.ErrNetworkFailure)
	})

	t.Run("forwards request id", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "rid-9", r.Header.Get("X-Request-ID"))
			writeJSON(w, 200, `{"status":200,"message":"x"}`)
		})

		_, err := c.GetStatus(contextutil.WithRequestID(ctx, "rid-9"), "E1")
		require.NoError(t, err)
	})
}

func TestClient_GetHistory(t *testing.T) {
	ctx := context.Background()

	shapes := map[string]string{
		"history key": `{"history":[{"id":7,"clock_in_time":"2024-05-01T08:00:00Z","clock_out_time":"2024-05-01T17:00:00Z","working_hours":9}]}`,
		"data key":    `{"data":[{"id":"7","clock_in":"2024-05-01 08:00:00","clock_out":"2024-05-01 17:00:00","working_hours":9}]}`,
		"bare array":  `[{"id":"7","clock_in_time":"2024-05-01T08:00:00","clock_out_time":"2024-05-01T17:00:00Z","working_hours":9}]`,
	}

	for name, body := range shapes {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/attendance/history", r.URL.Path)
				writeJSON(w, 200, body)
			})

			entries, err := c.GetHistory(ctx, "E1")
			require.NoError(t, err)
			require.Len(t, entries, 1)

			e := entries[0]
			assert.Equal(t, "7", e.ID)
			assert.Equal(t, 8, e.ClockIn.Hour())
			require.NotNil(t, e.ClockOut)
			assert.Equal(t, 17, e.ClockOut.Hour())
			require.NotNil(t, e.WorkingHours)
			assert.Equal(t, 9.0, *e.WorkingHours)
		})
	}

	t.Run("open entry and unparseable clock in", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"history":[{"timestamp":"1714550400","clock_in_time":"2024-05-01T08:00:00Z"},{"id":"x","clock_in_time":"yesterday"}]}`)
		})

		entries, err := c.GetHistory(ctx, "E1")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "", entries[0].ID)
		assert.Equal(t, "1714550400", entries[0].Timestamp)
		assert.Nil(t, entries[0].ClockOut)
		assert.True(t, entries[1].ClockIn.IsZero())
	})

	t.Run("zoneless timestamps are local time", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `[{"id":"7","clock_in":"2024-05-01 08:00:00","clock_out":"2024-05-01T17:00:00"}]`)
		})

		entries, err := c.GetHistory(ctx, "E1")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, entries[0].ClockIn.Equal(time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local)))
		require.NotNil(t, entries[0].ClockOut)
		assert.True(t, entries[0].ClockOut.Equal(time.Date(2024, 5, 1, 17, 0, 0, 0, time.Local)))
	})

	t.Run("null list is empty", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"history":null}`)
		})

		entries, err := c.GetHistory(ctx, "E1")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("object without a list is malformed", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, `{"message":"ok"}`)
		})

		_, err := c.GetHistory(ctx, "E1")
		assert.ErrorIs(t, err, attendanceerrors.ErrMalformedResponse)
	})

	t.Run("non 2xx", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 404, `{}`)
		})

		_, err := c.GetHistory(ctx, "E1")
		assert.ErrorIs(t, err, attendanceerrors.ErrHistoryUnavailable)
	})
}

func TestClient_SubmitPunch(t *testing.T) {
	ctx := context.Background()

	t.Run("sends punch body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/attendance", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "E1", body["employee_id"])
			assert.Equal(t, "C1", body["companyId"])
			assert.Equal(t, "clock_in", body["type"])
			assert.Equal(t, true, body["clock_in"])
			assert.Equal(t, 1.5, body["latitude"])
			assert.Equal(t, 2.5, body["longitude"])

			writeJSON(w, 201, `{"message":"Clocked in"}`)
		})

		receipt, err := c.SubmitPunch(ctx, attendance.PunchRequest{
			EmployeeID: "E1",
			CompanyID:  "C1",
			Direction:  attendance.ClockIn,
			Latitude:   1.5,
			Longitude:  2.5,
		})
		require.NoError(t, err)
		assert.Equal(t, 201, receipt.StatusCode)
		assert.Equal(t, "Clocked in", receipt.Message)
	})

	t.Run("clock out flag", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "clock_out", body["type"])
			assert.Equal(t, false, body["clock_in"])
			writeJSON(w, 200, ``)
		})

		_, err := c.SubmitPunch(ctx, attendance.PunchRequest{EmployeeID: "E1", Direction: attendance.ClockOut})
		require.NoError(t, err)
	})

	t.Run("rejection carries server message", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 400, `{"message":"Outside geofence"}`)
		})

		_, err := c.SubmitPunch(ctx, attendance.PunchRequest{EmployeeID: "E1", Direction: attendance.ClockIn})
		assert.ErrorIs(t, err, attendanceerrors.ErrPunchRejected)
		assert.Equal(t, "Outside geofence", err.Error())
	})

	t.Run("rejection without message uses default", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 500, `oops`)
		})

		_, err := c.SubmitPunch(ctx, attendance.PunchRequest{EmployeeID: "E1", Direction: attendance.ClockOut})
		assert.ErrorIs(t, err, attendanceerrors.ErrPunchRejected)
		assert.Equal(t, "Failed to punch out", err.Error())
	})
}
