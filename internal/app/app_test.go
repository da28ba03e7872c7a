package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go-presence/internal/app"
	"go-presence/internal/bootstrap"
	"go-presence/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopAudit struct{}

func (nopAudit) Log(context.Context, bootstrap.AuditLog) {}

// upstream plays both the login service and the attendance service.
func upstream(t *testing.T, punches *atomic.Int32) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/employee/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"ok","data":{"id":42,"name":"Asha","email":"asha@example.com","companyId":7}}`))
	})
	mux.HandleFunc("/attendance", func(w http.ResponseWriter, r *http.Request) {
		punches.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Attendance recorded"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) config.Config {
	lat, lon := 12.9, 77.6
	cfg := config.Default()
	cfg.AttendanceBaseURL = baseURL
	cfg.AuthBaseURL = baseURL
	cfg.JWTSecret = "test-secret"
	cfg.Credential.Backend = config.CredentialMemory
	cfg.Location = config.LocationConfig{
		Mode:      config.LocationStatic,
		Consent:   true,
		Latitude:  &lat,
		Longitude: &lon,
		Timeout:   time.Second,
	}
	return cfg
}

func TestApp_LoginThenPunchIn(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var punches atomic.Int32
	srv := upstream(t, &punches)

	a, err := app.Build(context.Background(), testConfig(srv.URL))
	require.NoError(t, err)
	defer a.Close(context.Background())

	assert.False(t, a.Auth.IsAuthenticated())
	router := a.NewRouter(nopAudit{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/session/punch-in", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	body := bytes.NewBufferString(`{"email":"asha@example.com","password":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.AccessToken)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/session/punch-in", nil)
	req.Header.Set("Authorization", "Bearer "+login.Data.AccessToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, int32(1), punches.Load())

	cur := a.Session.Current()
	require.NotNil(t, cur)
	assert.True(t, cur.IsOpen())

	// journal routes answer even without a database
	req = httptest.NewRequest(http.MethodGet, "/api/v1/session/journal", nil)
	req.Header.Set("Authorization", "Bearer "+login.Data.AccessToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestApp_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var punches atomic.Int32
	srv := upstream(t, &punches)

	a, err := app.Build(context.Background(), testConfig(srv.URL))
	require.NoError(t, err)
	defer a.Close(context.Background())

	w := httptest.NewRecorder()
	a.NewRouter(nopAudit{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApp_UnknownLocationMode(t *testing.T) {
	cfg := testConfig("http://localhost:1")
	cfg.Location.Mode = "gps"

	_, err := app.Build(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown location mode")
}
