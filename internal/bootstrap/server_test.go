package bootstrap_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go-presence/internal/bootstrap"
	"go-presence/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
)

func TestNewHTTPServer(t *testing.T) {
	srv := bootstrap.NewHTTPServer(http.NotFoundHandler(), bootstrap.ServerConfig{
		Port:         "3000",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	assert.Equal(t, ":3000", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadTimeout)
	assert.Equal(t, 10*time.Second, srv.WriteTimeout)
}

func TestShutdown_RunsHooksInOrder(t *testing.T) {
	srv := bootstrap.NewHTTPServer(http.NotFoundHandler(), bootstrap.ServerConfig{Port: "0"})

	var order []string
	bootstrap.Shutdown(srv, time.Second,
		func(ctx context.Context) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			order = append(order, "journal")
		},
		func(context.Context) { order = append(order, "redis") },
	)

	assert.Equal(t, []string{"journal", "redis"}, order)
}

func TestStdoutAuditLogger_DoesNotPanicWithMetadata(t *testing.T) {
	ctx := contextutil.WithEmployeeID(contextutil.WithRequestID(context.Background(), "req-1"), "42")
	assert.NotPanics(t, func() {
		bootstrap.NewStdoutAuditLogger().Log(ctx, bootstrap.AuditLog{Action: "LOGIN", Message: "Employee signed in"})
	})
}
