package app

import (
	"context"

	"go-presence/internal/auth"
	"go-presence/internal/bootstrap"
	"go-presence/internal/journal"
	"go-presence/internal/middleware"
	"go-presence/internal/session"
	"go-presence/internal/shared/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter registers every module on a fresh gin engine.
func (a *App) NewRouter(audit bootstrap.AuditLogger) *gin.Engine {
	if a.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.ContextLogger(zap.L().Named("http")),
	)

	issuer := token.NewIssuer(a.jwtSecret, a.Config.TokenTTL)
	currentEmployee := func(ctx context.Context) (string, error) {
		id, err := a.Auth.Identity(ctx)
		if err != nil {
			return "", err
		}
		return id.ID, nil
	}
	authMW := middleware.AuthMiddleware(issuer, currentEmployee)

	punchMW := []gin.HandlerFunc{
		middleware.ExtractEmployeeID(),
		middleware.RateLimitByUser(1, 3),
	}
	if a.Redis != nil {
		punchMW = append(punchMW, middleware.Idempotency(a.Redis))
	}

	// --- Handlers ---
	authHandler := auth.NewHandler(a.Auth, issuer, audit, a.Config.IsProduction())
	sessionHandler := session.NewHandler(a.Session)
	journalHandler := journal.NewHandler(a.Journal)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authMW)
		session.RegisterRoutes(api, sessionHandler, authMW, punchMW...)
		journal.RegisterRoutes(api, journalHandler, authMW)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	return router
}
