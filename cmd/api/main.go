package main

import (
	"context"
	"log"
	"time"

	"go-presence/internal/app"
	"go-presence/internal/bootstrap"
	"go-presence/internal/config"
	"go-presence/internal/shared/apperror"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := app.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	apperror.Init()

	// build dependency + routes
	a, err := app.Build(context.Background(), cfg)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	auditLogger := bootstrap.NewStdoutAuditLogger()
	bootstrap.StartHTTPServer(
		a.NewRouter(auditLogger),
		bootstrap.ServerConfig{
			Port:            cfg.Port,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    cfg.HTTPTimeout + cfg.Location.Timeout + 5*time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		auditLogger,
		a.Close,
	)
}
