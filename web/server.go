package web

import (
	"context"
	"net/http"
	"time"

	utils "Coinpulse/utilities"

	"github.com/gin-gonic/gin"
)

// StartServer runs the HTTP listener in a new goroutine and shuts it down
// gracefully when ctx is cancelled.
func StartServer(ctx context.Context, cfg utils.ServerConfig, engine *gin.Engine, logger *utils.Logger) {
	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	readTimeout := 5 * time.Second
	if cfg.ReadTimeoutSec > 0 {
		readTimeout = time.Duration(cfg.ReadTimeoutSec) * time.Second
	}
	writeTimeout := 30 * time.Second
	if cfg.WriteTimeoutSec > 0 {
		writeTimeout = time.Duration(cfg.WriteTimeoutSec) * time.Second
	}
	shutdownTimeout := 15 * time.Second
	if cfg.ShutdownTimeoutSec > 0 {
		shutdownTimeout = time.Duration(cfg.ShutdownTimeoutSec) * time.Second
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.LogInfo("Starting API server on %s", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.LogFatal("API server failed: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		logger.LogInfo("Shutting down API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.LogError("API server graceful shutdown failed: %v", err)
		}
	}()
}
