// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/tbg/internal/auth"
	"github.com/jason-s-yu/tbg/internal/cache"
	"github.com/jason-s-yu/tbg/internal/config"
	"github.com/jason-s-yu/tbg/internal/database"
	"github.com/jason-s-yu/tbg/internal/handlers"
	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := log.New()
	logger.SetLevel(cfg.LogLevel)
	log.SetLevel(cfg.LogLevel)

	if cfg.JWTPrivateKeyPath != "" && cfg.JWTPublicKeyPath != "" {
		err = auth.InitFromPath(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, cfg.TokenExpire)
	} else {
		err = auth.Init(cfg.TokenExpire)
	}
	if err != nil {
		log.Fatalf("init auth: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persistence is optional; the game runs entirely in memory without it.
	if err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB, cfg.QueueName); err != nil {
		logger.Warnf("action log disabled: %v", err)
	}
	if cfg.DatabaseURL != "" {
		if err := database.ConnectDB(ctx, cfg.DatabaseURL); err != nil {
			logger.Warnf("result persistence disabled: %v", err)
		}
		defer database.Close()
	}

	gs := handlers.NewGameServer(logger, cfg.Production())
	srv := &http.Server{
		Addr:    serverAddr(cfg),
		Handler: handlers.NewRouter(cfg, logger, gs),
	}

	go func() {
		logger.Infof("Running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server exited: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
	if cache.Rdb != nil {
		cache.Rdb.Close()
	}
}

// serverAddr binds to all hosts in production and to localhost otherwise.
func serverAddr(cfg *config.Config) string {
	if cfg.Production() {
		return ":" + cfg.Port
	}
	return "localhost:" + cfg.Port
}
