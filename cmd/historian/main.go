// cmd/historian is an asynchronous service that pops game actions from the Redis queue
// and persists them to PostgreSQL.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/tbg/internal/cache"
	"github.com/jason-s-yu/tbg/internal/config"
	"github.com/jason-s-yu/tbg/internal/database"
	"github.com/jason-s-yu/tbg/internal/historian"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logrus.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DatabaseURL == "" {
		logrus.Fatal("DATABASE_URL must be set for the historian")
	}
	if err := database.ConnectDB(ctx, cfg.DatabaseURL); err != nil {
		logrus.Fatalf("connect database: %v", err)
	}
	defer database.Close()

	if err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisDB, cfg.QueueName); err != nil {
		logrus.Fatalf("connect redis: %v", err)
	}
	defer cache.Rdb.Close()

	hs := historian.NewService(cache.Rdb, cache.QueueName, database.InsertGameActions, cfg.HistorianBatchSize, cfg.HistorianFlush)
	hs.Run(ctx)
}
