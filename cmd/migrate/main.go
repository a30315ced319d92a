// cmd/migrate/main.go
package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/unclebandit/mailcampaign-backend/internal/config"
	"github.com/unclebandit/mailcampaign-backend/internal/db"
	"github.com/unclebandit/mailcampaign-backend/internal/logger"
)

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg.Environment, cfg.LogLevel, "mailcampaign-migrate")
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logr.Sync() }()

	conn, err := db.Open(context.Background(), cfg.Database, logr)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	if err := db.Migrate(conn, cfg.Database.Name, cfg.Database.MigrationsPath, logr); err != nil {
		logr.Fatal("migration failed", zap.Error(err))
	}
}
