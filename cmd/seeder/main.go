// cmd/seeder/main.go
package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/unclebandit/mailcampaign-backend/internal/config"
	"github.com/unclebandit/mailcampaign-backend/internal/db"
	"github.com/unclebandit/mailcampaign-backend/internal/logger"
)

var seedFiles = []string{
	"seed/tenants.sql",
	"seed/templates.sql",
	"seed/campaigns.sql",
	"seed/plans.sql",
}

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg.Environment, cfg.LogLevel, "mailcampaign-seeder")
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logr.Sync() }()

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.Database, logr)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	for _, file := range seedFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			logr.Fatal("failed to read seed file", zap.String("file", file), zap.Error(err))
		}

		if _, err := conn.ExecContext(ctx, string(content)); err != nil {
			logr.Fatal("failed to execute seed file", zap.String("file", file), zap.Error(err))
		}
		logr.Info("Seeded", zap.String("file", file))
	}

	logr.Info("Database seeding completed successfully")
}
