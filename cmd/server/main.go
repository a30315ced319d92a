// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/mailcampaign-backend/internal/config"
	"github.com/unclebandit/mailcampaign-backend/internal/controller"
	"github.com/unclebandit/mailcampaign-backend/internal/db"
	"github.com/unclebandit/mailcampaign-backend/internal/handler"
	"github.com/unclebandit/mailcampaign-backend/internal/logger"
	"github.com/unclebandit/mailcampaign-backend/internal/queue"
	"github.com/unclebandit/mailcampaign-backend/internal/repository"
	"github.com/unclebandit/mailcampaign-backend/internal/service"
)

func main() {
	cfg, dotenv, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg.Environment, cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logr.Sync() }()
	zap.ReplaceGlobals(logr)

	if !dotenv {
		logr.Info("No .env file found, relying on OS environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.Database, logr)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	publisher, err := newPublisher(cfg.Events, logr)
	if err != nil {
		logr.Fatal("failed to create event publisher", zap.Error(err))
	}
	defer publisher.Close()

	campaignRepo := &repository.CampaignRepository{DB: conn}
	tenantRepo := &repository.TenantRepository{DB: conn}
	planRepo := &repository.PlanRepository{DB: conn}

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		TenantRepo:   tenantRepo,
		Publisher:    publisher,
		EventsTopic:  cfg.Events.Topic,
		Log:          logr,
	}
	planService := &service.PlanService{PlanRepo: planRepo, Log: logr}

	router := handler.NewRouter(handler.Routes{
		Campaigns: controller.NewCampaignController(campaignService, logr),
		Plans:     &controller.PlanController{PlanService: planService},
		Dashboard: handler.NewDashboardHandler(campaignService),
		Health:    &handler.HealthHandler{DB: conn, Log: logr},
		Log:       logr,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logr.Info("Server running", zap.String("addr", srv.Addr), zap.String("events_driver", cfg.Events.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newPublisher(cfg config.Events, logr *zap.Logger) (queue.Publisher, error) {
	switch cfg.Driver {
	case config.EventsDriverAMQP:
		return queue.NewAMQPPublisher(cfg.AMQPURL, logr)
	case config.EventsDriverKafka:
		return queue.NewKafkaPublisher(cfg.KafkaBrokers, logr)
	case config.EventsDriverMemory:
		return queue.NewInMemoryQueue(logr), nil
	default:
		return nil, fmt.Errorf("unsupported events driver %q", cfg.Driver)
	}
}
