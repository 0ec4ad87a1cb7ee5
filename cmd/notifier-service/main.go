package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/strokecare/platform/pkg/common/config"
	"github.com/strokecare/platform/pkg/common/database"
	"github.com/strokecare/platform/pkg/common/kafka"
	"github.com/strokecare/platform/pkg/common/logger"
	"github.com/strokecare/platform/pkg/engine"
	"github.com/strokecare/platform/pkg/guidance"
	"github.com/strokecare/platform/pkg/notifier"
	"github.com/strokecare/platform/pkg/store"
)

const healthPort = "8085"

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	records := store.NewGormStore(db, nil)
	if err := records.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate record table")
	}

	eng := engine.New(records, guidance.Default())
	handler := notifier.NewHandler(eng, cfg.NotifierHighRiskAlert)

	consumers := []*kafka.Consumer{
		kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaAssessmentTopic, cfg.KafkaGroupID),
		kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaEmergencyTopic, cfg.KafkaGroupID),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A consumer that stops on a failing event ends the process so the
	// uncommitted offset is redelivered after restart.
	failed := make(chan error, len(consumers))
	var wg sync.WaitGroup
	for _, c := range consumers {
		wg.Add(1)
		go func(c *kafka.Consumer) {
			defer wg.Done()
			if err := c.Consume(ctx, handler.Handle); err != nil && ctx.Err() == nil {
				failed <- err
			}
		}(c)
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.ServerHost, healthPort),
		Handler: router,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host":             cfg.ServerHost,
			"port":             healthPort,
			"high_risk_alerts": cfg.NotifierHighRiskAlert,
		}).Info("Notifier service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case <-quit:
	case err := <-failed:
		logger.Log.WithError(err).Error("consumer stopped")
		exitCode = 1
	}

	logger.Log.Info("Shutting down notifier service...")
	cancel()
	wg.Wait()
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close consumer")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}
	shutdownCancel()
	_ = database.ClosePostgres()
	os.Exit(exitCode)
}
