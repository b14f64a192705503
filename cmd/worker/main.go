package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/nicolascalev/toptierperk-api/internal/config"
	"github.com/nicolascalev/toptierperk-api/internal/database"
	"github.com/nicolascalev/toptierperk-api/internal/logging"
	"github.com/nicolascalev/toptierperk-api/internal/queue"
	"github.com/nicolascalev/toptierperk-api/internal/tasks"
)

func main() {
	_ = godotenv.Load()

	logging.Setup()

	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	slog.Info("starting notification worker")

	srv := queue.NewServer(cfg, 10)

	handler := tasks.NewHandler(database.DB, cfg.MailFrom)
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	go func() {
		if err := srv.Run(mux); err != nil {
			slog.Error("worker failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down worker...")
	srv.Shutdown()

	if sqlDB, err := database.DB.DB(); err == nil {
		sqlDB.Close()
	}

	slog.Info("worker stopped")
}
