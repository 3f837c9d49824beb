package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/abstore/internal/config"
	"github.com/example/abstore/internal/database"
	"github.com/example/abstore/internal/routes"
	"github.com/example/abstore/internal/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configFile := flag.String("config", "", "optional config file (yaml, json, toml or env)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Error("connect database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}

	uploads, err := utils.NewUploadStore(cfg.UploadDir, log)
	if err != nil {
		log.Error("prepare upload dir", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	app := routes.NewApp(cfg, db, uploads, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "port", cfg.AppPort, "driver", cfg.DBDriver)
		errCh <- app.Listen(":" + cfg.AppPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("fiber.Listen error", "error", err)
		}
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Error("shutdown", "error", err)
		}
		cancel()
	}

	if err := database.Close(db); err != nil {
		log.Error("close database", "error", err)
	}
}
