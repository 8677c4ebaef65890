package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finplan/internal/amqp"
	"finplan/internal/backend"
	"finplan/internal/cli"
	apphttp "finplan/internal/http"
	"finplan/internal/log"
	"finplan/internal/remote"
	"finplan/internal/services"
	"finplan/internal/session"
	"finplan/web"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting finplan", log.FieldOperation, log.OpStartup)

	result, err := backend.NewFactory(logger).Create(cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err.Error())
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	// AMQP is optional: without a broker uploads are registered but stay
	// pending until a worker picks them up later.
	var publisher services.StatementPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, uploads will stay pending",
				log.FieldError, err.Error())
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	staticFS, err := web.Static()
	if err != nil {
		logger.Error("Failed to load embedded assets", log.FieldError, err.Error())
		os.Exit(1)
	}

	srv := apphttp.NewServer(cfg, apphttp.Deps{
		Expenses: services.NewExpenseService(result.Ledger, result.Ledger, logger),
		Uploads:  services.NewUploadService(cfg.UploadDir, result.Ledger, publisher, logger),
		Sessions: session.NewStore(cfg.SessionTTL),
		Fetcher:  remote.NewSummaryClient(cfg.SummaryBaseURL, cfg.RemoteTimeout, logger),
		Lister:   result.Ledger,
		Baseline: result.Ledger,
		StaticFS: staticFS,
	}, logger)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
	}()

	if err := srv.Start(); err != nil {
		logger.Error("Server failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped", log.FieldOperation, log.OpShutdown)
}
