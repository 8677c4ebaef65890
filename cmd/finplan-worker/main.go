package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"finplan/internal/amqp"
	"finplan/internal/backend"
	"finplan/internal/cli"
	"finplan/internal/log"
	"finplan/internal/remote"
	"finplan/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting finplan-worker", log.FieldOperation, log.OpStartup)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger).Create(cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err.Error())
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer amqpClient.Close()

	processor := remote.NewProcessorClient(cfg.ProcessorBaseURL, cfg.RemoteTimeout, logger)
	fetcher := remote.NewSummaryClient(cfg.SummaryBaseURL, cfg.RemoteTimeout, logger)
	statementWorker := worker.NewStatementWorker(result.Ledger, result.Ledger, processor, fetcher, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeStatementProcess(gctx, func(msg *amqp.StatementProcessMessage) error {
			return statementWorker.HandleProcessMessage(gctx, msg)
		})
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
			return nil
		case <-gctx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Worker stopped", log.FieldOperation, log.OpShutdown)
}
