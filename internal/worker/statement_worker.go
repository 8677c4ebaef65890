// Package worker consumes statement process messages and drives the
// external categorization round-trip.
package worker

import (
	"context"
	"fmt"

	"finplan/internal/amqp"
	"finplan/internal/core"
	"finplan/internal/ledger"
	"finplan/internal/log"
	"finplan/internal/remote"
)

// Processor sends a stored statement to the external service.
type Processor interface {
	ProcessStatement(ctx context.Context, path, mode string) (remote.ProcessResult, error)
}

// BaselineFetcher pulls the current category summary.
type BaselineFetcher interface {
	FetchBaseline(ctx context.Context) remote.BaselineResult
}

// StatementWorker handles one process message at a time: send the stored
// file to the processor, record the outcome, then refresh the baseline so
// the next overview read reflects the new totals.
type StatementWorker struct {
	registry  ledger.StatementRegistry
	baseline  ledger.BaselineStore
	processor Processor
	fetcher   BaselineFetcher
	logger    *log.Logger
}

func NewStatementWorker(registry ledger.StatementRegistry, baseline ledger.BaselineStore, processor Processor, fetcher BaselineFetcher, logger *log.Logger) *StatementWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &StatementWorker{
		registry:  registry,
		baseline:  baseline,
		processor: processor,
		fetcher:   fetcher,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// HandleProcessMessage processes one statement. A processing failure marks
// the statement failed and returns nil so the consumer acks and moves on;
// only lookup and bookkeeping errors propagate.
func (w *StatementWorker) HandleProcessMessage(ctx context.Context, msg *amqp.StatementProcessMessage) error {
	st, err := w.registry.GetStatement(ctx, msg.StatementID)
	if err != nil {
		return fmt.Errorf("load statement %s: %w", msg.StatementID, err)
	}

	w.logger.InfoContext(ctx, "Processing statement",
		log.FieldOperation, log.OpProcess,
		log.FieldStatementID, st.ID,
		log.FieldFilename, st.Filename)

	result, err := w.processor.ProcessStatement(ctx, st.StoredPath, st.Mode)
	if err != nil {
		w.logger.ErrorContext(ctx, "Statement processing failed",
			log.FieldStatementID, st.ID,
			log.FieldError, err.Error())
		if markErr := w.registry.SetStatementResult(ctx, st.ID, core.StatementFailed, "", 0); markErr != nil {
			return fmt.Errorf("mark statement %s failed: %w", st.ID, markErr)
		}
		return nil
	}

	if err := w.registry.SetStatementResult(ctx, st.ID, core.StatementProcessed, result.OutputFile, result.Rows); err != nil {
		return fmt.Errorf("record result for statement %s: %w", st.ID, err)
	}

	w.logger.InfoContext(ctx, "Statement processed",
		log.FieldStatementID, st.ID,
		log.FieldRowCount, result.Rows,
		"output_file", result.OutputFile)

	w.refreshBaseline(ctx)
	return nil
}

// refreshBaseline pulls the summary after a successful processing run. The
// fetch degrades to fallback on failure, in which case the stored baseline
// is left untouched.
func (w *StatementWorker) refreshBaseline(ctx context.Context) {
	if w.fetcher == nil || w.baseline == nil {
		return
	}
	res := w.fetcher.FetchBaseline(ctx)
	if res.Source != remote.SourceRemote {
		w.logger.WarnContext(ctx, "Baseline refresh skipped",
			log.FieldBaselineSrc, res.Source,
			"reason", res.Reason)
		return
	}
	if err := w.baseline.WriteBaseline(ctx, res.Totals); err != nil {
		w.logger.ErrorContext(ctx, "Failed to store refreshed baseline",
			log.FieldError, err.Error())
		return
	}
	w.logger.InfoContext(ctx, "Baseline refreshed", log.FieldBaselineSrc, res.Source)
}
