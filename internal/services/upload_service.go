package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"finplan/internal/core"
	"finplan/internal/ledger"
	"finplan/internal/log"
)

// StatementPublisher hands a registered upload to the processing queue.
// The AMQP client satisfies this; a nil publisher leaves uploads pending.
type StatementPublisher interface {
	PublishStatementProcess(ctx context.Context, statementID string) error
}

// UploadService stores uploaded bank statements and queues them for the
// external categorization service.
type UploadService struct {
	dir       string
	registry  ledger.StatementRegistry
	publisher StatementPublisher
	logger    *log.Logger

	// Uploads are written one at a time so per-file failures stay isolated.
	mu sync.Mutex
}

func NewUploadService(dir string, registry ledger.StatementRegistry, publisher StatementPublisher, logger *log.Logger) *UploadService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &UploadService{
		dir:       dir,
		registry:  registry,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentUpload),
	}
}

// Accept validates, stores and registers one uploaded statement, then
// publishes a process message. The statement stays pending if no publisher
// is configured; a publish failure is logged but does not fail the upload,
// since the file is already safely registered.
func (s *UploadService) Accept(ctx context.Context, filename, mode string, src io.Reader) (core.Statement, error) {
	if err := core.ValidateStatementFilename(filename); err != nil {
		return core.Statement{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return core.Statement{}, fmt.Errorf("create upload directory: %w", err)
	}

	id := uuid.NewString()
	base := filepath.Base(filename)
	storedPath := filepath.Join(s.dir, id+"_"+base)

	dst, err := os.Create(storedPath)
	if err != nil {
		return core.Statement{}, fmt.Errorf("create statement file: %w", err)
	}
	size, err := io.Copy(dst, src)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(storedPath)
		return core.Statement{}, fmt.Errorf("store statement file: %w", err)
	}

	st := core.Statement{
		ID:         id,
		Filename:   base,
		StoredPath: storedPath,
		SizeBytes:  size,
		Mode:       core.ValidMode(mode),
		Status:     core.StatementPending,
		UploadedAt: time.Now(),
	}
	if err := s.registry.RegisterStatement(ctx, st); err != nil {
		os.Remove(storedPath)
		return core.Statement{}, fmt.Errorf("register statement: %w", err)
	}

	s.logger.InfoContext(ctx, "Statement stored",
		log.FieldOperation, log.OpUpload,
		log.FieldStatementID, st.ID,
		log.FieldFilename, st.Filename,
		"size_bytes", st.SizeBytes)

	if s.publisher == nil {
		s.logger.WarnContext(ctx, "No statement publisher configured, upload stays pending",
			log.FieldStatementID, st.ID)
		return st, nil
	}
	if err := s.publisher.PublishStatementProcess(ctx, st.ID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish process message",
			log.FieldStatementID, st.ID,
			log.FieldError, err.Error())
	}
	return st, nil
}

// List returns registered statements, newest first.
func (s *UploadService) List(ctx context.Context) ([]core.Statement, error) {
	statements, err := s.registry.ListStatements(ctx)
	if err != nil {
		return nil, fmt.Errorf("list statements: %w", err)
	}
	return statements, nil
}
