package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"finplan/internal/log"
)

// ProcessResult is the statement processor's response contract.
type ProcessResult struct {
	OK         bool   `json:"ok"`
	OutputFile string `json:"output_file"`
	Rows       int    `json:"rows"`
}

// ProcessorClient hands a stored statement file to the external
// categorization service. Unlike the summary fetch this returns errors:
// the worker needs them to mark the statement failed.
type ProcessorClient struct {
	baseURL string
	client  *http.Client
	logger  *log.Logger
}

func NewProcessorClient(baseURL string, timeout time.Duration, logger *log.Logger) *ProcessorClient {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ProcessorClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.WithComponent(log.ComponentRemote),
	}
}

// ProcessStatement uploads the file at path with the given mode and decodes
// the processor's verdict. Single attempt, no retry.
func (c *ProcessorClient) ProcessStatement(ctx context.Context, path, mode string) (ProcessResult, error) {
	if c.baseURL == "" {
		return ProcessResult{}, fmt.Errorf("processor endpoint not configured")
	}

	f, err := os.Open(path)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("open statement file: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(path))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("mode", mode); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload/statement", pr)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("build processor request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("call statement processor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ProcessResult{}, fmt.Errorf("statement processor returned status %d", resp.StatusCode)
	}

	var result ProcessResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ProcessResult{}, fmt.Errorf("decode processor response: %w", err)
	}
	if !result.OK {
		return result, fmt.Errorf("statement processor rejected the file")
	}

	c.logger.InfoContext(ctx, "Statement processed",
		log.FieldOperation, log.OpProcess,
		log.FieldFilename, filepath.Base(path),
		log.FieldRowCount, result.Rows)

	return result, nil
}
