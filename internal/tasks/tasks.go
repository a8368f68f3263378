package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/siswa/internal/formatter"
	"github.com/desertthunder/siswa/internal/models"
)

// Sink receives rendered documents by key.
type Sink interface {
	Set(ctx context.Context, key string, value []byte) error
}

// SlipFormat selects the slip rendering.
type SlipFormat string

const (
	SlipPDF  SlipFormat = "pdf"
	SlipText SlipFormat = "text"
)

// ParseSlipFormat accepts pdf (default) or text/txt.
func ParseSlipFormat(s string) (SlipFormat, error) {
	switch s {
	case "", "pdf":
		return SlipPDF, nil
	case "text", "txt":
		return SlipText, nil
	}
	return "", fmt.Errorf("unknown slip format %q (want pdf or text)", s)
}

// SlipEngine renders slips with fixed school details.
type SlipEngine struct {
	sink   Sink
	opts   formatter.SlipOptions
	logger *log.Logger
}

// NewSlipEngine creates a [SlipEngine] writing to sink.
func NewSlipEngine(sink Sink, opts formatter.SlipOptions, logger *log.Logger) *SlipEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SlipEngine{sink: sink, opts: opts, logger: logger}
}

// Render builds the slip document for st without writing it.
func (e *SlipEngine) Render(st models.Student, format SlipFormat) (formatter.Slip, []byte, error) {
	slip := formatter.NewSlip(st, e.opts)
	if format == SlipText {
		return slip, formatter.SlipText(slip), nil
	}
	data, err := formatter.SlipPDF(slip)
	if err != nil {
		return slip, nil, err
	}
	return slip, data, nil
}

// Export renders st's slip and writes it under its slip filename. It returns the key written.
func (e *SlipEngine) Export(ctx context.Context, st models.Student, format SlipFormat) (string, error) {
	slip, data, err := e.Render(st, format)
	if err != nil {
		return "", err
	}
	key := slipKey(slip.Filename, format)
	if err := e.sink.Set(ctx, key, data); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", key, err)
	}
	e.logger.Info("slip exported", "id", st.ID, "number", slip.Number, "key", key)
	return key, nil
}

func slipKey(filename string, format SlipFormat) string {
	if format == SlipText {
		return filename[:len(filename)-len(".pdf")] + ".txt"
	}
	return filename
}

func (e *SlipEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
