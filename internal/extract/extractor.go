package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pactlens/pactlens/constants"
)

// Result is the extracted plain text plus decoder metadata. The extractor
// never truncates: length gating is the pipeline's job, downstream.
type Result struct {
	Text     string
	Metadata map[string]string
}

// ExtractionError indicates the byte stream could not be decoded as the
// declared format. It is fatal to an analysis request: no text, no analysis.
type ExtractionError struct {
	Format constants.FileFormat
	Cause  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Format, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Config for the extractor.
type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
}

// Extractor converts uploaded document bytes into plain text.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

// NewExtractor builds an extractor using the real exec runner.
func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	return NewExtractorWithRunner(cfg, execRunner{}, logger)
}

// NewExtractorWithRunner lets tests substitute the external-command runner.
func NewExtractorWithRunner(cfg Config, runner Runner, logger *slog.Logger) *Extractor {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, runner: runner, logger: logger}
}

// Extract decodes data as the declared format. The format tag comes from the
// upload, not from sniffing; a mismatch surfaces as an ExtractionError with
// the decoder's message attached.
func (e *Extractor) Extract(ctx context.Context, data []byte, format constants.FileFormat) (Result, error) {
	start := time.Now()

	var (
		res Result
		err error
	)
	switch format {
	case constants.PDF:
		res, err = e.pdfToText(ctx, data)
	case constants.DOCX:
		res, err = docxToText(data)
	case constants.ODT:
		res, err = odtToText(data)
	case constants.RTF:
		res, err = rtfToText(data)
	case constants.TXT:
		res, err = plainText(data)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		e.logger.Error("extract.failed",
			"format", string(format),
			"bytes", len(data),
			"error", err,
		)
		if _, ok := err.(*ExtractionError); ok {
			return Result{}, err
		}
		return Result{}, &ExtractionError{Format: format, Cause: err}
	}

	if res.Metadata == nil {
		res.Metadata = map[string]string{}
	}
	res.Metadata["format"] = string(format)
	res.Metadata["chars"] = strconv.Itoa(len(res.Text))

	e.logger.Info("extract.ok",
		"format", string(format),
		"bytes", len(data),
		"chars", len(res.Text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// plainText accepts the bytes as UTF-8 text, replacing invalid sequences.
func plainText(data []byte) (Result, error) {
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	return Result{
		Text:     text,
		Metadata: map[string]string{"encoding": "utf-8"},
	}, nil
}
