package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pactlens/pactlens/constants"
)

// pdfToText shells out to poppler's pdftotext, reading from a temp file and
// writing to stdout. A form-feed \f separates pages in the output.
func (e *Extractor) pdfToText(ctx context.Context, data []byte) (Result, error) {
	tmpDir, err := os.MkdirTemp("", "pl-pdf-*")
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("extract.pdf.tmp_cleanup_failed", "dir", tmpDir, "error", rmErr)
		}
	}()

	path := filepath.Join(tmpDir, "doc.pdf")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return Result{}, err
	}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		msg := strings.TrimSpace(string(errb))
		if msg == "" {
			msg = err.Error()
		}
		return Result{}, &ExtractionError{Format: constants.PDF, Cause: fmt.Errorf("pdftotext: %s", msg)}
	}

	text := string(out)
	pages := 1 + strings.Count(text, "\f")
	return Result{
		Text:     text,
		Metadata: map[string]string{"pages": strconv.Itoa(pages), "decoder": "pdftotext"},
	}, nil
}
