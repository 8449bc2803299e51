// Command analyze runs the full extract+analysis pipeline against a local
// file and prints the assembled analysis as JSON. Useful for prompt and
// schema debugging without the server, database, or object store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pactlens/pactlens/constants"
	"github.com/pactlens/pactlens/internal/analysis"
	"github.com/pactlens/pactlens/internal/common"
	"github.com/pactlens/pactlens/internal/extract"
	llmopenai "github.com/pactlens/pactlens/internal/llm/openai"
	"github.com/pactlens/pactlens/internal/tier"
)

func main() {
	var (
		path     = flag.String("file", "", "path to the contract document (pdf/docx/txt/rtf/odt)")
		tierFlag = flag.String("tier", string(tier.Free), "subscription tier: free|pro|business|enterprise")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -file contract.pdf [-tier pro]")
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		fmt.Fprintln(os.Stderr, "OPENAI_API_KEY is required")
		os.Exit(1)
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read file: %v\n", err)
		os.Exit(1)
	}

	format := constants.MapExtToFormat(filepath.Ext(*path))
	if format == constants.OTHER {
		fmt.Fprintf(os.Stderr, "unsupported file type %q\n", filepath.Ext(*path))
		os.Exit(1)
	}

	ctx := context.Background()

	extractor := extract.NewExtractor(extract.Config{Pdftotext: cfg.Extract.Pdftotext}, logger)
	res, err := extractor.Extract(ctx, data, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		os.Exit(1)
	}

	completer, err := llmopenai.NewClient(llmopenai.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "completion client: %v\n", err)
		os.Exit(1)
	}

	pipeline := analysis.New(logger, completer, analysis.Config{
		StageTimeout: cfg.Analysis.StageTimeout,
	})

	result, err := pipeline.Analyze(ctx, analysis.Request{
		Text: res.Text,
		Tier: tier.Name(*tierFlag),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
