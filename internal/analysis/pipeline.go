package analysis

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pactlens/pactlens/internal/llm"
	"github.com/pactlens/pactlens/internal/tier"
)

// Config holds pipeline knobs.
type Config struct {
	// StageTimeout bounds each completion call. Zero disables the bound.
	StageTimeout time.Duration
}

// Pipeline runs the four analysis stages against the completion service and
// assembles their outputs into one ContractAnalysis. It is stateless across
// requests and safe for concurrent use.
type Pipeline struct {
	logger    *slog.Logger
	completer llm.Completer
	cfg       Config
}

// New constructs the pipeline around an already-validated completion client.
func New(logger *slog.Logger, completer llm.Completer, cfg Config) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger, completer: completer, cfg: cfg}
}

// Analyze resolves the tier profile, truncates the source text, fans the
// four stages out concurrently, and assembles the result. Stage failures are
// absorbed at the stage boundary: each failed stage contributes its default
// (empty object, string, or list) and is recorded in metadata.stageFailures.
// The only error Analyze itself returns is caller-context cancellation.
func (p *Pipeline) Analyze(ctx context.Context, req Request) (ContractAnalysis, error) {
	start := time.Now()
	logger := p.logger
	if req.CorrelationID != "" {
		logger = logger.With("correlation_id", req.CorrelationID)
	}

	profile := tier.Resolve(req.Tier, logger)
	text := tier.Truncate(req.Text, profile.MaxInputChars)

	logger.Info("analysis.start",
		"tier", string(profile.Tier),
		"source_len", len(req.Text),
		"truncated_len", len(text),
	)

	var (
		structured    map[string]any
		summary       string
		risks         []RiskFinding
		clauses       []ClauseExplanation
		structuredErr error
		summaryErr    error
		risksErr      error
		clausesErr    error
	)

	// All four stages read the same immutable text and share no state; the
	// fan-out is a throughput optimization, not a correctness requirement.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sctx, cancel := p.stageContext(gctx)
		defer cancel()
		structured, structuredErr = p.runStructured(sctx, text)
		p.logStageFailure(logger, stageStructured, structuredErr)
		return nil
	})
	g.Go(func() error {
		sctx, cancel := p.stageContext(gctx)
		defer cancel()
		summary, summaryErr = p.runSummary(sctx, text, profile.SummaryDepth)
		p.logStageFailure(logger, stageSummary, summaryErr)
		return nil
	})
	g.Go(func() error {
		sctx, cancel := p.stageContext(gctx)
		defer cancel()
		risks, risksErr = p.runRisks(sctx, text, profile.RiskDetail)
		p.logStageFailure(logger, stageRisks, risksErr)
		return nil
	})
	g.Go(func() error {
		sctx, cancel := p.stageContext(gctx)
		defer cancel()
		clauses, clausesErr = p.runClauses(sctx, text, profile.ClauseDetail)
		p.logStageFailure(logger, stageClauses, clausesErr)
		return nil
	})

	_ = g.Wait() // stage goroutines never return errors; failures are isolated above

	if err := ctx.Err(); err != nil {
		logger.Warn("analysis.cancelled", "elapsed_ms", time.Since(start).Milliseconds())
		return ContractAnalysis{}, err
	}

	var failures []string
	for _, f := range []struct {
		name string
		err  error
	}{
		{stageStructured, structuredErr},
		{stageSummary, summaryErr},
		{stageRisks, risksErr},
		{stageClauses, clausesErr},
	} {
		if f.err != nil {
			failures = append(failures, f.name)
		}
	}

	result := assemble(stageOutputs{
		structured: structured,
		summary:    summary,
		risks:      risks,
		clauses:    clauses,
		failures:   failures,
	}, p.completer.Model(), time.Now().UTC())

	logger.Info("analysis.done",
		"tier", string(profile.Tier),
		"risk_flags", len(result.RiskFlags),
		"clauses", result.Metadata.TotalClauses,
		"failed_stages", len(failures),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (p *Pipeline) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.cfg.StageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.cfg.StageTimeout)
}

func (p *Pipeline) logStageFailure(logger *slog.Logger, stage string, err error) {
	if err == nil {
		return
	}
	logger.Warn("analysis.stage_failed", "stage", stage, "error", err)
}
