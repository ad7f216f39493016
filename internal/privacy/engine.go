package privacy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lexaid/lexaid-ai-platform/internal/observability/metrics"
	"github.com/lexaid/lexaid-ai-platform/pkg/logging"
)

// minCollaboratorBudget is the least remaining deadline worth spending on a
// collaborator round trip; below it the call is skipped and the result is
// marked partial.
const minCollaboratorBudget = 250 * time.Millisecond

// Engine is the public entry point for detection and redaction. It holds no
// mutable state between calls and is safe for concurrent use.
type Engine struct {
	scanner   *Scanner
	heuristic *HeuristicAdapter
	logger    *logging.Logger
	metrics   *metrics.PrivacyMetrics
	tracer    trace.Tracer
}

// NewEngine builds an engine. heuristic may be nil, in which case every result
// is pattern-only and marked partial. metrics may be nil.
func NewEngine(heuristic *HeuristicAdapter, m *metrics.PrivacyMetrics, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		scanner:   NewScanner(nil),
		heuristic: heuristic,
		logger:    logger,
		metrics:   m,
		tracer:    otel.Tracer("lexaid.internal.privacy"),
	}
}

// DetectPII scans text for PII. It never panics outward: internal failure is
// converted into a status-tagged error result. Pattern scanning and the
// heuristic collaborator run in parallel; collaborator failure, a malformed
// reply, or an exhausted deadline all degrade to a pattern-only result with
// Partial set.
func (e *Engine) DetectPII(ctx context.Context, text string) (result DetectionResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("detect_pii panicked", "panic", fmt.Sprint(r))
			result = DetectionResult{
				Status:  StatusError,
				Message: fmt.Sprintf("failed to detect PII: %v", r),
			}
		}
	}()

	ctx, span := e.tracer.Start(ctx, "privacy.detect")
	defer span.End()

	if text == "" {
		return DetectionResult{
			Status:   StatusSuccess,
			Findings: map[Category][]Finding{},
		}
	}

	type heuristicOutcome struct {
		findings []SupplementaryFinding
		err      error
		skipped  bool
	}
	heuristicCh := make(chan heuristicOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				heuristicCh <- heuristicOutcome{err: fmt.Errorf("%w: panic: %v", ErrCollaboratorUnavailable, r)}
			}
		}()
		if e.heuristic == nil {
			heuristicCh <- heuristicOutcome{skipped: true}
			return
		}
		if dl, ok := ctx.Deadline(); ok && time.Until(dl) < minCollaboratorBudget {
			heuristicCh <- heuristicOutcome{skipped: true}
			return
		}
		start := time.Now()
		findings, err := e.heuristic.DetectSupplementary(ctx, text)
		e.metrics.ObserveCollaboratorLatency("detect", time.Since(start).Seconds())
		heuristicCh <- heuristicOutcome{findings: findings, err: err}
	}()

	patternFindings := e.scanner.Scan(text)
	heur := <-heuristicCh

	partial := false
	switch {
	case heur.skipped:
		partial = true
		e.metrics.ObserveDegraded("detect", "skipped")
	case heur.err != nil:
		partial = true
		reason := "unavailable"
		if errors.Is(heur.err, ErrMalformedReply) {
			reason = "malformed"
		}
		e.metrics.ObserveDegraded("detect", reason)
		e.logger.Warn("heuristic detection degraded to pattern-only",
			"reason", reason,
			"error", heur.err.Error(),
		)
	}

	result = mergeFindings(patternFindings, heur.findings)
	result.Partial = partial

	for cat, fs := range result.Findings {
		for _, f := range fs {
			e.metrics.ObserveFinding(string(cat), string(f.Source))
		}
	}
	span.SetAttributes(
		attribute.Int("privacy.total_findings", result.TotalFindings),
		attribute.Bool("privacy.partial", result.Partial),
	)
	return result
}

// RedactPII produces a redacted copy of text. Positioned findings are replaced
// by category-tagged markers; if any finding lacks a position, one
// collaborator rewrite pass is attempted as a catch-all and kept only when it
// strictly increases the marker count. On internal failure the original text
// is returned unchanged with an error status, never a corrupted partial
// rewrite.
func (e *Engine) RedactPII(ctx context.Context, text string) (result RedactionResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("redact_pii panicked", "panic", fmt.Sprint(r))
			result = RedactionResult{
				Status:       StatusError,
				Message:      fmt.Sprintf("failed to redact PII: %v", r),
				RedactedText: text,
				OriginalText: text,
			}
		}
	}()

	ctx, span := e.tracer.Start(ctx, "privacy.redact")
	defer span.End()

	detection := e.DetectPII(ctx, text)
	if detection.Status == StatusError {
		return RedactionResult{
			Status:       StatusError,
			Message:      detection.Message,
			RedactedText: text,
			OriginalText: text,
		}
	}

	if !detection.HasPII {
		return RedactionResult{
			Status:       StatusSuccess,
			RedactedText: text,
			OriginalText: text,
			Partial:      detection.Partial,
		}
	}

	redacted, applied := applySpans(text, spanFindings(detection))
	e.metrics.ObserveRedactions("span", applied)
	partial := detection.Partial

	if hasSpanlessFindings(detection) {
		rewritten, err := e.rewrite(ctx, redacted)
		switch {
		case err != nil:
			partial = true
			e.metrics.ObserveDegraded("redact", "rewrite_failed")
			e.logger.Warn("collaborator rewrite pass failed, keeping span-redacted text",
				"error", err.Error(),
			)
		case countMarkers(rewritten) > countMarkers(redacted):
			// Keep the rewrite only when it strictly increases marker count;
			// otherwise a zero-net-benefit paraphrase would replace stable
			// span-redacted output.
			e.metrics.ObserveRedactions("rewrite", countMarkers(rewritten)-countMarkers(redacted))
			redacted = rewritten
		}
	}

	count := countMarkers(redacted)
	span.SetAttributes(
		attribute.Int("privacy.redaction_count", count),
		attribute.Bool("privacy.partial", partial),
	)
	return RedactionResult{
		Status:         StatusSuccess,
		RedactedText:   redacted,
		RedactionCount: count,
		OriginalText:   text,
		Partial:        partial,
	}
}

func (e *Engine) rewrite(ctx context.Context, text string) (string, error) {
	if e.heuristic == nil {
		return "", ErrCollaboratorUnavailable
	}
	if dl, ok := ctx.Deadline(); ok && time.Until(dl) < minCollaboratorBudget {
		return "", context.DeadlineExceeded
	}
	start := time.Now()
	out, err := e.heuristic.RewriteRedacted(ctx, text)
	e.metrics.ObserveCollaboratorLatency("rewrite", time.Since(start).Seconds())
	return out, err
}
