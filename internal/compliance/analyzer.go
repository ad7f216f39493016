package compliance

import (
	"context"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/lexaid/lexaid-ai-platform/internal/llm"
	"github.com/lexaid/lexaid-ai-platform/pkg/logging"
)

// Status tags analyzer results so callers never see a raw error.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

const (
	// analyzerPrefixLimit bounds how much text is forwarded per analysis call.
	analyzerPrefixLimit = 10000
	// analyzerTimeout caps a single collaborator round trip.
	analyzerTimeout = 20 * time.Second
)

// AnalyzerConfig tunes the compliance analyzer.
type AnalyzerConfig struct {
	Model       string
	PrefixLimit int
	Timeout     time.Duration
}

// Analyzer runs collaborator-driven compliance analysis: bias detection and
// mitigation, GDPR checks, and privacy policy generation. Analysis failure
// degrades to a safe empty result rather than an error wherever the original
// content can still be returned.
type Analyzer struct {
	client      llm.Client
	model       string
	prefixLimit int
	timeout     time.Duration
	logger      *logging.Logger
}

// NewAnalyzer builds an analyzer over the given model client.
func NewAnalyzer(client llm.Client, cfg AnalyzerConfig, logger *logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.Default()
	}
	prefixLimit := cfg.PrefixLimit
	if prefixLimit <= 0 {
		prefixLimit = analyzerPrefixLimit
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = analyzerTimeout
	}
	return &Analyzer{
		client:      client,
		model:       cfg.Model,
		prefixLimit: prefixLimit,
		timeout:     timeout,
		logger:      logger,
	}
}

func (a *Analyzer) complete(ctx context.Context, prompt string, maxTokens int32, temperature float32) (string, error) {
	if a == nil || a.client == nil {
		return "", fmt.Errorf("compliance: no model client configured")
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.Complete(callCtx, llm.Request{
		Model:       a.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("compliance: model call failed: %w", err)
	}
	return resp.Text, nil
}

// jsonObjectRe extracts the first JSON object embedded in a free-form reply.
var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// truncate bounds the analyzed text to the configured prefix, stepping back
// to a rune boundary so the prompt stays valid UTF-8.
func (a *Analyzer) truncate(s string) string {
	if a.prefixLimit <= 0 || len(s) <= a.prefixLimit {
		return s
	}
	cut := a.prefixLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
