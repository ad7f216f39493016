package privacy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lexaid/lexaid-ai-platform/internal/llm"
	"github.com/lexaid/lexaid-ai-platform/pkg/logging"
)

const (
	// defaultPrefixLimit bounds how much text is forwarded to the
	// collaborator per detection call.
	defaultPrefixLimit = 5000
	// defaultHeuristicTimeout caps a single collaborator round trip.
	defaultHeuristicTimeout = 10 * time.Second

	detectMaxTokens  = 1024
	rewriteMaxTokens = 2048
)

// ErrCollaboratorUnavailable reports a transport-level failure (network,
// timeout, provider error) talking to the text-generation service.
var ErrCollaboratorUnavailable = errors.New("privacy: collaborator unavailable")

// ErrMalformedReply reports a collaborator reply that could not be parsed
// into the expected structured shape.
var ErrMalformedReply = errors.New("privacy: malformed collaborator reply")

// SupplementaryFinding is an unpositioned finding from the collaborator.
// By policy it carries a category and description only, never the matched
// text, so PII is not re-exposed through the collaborator's own output.
type SupplementaryFinding struct {
	Type        string
	Description string
}

// CollaboratorReply is the parsed collaborator response: either the findings
// it contained, or the raw text that failed to parse.
type CollaboratorReply struct {
	Findings  []SupplementaryFinding
	Malformed bool
	Raw       string
}

// HeuristicConfig tunes the collaborator adapter.
type HeuristicConfig struct {
	Model       string
	PrefixLimit int
	Timeout     time.Duration
}

// HeuristicAdapter sends bounded text prefixes to the external language model
// and parses its free-form replies. Every call is best-effort: failures are
// reported to the caller, which degrades to pattern-only results.
type HeuristicAdapter struct {
	client      llm.Client
	model       string
	prefixLimit int
	timeout     time.Duration
	logger      *logging.Logger
}

// NewHeuristicAdapter builds an adapter over the given model client.
func NewHeuristicAdapter(client llm.Client, cfg HeuristicConfig, logger *logging.Logger) *HeuristicAdapter {
	if logger == nil {
		logger = logging.Default()
	}
	prefixLimit := cfg.PrefixLimit
	if prefixLimit <= 0 {
		prefixLimit = defaultPrefixLimit
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHeuristicTimeout
	}
	return &HeuristicAdapter{
		client:      client,
		model:       cfg.Model,
		prefixLimit: prefixLimit,
		timeout:     timeout,
		logger:      logger,
	}
}

// DetectSupplementary asks the collaborator for PII the pattern catalog cannot
// express. The input is truncated to the configured prefix limit. One bounded
// retry is attempted on transport failure; malformed replies are dropped.
func (a *HeuristicAdapter) DetectSupplementary(ctx context.Context, text string) ([]SupplementaryFinding, error) {
	if a == nil || a.client == nil {
		return nil, ErrCollaboratorUnavailable
	}

	prompt := fmt.Sprintf(`Analyze the following text for personally identifiable information (PII) that pattern matching might have missed.
Look for names, dates of birth, government IDs, financial information, or other sensitive personal data.
Return a JSON array of findings, each with "type" and "description".
Describe each finding without repeating the sensitive value itself.

Text to analyze: %q`, truncate(text, a.prefixLimit))

	raw, err := a.complete(ctx, prompt, detectMaxTokens, 0.2)
	if err != nil {
		return nil, err
	}

	reply := parseSupplementary(raw)
	if reply.Malformed {
		a.logger.Warn("collaborator reply was malformed, dropping heuristic findings",
			"reply_bytes", len(reply.Raw),
		)
		return nil, ErrMalformedReply
	}
	return reply.Findings, nil
}

// RewriteRedacted asks the collaborator to replace any remaining PII in an
// already span-redacted text with generic [REDACTED] markers. The returned
// text comes from a non-deterministic external transformer and may paraphrase
// content outside detected spans; callers must treat it as best-effort.
func (a *HeuristicAdapter) RewriteRedacted(ctx context.Context, text string) (string, error) {
	if a == nil || a.client == nil {
		return "", ErrCollaboratorUnavailable
	}

	prompt := fmt.Sprintf(`Redact any remaining personally identifiable information (PII) from this text.
Replace PII with [REDACTED] markers and keep everything else unchanged.

Text: %q

Redacted text:`, text)

	out, err := a.complete(ctx, prompt, rewriteMaxTokens, 0.1)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrMalformedReply
	}
	return out, nil
}

func (a *HeuristicAdapter) complete(ctx context.Context, prompt string, maxTokens int32, temperature float32) (string, error) {
	req := llm.Request{
		Model:       a.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.Complete(callCtx, req)
	if err != nil {
		// One bounded retry; never more, to avoid amplifying load on an
		// already failing service.
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %s", ErrCollaboratorUnavailable, err)
		}
		retryCtx, retryCancel := context.WithTimeout(ctx, a.timeout)
		defer retryCancel()
		resp, err = a.client.Complete(retryCtx, req)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrCollaboratorUnavailable, err)
		}
	}
	return resp.Text, nil
}

// jsonArrayRe extracts the first JSON array embedded in a free-form reply.
var jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)

type supplementaryWire struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// parseSupplementary parses a collaborator reply into a tagged variant rather
// than trusting its shape: either the structured findings it contained, or
// Malformed with the raw text preserved for logging.
func parseSupplementary(raw string) CollaboratorReply {
	match := jsonArrayRe.FindString(raw)
	if match == "" {
		return CollaboratorReply{Malformed: true, Raw: raw}
	}

	var wire []supplementaryWire
	if err := json.Unmarshal([]byte(match), &wire); err != nil {
		return CollaboratorReply{Malformed: true, Raw: raw}
	}

	findings := make([]SupplementaryFinding, 0, len(wire))
	for _, w := range wire {
		findings = append(findings, SupplementaryFinding{
			Type:        NormalizeCategory(w.Type),
			Description: w.Description,
		})
	}
	return CollaboratorReply{Findings: findings}
}

// NormalizeCategory lowercases a collaborator-supplied category name and
// replaces spaces with underscores; empty names map to "other_pii".
func NormalizeCategory(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return "other_pii"
	}
	return strings.ReplaceAll(name, " ", "_")
}

// truncate cuts s to at most limit bytes without splitting a multibyte rune,
// so the collaborator prompt stays valid UTF-8.
func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
