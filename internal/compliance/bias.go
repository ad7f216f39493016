package compliance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// biasCategories is the fixed set of bias classes the analyzer asks about.
var biasCategories = []string{
	"racial", "gender", "age", "religious", "political",
	"socioeconomic", "national origin", "disability",
}

// BiasCategoryDetail describes one category of the bias analysis.
type BiasCategoryDetail struct {
	Present      bool     `json:"present"`
	Confidence   string   `json:"confidence,omitempty"`
	Examples     []string `json:"examples,omitempty"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// BiasAnalysis is the structured outcome of a bias detection pass.
type BiasAnalysis struct {
	BiasFound  bool                          `json:"bias_found"`
	Categories map[string]BiasCategoryDetail `json:"categories"`
}

// BiasResult is the public result of DetectBias.
type BiasResult struct {
	Status   Status       `json:"status"`
	Message  string       `json:"message,omitempty"`
	Analysis BiasAnalysis `json:"bias_analysis"`
}

// MitigationResult is the public result of MitigateBias.
type MitigationResult struct {
	Status        Status       `json:"status"`
	Message       string       `json:"message,omitempty"`
	MitigatedText string       `json:"mitigated_text"`
	ChangesMade   int          `json:"changes_made"`
	OriginalText  string       `json:"original_text"`
	Analysis      BiasAnalysis `json:"bias_analysis,omitempty"`
}

// DetectBias analyzes text for potential bias across the fixed categories.
// An unparseable reply degrades to an empty "no bias" analysis, matching the
// best-effort contract of every collaborator-backed operation.
func (a *Analyzer) DetectBias(ctx context.Context, text string) BiasResult {
	prompt := fmt.Sprintf(`Analyze the following legal text for potential bias across these categories:
%s

For each type of bias, provide:
1. Whether bias is present (yes/no)
2. Confidence level (low, medium, high)
3. Specific examples or phrases that indicate bias
4. Suggested neutral alternatives

Return a JSON object with bias_found (boolean) and categories (object) with details for each category.

Text to analyze: %q`, strings.Join(biasCategories, ", "), a.truncate(text))

	raw, err := a.complete(ctx, prompt, 2048, 0.2)
	if err != nil {
		a.logger.Error("bias detection failed", "error", err.Error())
		return BiasResult{
			Status:  StatusError,
			Message: fmt.Sprintf("failed to detect bias: %v", err),
		}
	}

	return BiasResult{
		Status:   StatusSuccess,
		Analysis: parseBiasAnalysis(raw),
	}
}

// MitigateBias rewrites biased text into neutral language, preserving legal
// meaning. Text with no detected bias is returned unchanged.
func (a *Analyzer) MitigateBias(ctx context.Context, text string) MitigationResult {
	detection := a.DetectBias(ctx, text)
	if detection.Status == StatusError {
		return MitigationResult{
			Status:        StatusError,
			Message:       detection.Message,
			MitigatedText: text,
			OriginalText:  text,
		}
	}

	if !detection.Analysis.BiasFound {
		return MitigationResult{
			Status:        StatusSuccess,
			MitigatedText: text,
			OriginalText:  text,
			Analysis:      detection.Analysis,
		}
	}

	prompt := fmt.Sprintf(`The following legal text contains potential bias. Rewrite it to be more neutral and balanced,
while preserving the legal meaning and accuracy. Ensure the rewriting:

1. Uses inclusive and neutral language
2. Maintains legal precision
3. Preserves the original intent
4. Presents balanced perspectives

Original text: %q

Neutralized text:`, a.truncate(text))

	mitigated, err := a.complete(ctx, prompt, 4096, 0.2)
	if err != nil {
		a.logger.Error("bias mitigation failed", "error", err.Error())
		return MitigationResult{
			Status:        StatusError,
			Message:       fmt.Sprintf("failed to mitigate bias: %v", err),
			MitigatedText: text,
			OriginalText:  text,
			Analysis:      detection.Analysis,
		}
	}
	mitigated = strings.TrimSpace(mitigated)

	return MitigationResult{
		Status:        StatusSuccess,
		MitigatedText: mitigated,
		ChangesMade:   approximateChangePercent(text, mitigated),
		OriginalText:  text,
		Analysis:      detection.Analysis,
	}
}

func parseBiasAnalysis(raw string) BiasAnalysis {
	empty := BiasAnalysis{Categories: map[string]BiasCategoryDetail{}}

	match := jsonObjectRe.FindString(raw)
	if match == "" {
		return empty
	}
	var analysis BiasAnalysis
	if err := json.Unmarshal([]byte(match), &analysis); err != nil {
		return empty
	}
	if analysis.Categories == nil {
		analysis.Categories = map[string]BiasCategoryDetail{}
	}
	return analysis
}

// approximateChangePercent is a rough size-delta heuristic, not an edit
// distance: the rewrite comes from a non-deterministic transformer, so only
// the magnitude of change is meaningful.
func approximateChangePercent(original, rewritten string) int {
	if len(original) == 0 {
		return 0
	}
	delta := len(original) - len(rewritten)
	if delta < 0 {
		delta = -delta
	}
	return delta * 100 / len(original)
}
