package compliance

import (
	"context"
	"encoding/json"
	"fmt"
)

// GDPRAnalysis is the structured outcome of a GDPR compliance check.
type GDPRAnalysis struct {
	ComplianceIssues []string `json:"compliance_issues"`
	RiskLevel        string   `json:"risk_level"`
	Recommendations  []string `json:"recommendations"`
}

// GDPRResult is the public result of CheckGDPR.
type GDPRResult struct {
	Status   Status       `json:"status"`
	Message  string       `json:"message,omitempty"`
	Analysis GDPRAnalysis `json:"gdpr_compliance"`
}

// CheckGDPR analyzes text for GDPR compliance issues. An unparseable reply
// degrades to an empty low-risk analysis.
func (a *Analyzer) CheckGDPR(ctx context.Context, text string) GDPRResult {
	prompt := fmt.Sprintf(`Analyze the following text for potential GDPR compliance issues. Look for:
1. Unauthorized collection of personal data
2. Missing consent mechanisms
3. Lack of data processing transparency
4. Insufficient data protection measures
5. Missing data subject rights information

Return a JSON object with:
- compliance_issues (array of issues found)
- risk_level (low, medium, high)
- recommendations (array of recommendations)

Text to analyze: %q`, a.truncate(text))

	raw, err := a.complete(ctx, prompt, 2048, 0.2)
	if err != nil {
		a.logger.Error("gdpr check failed", "error", err.Error())
		return GDPRResult{
			Status:  StatusError,
			Message: fmt.Sprintf("failed to check GDPR compliance: %v", err),
		}
	}

	return GDPRResult{
		Status:   StatusSuccess,
		Analysis: parseGDPRAnalysis(raw),
	}
}

func parseGDPRAnalysis(raw string) GDPRAnalysis {
	empty := GDPRAnalysis{
		ComplianceIssues: []string{},
		RiskLevel:        "low",
		Recommendations:  []string{},
	}

	match := jsonObjectRe.FindString(raw)
	if match == "" {
		return empty
	}
	var analysis GDPRAnalysis
	if err := json.Unmarshal([]byte(match), &analysis); err != nil {
		return empty
	}
	if analysis.ComplianceIssues == nil {
		analysis.ComplianceIssues = []string{}
	}
	if analysis.Recommendations == nil {
		analysis.Recommendations = []string{}
	}
	if analysis.RiskLevel == "" {
		analysis.RiskLevel = "low"
	}
	return analysis
}
