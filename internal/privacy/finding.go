// Package privacy implements PII detection and redaction for free-form text.
//
// Detection combines a fixed catalog of pattern detectors with a best-effort
// heuristic pass through an external language model. Pattern findings carry
// byte spans into the original text; heuristic findings carry a category and
// description only, never the matched text itself.
package privacy

import "sort"

// Source identifies how a finding was produced.
type Source string

const (
	// SourcePattern marks findings produced by the regex catalog.
	SourcePattern Source = "pattern"
	// SourceHeuristic marks findings produced by the language-model pass.
	SourceHeuristic Source = "heuristic"
)

// Status tags every public result so callers never see a raw error.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Category names a class of personally identifiable information.
type Category string

const (
	CategoryEmail       Category = "email"
	CategoryPhone       Category = "phone"
	CategoryNationalID  Category = "national_id"
	CategoryPaymentCard Category = "payment_card"
	CategoryAddress     Category = "address"
)

// heuristicValueMarker replaces the literal value for heuristic findings so
// detected PII is never echoed back through the collaborator path.
const heuristicValueMarker = "AI-detected"

// Span is a half-open [Start, End) byte interval into the original text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Finding is a single detected piece of PII.
//
// Pattern findings have a non-nil Span and a literal Value. Heuristic findings
// have a nil Span, a non-literal Value, and a human-readable Description.
type Finding struct {
	Category    Category `json:"category"`
	Value       string   `json:"value"`
	Span        *Span    `json:"span,omitempty"`
	Source      Source   `json:"source"`
	Context     string   `json:"context,omitempty"`
	Description string   `json:"description,omitempty"`
}

// DetectionResult is the outcome of a DetectPII call.
type DetectionResult struct {
	Status        Status                 `json:"status"`
	Message       string                 `json:"message,omitempty"`
	HasPII        bool                   `json:"has_pii"`
	Findings      map[Category][]Finding `json:"findings"`
	TotalFindings int                    `json:"total_findings"`
	// Partial is true when the heuristic collaborator did not contribute
	// (timeout, unavailable, malformed reply) and the result is pattern-only.
	Partial bool `json:"partial,omitempty"`
}

// Categories returns the categories present in the result in catalog order,
// followed by heuristic-only categories in lexical order.
func (r DetectionResult) Categories() []Category {
	out := make([]Category, 0, len(r.Findings))
	seen := make(map[Category]bool, len(r.Findings))
	for _, det := range DefaultCatalog() {
		if _, ok := r.Findings[det.Category]; ok && !seen[det.Category] {
			out = append(out, det.Category)
			seen[det.Category] = true
		}
	}
	extra := make([]Category, 0, len(r.Findings))
	for cat := range r.Findings {
		if !seen[cat] {
			extra = append(extra, cat)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

// RedactionResult is the outcome of a RedactPII call. RedactedText is derived
// solely from OriginalText and the spans produced in the same call.
type RedactionResult struct {
	Status         Status `json:"status"`
	Message        string `json:"message,omitempty"`
	RedactedText   string `json:"redacted_text"`
	RedactionCount int    `json:"redaction_count"`
	OriginalText   string `json:"original_text"`
	Partial        bool   `json:"partial,omitempty"`
}
