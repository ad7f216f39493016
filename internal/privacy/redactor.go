package privacy

import (
	"fmt"
	"sort"
	"strings"
)

// redactionMarkerPrefix is shared by both marker forms, "[REDACTED]" and
// "[REDACTED:<category>]", and is what redaction counting looks for.
const redactionMarkerPrefix = "[REDACTED"

// spanFindings extracts every positioned finding from a detection result in
// deterministic category order.
func spanFindings(result DetectionResult) []Finding {
	var out []Finding
	for _, cat := range result.Categories() {
		for _, f := range result.Findings[cat] {
			if f.Span != nil {
				out = append(out, f)
			}
		}
	}
	return out
}

// applySpans replaces each span with its category marker, left to right.
//
// Spans are sorted ascending by start (stable, so ties keep catalog order) and
// must never be applied out of order: a running offset translates
// original-text coordinates into the growing output buffer. A span that
// overlaps an already redacted region is skipped entirely, so overlapping
// matches from different categories cannot double-redact or produce
// negative-length edits.
func applySpans(text string, findings []Finding) (string, int) {
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Span.Start < findings[j].Span.Start
	})

	redacted := text
	offset := 0
	covered := -1
	applied := 0

	for _, f := range findings {
		start, end := f.Span.Start, f.Span.End
		if start < 0 || end > len(text) || start >= end {
			continue
		}
		if start < covered {
			// Already redacted by an earlier span.
			continue
		}

		marker := fmt.Sprintf("[REDACTED:%s]", f.Category)
		adjStart := start + offset
		adjEnd := end + offset
		redacted = redacted[:adjStart] + marker + redacted[adjEnd:]

		offset += len(marker) - (end - start)
		covered = end
		applied++
	}

	return redacted, applied
}

// countMarkers counts redaction markers actually present in text, not the
// number attempted. Both the generic and the category-tagged form share the
// same prefix. Input that already contains the marker literal is counted too,
// so redaction_count can exceed the markers introduced by a single call.
func countMarkers(text string) int {
	return strings.Count(text, redactionMarkerPrefix)
}

// hasSpanlessFindings reports whether any finding lacks a position, which is
// what triggers the collaborator rewrite pass.
func hasSpanlessFindings(result DetectionResult) bool {
	for _, fs := range result.Findings {
		for _, f := range fs {
			if f.Span == nil {
				return true
			}
		}
	}
	return false
}
