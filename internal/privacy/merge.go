package privacy

// mergeFindings combines positioned pattern findings with unpositioned
// heuristic findings into one categorized result.
//
// Pattern findings keep scanner order within their category. Heuristic
// findings are appended under their normalized category, creating it when
// absent, with a nil span and a non-literal value marker. Pattern and
// heuristic findings of the same category are deliberately both kept: no
// cross-source deduplication is attempted, and the consumer decides relevance.
func mergeFindings(pattern []Finding, heuristic []SupplementaryFinding) DetectionResult {
	findings := make(map[Category][]Finding)

	for _, f := range pattern {
		findings[f.Category] = append(findings[f.Category], f)
	}

	for _, h := range heuristic {
		cat := Category(NormalizeCategory(h.Type))
		findings[cat] = append(findings[cat], Finding{
			Category:    cat,
			Value:       heuristicValueMarker,
			Source:      SourceHeuristic,
			Description: h.Description,
		})
	}

	total := 0
	for _, fs := range findings {
		total += len(fs)
	}

	return DetectionResult{
		Status:        StatusSuccess,
		HasPII:        total > 0,
		Findings:      findings,
		TotalFindings: total,
	}
}
