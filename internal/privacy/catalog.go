package privacy

import "regexp"

// Detector pairs a category with its compiled matching rule.
type Detector struct {
	Category Category
	Pattern  *regexp.Regexp
}

// defaultCatalog is the fixed, ordered detector list. The order here is the
// iteration and tie-break order for merging and redaction, so output is
// reproducible across platforms. Matching is case-insensitive; within one
// category Go's regexp gives leftmost non-overlapping matches. Matches from
// different categories may overlap; both are reported.
var defaultCatalog = []Detector{
	{CategoryEmail, regexp.MustCompile(`(?i)[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)},
	{CategoryPhone, regexp.MustCompile(`(?i)\b(?:\+\d{1,3}[-\s]?)?\(?\d{3}\)?[-\s]?\d{3}[-\s]?\d{4}\b`)},
	{CategoryNationalID, regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{CategoryPaymentCard, regexp.MustCompile(`\b(?:\d{4}[-\s]?){3}\d{4}\b`)},
	{CategoryAddress, regexp.MustCompile(`(?i)\b\d+\s+[A-Za-z\s]+(?:Avenue|Ave|Street|St|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Court|Ct|Way|Parkway|Pkwy)\b`)},
}

// DefaultCatalog returns the built-in detector list. Callers must not mutate
// the returned slice.
func DefaultCatalog() []Detector {
	return defaultCatalog
}
