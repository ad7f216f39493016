package privacy

import (
	"sync"
	"unicode/utf8"
)

// contextRadius is the number of bytes of surrounding text captured around
// each pattern match, clipped to the text bounds.
const contextRadius = 30

// Scanner runs every catalog detector over input text.
type Scanner struct {
	catalog []Detector
}

// NewScanner builds a scanner over the given catalog. A nil or empty catalog
// falls back to the default one.
func NewScanner(catalog []Detector) *Scanner {
	if len(catalog) == 0 {
		catalog = DefaultCatalog()
	}
	return &Scanner{catalog: catalog}
}

// Scan applies every detector to text and returns findings in catalog order.
// Categories are scanned concurrently; results are stitched back together in
// the fixed catalog order so concurrency never changes observable output.
// A detector that panics is skipped: a catalog bug degrades to fewer findings,
// never to a failed scan. Absence of matches yields an empty slice, not nil.
func (s *Scanner) Scan(text string) []Finding {
	perCategory := make([][]Finding, len(s.catalog))

	var wg sync.WaitGroup
	for i, det := range s.catalog {
		wg.Add(1)
		go func(i int, det Detector) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					perCategory[i] = nil
				}
			}()
			perCategory[i] = scanCategory(text, det)
		}(i, det)
	}
	wg.Wait()

	findings := make([]Finding, 0)
	for _, fs := range perCategory {
		findings = append(findings, fs...)
	}
	return findings
}

func scanCategory(text string, det Detector) []Finding {
	locs := det.Pattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([]Finding, 0, len(locs))
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		out = append(out, Finding{
			Category: det.Category,
			Value:    text[start:end],
			Span:     &Span{Start: start, End: end},
			Source:   SourcePattern,
			Context:  contextWindow(text, start, end),
		})
	}
	return out
}

func contextWindow(text string, start, end int) string {
	lo := start - contextRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + contextRadius
	if hi > len(text) {
		hi = len(text)
	}
	// The radius is measured in bytes, so either edge can land inside a
	// multibyte rune; snap to rune boundaries to keep the context valid UTF-8.
	for lo > 0 && !utf8.RuneStart(text[lo]) {
		lo--
	}
	for hi > end && hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi--
	}
	return text[lo:hi]
}
