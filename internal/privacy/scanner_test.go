package privacy

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanEmailSpanBoundsAddress(t *testing.T) {
	text := "Reach me at jane.doe@example.org whenever."
	findings := NewScanner(nil).Scan(text)

	var emails []Finding
	for _, f := range findings {
		if f.Category == CategoryEmail {
			emails = append(emails, f)
		}
	}
	require.Len(t, emails, 1)
	f := emails[0]
	require.NotNil(t, f.Span)
	assert.Equal(t, "jane.doe@example.org", text[f.Span.Start:f.Span.End])
	assert.Equal(t, "jane.doe@example.org", f.Value)
	assert.Equal(t, SourcePattern, f.Source)
}

func TestScanCategories(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		category Category
		value    string
	}{
		{"plain email", "contact BOB.SMITH@Example.COM today", CategoryEmail, "BOB.SMITH@Example.COM"},
		{"dashed phone", "call 555-123-4567 now", CategoryPhone, "555-123-4567"},
		{"parenthesized phone", "call (555) 123-4567 now", CategoryPhone, "(555) 123-4567"},
		{"spaced phone", "call 555 123 4567 now", CategoryPhone, "555 123 4567"},
		{"national id", "ssn 123-45-6789 on file", CategoryNationalID, "123-45-6789"},
		{"payment card", "card 4111-1111-1111-1111 charged", CategoryPaymentCard, "4111-1111-1111-1111"},
		{"street address", "lives at 42 Wallaby Way in town", CategoryAddress, "42 Wallaby Way"},
	}

	scanner := NewScanner(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := scanner.Scan(tt.text)
			found := false
			for _, f := range findings {
				if f.Category == tt.category && f.Value == tt.value {
					found = true
					require.NotNil(t, f.Span)
					assert.Equal(t, tt.value, tt.text[f.Span.Start:f.Span.End])
				}
			}
			assert.True(t, found, "expected %s finding %q in %v", tt.category, tt.value, findings)
		})
	}
}

func TestScanNoMatchesReturnsEmptyNotNil(t *testing.T) {
	findings := NewScanner(nil).Scan("nothing sensitive here")
	require.NotNil(t, findings)
	assert.Empty(t, findings)
}

func TestScanContextWindowClipped(t *testing.T) {
	text := "a@b.io trailing context that is long enough to exceed the window"
	findings := NewScanner(nil).Scan(text)
	require.NotEmpty(t, findings)

	f := findings[0]
	assert.True(t, strings.HasPrefix(f.Context, "a@b.io"), "window clips at text start")
	assert.LessOrEqual(t, len(f.Context), f.Span.End-f.Span.Start+2*contextRadius)
}

func TestScanDeterministicOrderAcrossRuns(t *testing.T) {
	text := "mail x@y.dev or call 555-123-4567, ssn 123-45-6789, card 4111 1111 1111 1111, at 9 Elm Street"
	scanner := NewScanner(nil)

	first := scanner.Scan(text)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, scanner.Scan(text))
	}

	// Catalog order, not match position, decides finding order.
	var cats []Category
	for _, f := range first {
		cats = append(cats, f.Category)
	}
	assert.Equal(t, []Category{CategoryEmail, CategoryPhone, CategoryNationalID, CategoryPaymentCard, CategoryAddress}, cats)
}

func TestScanBrokenDetectorIsSkipped(t *testing.T) {
	catalog := append([]Detector{{Category: "broken", Pattern: nil}}, DefaultCatalog()...)
	scanner := NewScanner(catalog)

	findings := scanner.Scan("write to jane@corp.example please")
	require.Len(t, findings, 1)
	assert.Equal(t, CategoryEmail, findings[0].Category)
}

func TestScanContextWindowSnapsToRuneBoundaries(t *testing.T) {
	// Mixed 2- and 3-byte runes around the match put both context edges in
	// the middle of a rune before boundary snapping.
	text := strings.Repeat("€", 5) + "é" + strings.Repeat("€", 9) +
		"jane@example.org" +
		strings.Repeat("€", 5) + "é" + strings.Repeat("€", 9)
	findings := NewScanner(nil).Scan(text)

	var email *Finding
	for i := range findings {
		if findings[i].Category == CategoryEmail {
			email = &findings[i]
		}
	}
	require.NotNil(t, email)
	assert.True(t, utf8.ValidString(email.Context))
	assert.Contains(t, email.Context, "jane@example.org")
}
