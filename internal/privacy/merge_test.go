package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeFindingsGroupsAndCounts(t *testing.T) {
	pattern := []Finding{
		{Category: CategoryEmail, Value: "a@b.io", Span: &Span{0, 6}, Source: SourcePattern},
		{Category: CategoryEmail, Value: "c@d.io", Span: &Span{10, 16}, Source: SourcePattern},
		{Category: CategoryPhone, Value: "555-123-4567", Span: &Span{20, 32}, Source: SourcePattern},
	}
	heuristic := []SupplementaryFinding{
		{Type: "name", Description: "a person's name"},
		{Type: "email", Description: "an email address"},
	}

	result := mergeFindings(pattern, heuristic)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.True(t, result.HasPII)
	assert.Equal(t, 5, result.TotalFindings)

	sum := 0
	for _, fs := range result.Findings {
		sum += len(fs)
	}
	assert.Equal(t, result.TotalFindings, sum)

	// Scanner order preserved within a category, heuristic appended after.
	emails := result.Findings[CategoryEmail]
	require.Len(t, emails, 3)
	assert.Equal(t, "a@b.io", emails[0].Value)
	assert.Equal(t, "c@d.io", emails[1].Value)
	assert.Equal(t, SourceHeuristic, emails[2].Source)

	// Heuristic findings never carry a span or the literal value.
	names := result.Findings[Category("name")]
	require.Len(t, names, 1)
	assert.Nil(t, names[0].Span)
	assert.Equal(t, heuristicValueMarker, names[0].Value)
	assert.Equal(t, "a person's name", names[0].Description)
}

func TestMergeFindingsEmpty(t *testing.T) {
	result := mergeFindings(nil, nil)
	assert.False(t, result.HasPII)
	assert.Equal(t, 0, result.TotalFindings)
	assert.Empty(t, result.Findings)
}

func TestCategoriesOrder(t *testing.T) {
	result := mergeFindings(
		[]Finding{
			{Category: CategoryAddress, Span: &Span{0, 5}, Source: SourcePattern},
			{Category: CategoryEmail, Span: &Span{10, 15}, Source: SourcePattern},
		},
		[]SupplementaryFinding{{Type: "name"}, {Type: "date_of_birth"}},
	)

	// Catalog categories first in catalog order, then heuristic-only ones.
	assert.Equal(t,
		[]Category{CategoryEmail, CategoryAddress, Category("date_of_birth"), Category("name")},
		result.Categories(),
	)
}
