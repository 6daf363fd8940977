package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_ReferenceVariants(t *testing.T) {
	nq := Normalize("  kh22 ")

	assert.Equal(t, "KH22", nq.Cleaned)
	assert.Equal(t, []string{"KH22", "KH-22"}, nq.ReferenceVariants)
	assert.Empty(t, nq.CategoryKeyword)
	assert.False(t, nq.CategoryPure)
}

func TestNormalize_SpacedReference(t *testing.T) {
	nq := Normalize("kh 22")

	assert.Equal(t, "KH 22", nq.Cleaned)
	assert.Equal(t, []string{"KH 22", "KH22", "KH-22"}, nq.ReferenceVariants)
}

func TestNormalize_HyphenatedReferenceKeptAsIs(t *testing.T) {
	nq := Normalize("KH-22")

	assert.Equal(t, "KH-22", nq.PrimaryVariant())
	assert.Equal(t, []string{"KH-22"}, nq.ReferenceVariants)
}

func TestNormalize_CategoryPure(t *testing.T) {
	nq := Normalize("  brake pad ")

	assert.True(t, nq.CategoryPure)
	assert.Equal(t, "brake pad", nq.CategoryKeyword)
	assert.Empty(t, nq.ReferenceVariants)
	assert.Empty(t, nq.PrimaryVariant())
}

func TestNormalize_CategoryWithReference(t *testing.T) {
	nq := Normalize("brake pad KH22")

	assert.False(t, nq.CategoryPure)
	assert.Equal(t, "brake pad", nq.CategoryKeyword)
	assert.Equal(t, []string{"KH22", "KH-22"}, nq.ReferenceVariants)
}

func TestNormalize_LongestKeywordWins(t *testing.T) {
	nq := Normalize("oil filter")

	assert.True(t, nq.CategoryPure)
	assert.Equal(t, "oil filter", nq.CategoryKeyword)
}

func TestNormalize_KeywordIsWholeWordOnly(t *testing.T) {
	// "filterhouse" must not match the "filter" keyword.
	nq := Normalize("filterhouse")

	assert.Empty(t, nq.CategoryKeyword)
	assert.Equal(t, []string{"FILTERHOUSE"}, nq.ReferenceVariants)
}

func TestNormalize_WhitespaceCollapse(t *testing.T) {
	nq := Normalize("kh \t  22")

	assert.Equal(t, "KH 22", nq.Cleaned)
}

func TestNormalize_EmptyQuery(t *testing.T) {
	nq := Normalize("   ")

	assert.Empty(t, nq.Cleaned)
	assert.Empty(t, nq.ReferenceVariants)
	assert.False(t, nq.CategoryPure)
}

func TestNormalize_Idempotent(t *testing.T) {
	first := Normalize("kh 22")
	second := Normalize(first.Cleaned)

	assert.Equal(t, first.Cleaned, second.Cleaned)
	assert.Equal(t, first.ReferenceVariants, second.ReferenceVariants)
}
