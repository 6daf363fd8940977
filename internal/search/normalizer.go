package search

import (
	"regexp"
	"strings"
)

// categoryKeyword maps a free-text keyword to the canonical category token
// used by the category-name fallback. Longest keywords are matched first so
// "oil filter" wins over "filter".
type categoryKeyword struct {
	keyword   string
	canonical string
}

// categoryKeywords is the fixed dictionary of category terms recognized
// inside queries. Matching is whole-word and case-insensitive.
var categoryKeywords = []categoryKeyword{
	{"shock absorber", "shock absorber"},
	{"brake caliper", "brake caliper"},
	{"brake disc", "brake disc"},
	{"brake pad", "brake pad"},
	{"timing belt", "timing belt"},
	{"spark plug", "spark plug"},
	{"glow plug", "glow plug"},
	{"oil filter", "oil filter"},
	{"air filter", "air filter"},
	{"fuel filter", "fuel filter"},
	{"cabin filter", "cabin filter"},
	{"wiper blade", "wiper blade"},
	{"clutch kit", "clutch kit"},
	{"wheel bearing", "wheel bearing"},
	{"water pump", "water pump"},
	{"alternator", "alternator"},
	{"turbocharger", "turbocharger"},
	{"radiator", "radiator"},
	{"battery", "battery"},
	{"filter", "filter"},
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// letterDigitRe captures a leading letter block followed by a digit, the
	// boundary where sources disagree on hyphenation ("KH22" vs "KH-22").
	letterDigitRe = regexp.MustCompile(`^([A-Z]+)(\d.*)$`)
)

// NormalizedQuery is the canonical form of a raw search query.
type NormalizedQuery struct {
	Raw     string
	Cleaned string // trimmed, whitespace-collapsed, upper-cased

	// ReferenceVariants are the candidate reference spellings derived from
	// the non-category part of the query.
	ReferenceVariants []string

	// CategoryKeyword is the canonical category token extracted from the
	// query, empty when none was recognized.
	CategoryKeyword string

	// CategoryPure is true when the query consists solely of a category
	// keyword; such queries skip the reference tiers entirely.
	CategoryPure bool
}

// PrimaryVariant returns the first reference variant, or an empty string for
// category-pure queries.
func (q NormalizedQuery) PrimaryVariant() string {
	if len(q.ReferenceVariants) == 0 {
		return ""
	}
	return q.ReferenceVariants[0]
}

// Normalize cleans a raw query, extracts an embedded category keyword, and
// produces reference variants bridging the spacing and hyphenation
// inconsistencies between identification schemes. Pure function.
func Normalize(raw string) NormalizedQuery {
	cleaned := whitespaceRe.ReplaceAllString(strings.TrimSpace(raw), " ")
	nq := NormalizedQuery{
		Raw:     raw,
		Cleaned: strings.ToUpper(cleaned),
	}

	lowered := strings.ToLower(cleaned)
	referencePart := cleaned

	for _, ck := range categoryKeywords {
		if rest, ok := extractWholeWord(lowered, ck.keyword); ok {
			nq.CategoryKeyword = ck.canonical
			referencePart = rest
			break
		}
	}

	if nq.CategoryKeyword != "" && referencePart == "" {
		nq.CategoryPure = true
		return nq
	}

	nq.ReferenceVariants = referenceVariants(referencePart)
	return nq
}

// extractWholeWord removes the first whole-word occurrence of keyword from
// text and returns the remaining text, trimmed. Matching is done on the
// lowered text, so keyword must be lower case.
func extractWholeWord(text, keyword string) (string, bool) {
	padded := " " + text + " "
	idx := strings.Index(padded, " "+keyword+" ")
	if idx < 0 {
		return "", false
	}
	rest := padded[:idx] + " " + padded[idx+len(keyword)+2:]
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(rest, " ")), true
}

// referenceVariants produces the candidate reference spellings: the cleaned
// string, the string with internal whitespace removed, and a hyphenated form
// bridging letter/digit boundaries.
func referenceVariants(reference string) []string {
	cleaned := strings.ToUpper(strings.TrimSpace(reference))
	if cleaned == "" {
		return nil
	}

	variants := []string{cleaned}
	seen := map[string]struct{}{cleaned: {}}

	add := func(v string) {
		if _, dup := seen[v]; !dup && v != "" {
			seen[v] = struct{}{}
			variants = append(variants, v)
		}
	}

	noSpace := strings.ReplaceAll(cleaned, " ", "")
	add(noSpace)

	if m := letterDigitRe.FindStringSubmatch(noSpace); m != nil {
		add(m[1] + "-" + m[2])
	}

	return variants
}
