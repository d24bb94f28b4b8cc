package util

import (
	"strings"
	"unicode"
)

// stopwords are common English function words plus boilerplate that appears
// in nearly every accreditation standard and would otherwise dominate
// lexical overlap.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true,
	"have": true, "in": true, "is": true, "it": true, "its": true,
	"of": true, "on": true, "or": true, "that": true, "the": true,
	"their": true, "this": true, "to": true, "with": true, "which": true,

	// Accreditation boilerplate
	"institution": true, "institutions": true, "institutional": true,
	"standard": true, "standards": true, "criterion": true, "criteria": true,
	"requirement": true, "requirements": true,
}

// Tokenize splits text into lower-cased alphanumeric tokens
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// IsStopword reports whether a lower-cased token carries no topical signal
func IsStopword(token string) bool {
	return stopwords[token]
}

// SalientTerms tokenizes text and drops stopwords and single-character
// tokens, preserving first-occurrence order without duplicates.
func SalientTerms(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range Tokenize(text) {
		if len(tok) < 2 || IsStopword(tok) || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// TermSet returns the salient terms of text as a set
func TermSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range Tokenize(text) {
		if len(tok) < 2 || IsStopword(tok) {
			continue
		}
		set[tok] = true
	}
	return set
}

// CollapseWhitespace rewrites any whitespace run as a single space and trims
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
