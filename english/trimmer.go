// Package english provides the default English-language ingestion
// pipeline (trimmer, stop-word filter, Porter stemmer) as a swappable
// implementation external to the core fts engine (spec.md's intro:
// these are "replaceable utilities" consumed through fts.PipelineFunction).
package english

import (
	"strings"
	"unicode"

	"github.com/trailmark/fts"
)

// TrimmerLabel is the registered label for Trimmer.
const TrimmerLabel = "english-trimmer"

// Trimmer strips leading/trailing characters that aren't letters or
// digits, so punctuation left on a token by the tokenizer's separator
// regex ("pond." at a sentence end, "(sic)") doesn't become part of the
// indexed term. Punctuation inside a word ("it's") is kept.
func Trimmer(token *fts.Token, idx int, allTokens []*fts.Token) []*fts.Token {
	s := token.String()
	trimmed := trimPunctuation(s)
	if trimmed == "" {
		return nil
	}
	if trimmed != s {
		token = token.Clone()
		token.Update(func(string, fts.Metadata) string { return trimmed })
	}
	return []*fts.Token{token}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func init() {
	fts.RegisterPipelineFunction(TrimmerLabel, Trimmer)
}

// trimPunctuation strips leading/trailing runes that aren't letters or
// digits; Trimmer applies it to a token's surface string.
func trimPunctuation(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return !isWordRune(r) })
}
