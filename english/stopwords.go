package english

import "github.com/trailmark/fts"

// StopWordFilterLabel is the registered label for StopWordFilter.
const StopWordFilterLabel = "english-stopWordFilter"

// stopWords is the standard English stop-word list (the same ~120-word
// list lunr.js and most classic IR toolkits ship as their default).
var stopWords = buildStopWordSet([]string{
	"a", "able", "about", "across", "after", "all", "almost", "also", "am",
	"among", "an", "and", "any", "are", "as", "at", "be", "because", "been",
	"but", "by", "can", "cannot", "could", "dear", "did", "do", "does",
	"either", "else", "ever", "every", "for", "from", "get", "got", "had",
	"has", "have", "he", "her", "hers", "him", "his", "how", "however", "i",
	"if", "in", "into", "is", "it", "its", "just", "least", "let", "like",
	"likely", "may", "me", "might", "most", "must", "my", "neither", "no",
	"nor", "not", "of", "off", "often", "on", "only", "or", "other", "our",
	"own", "rather", "said", "say", "says", "she", "should", "since", "so",
	"some", "than", "that", "the", "their", "them", "then", "there",
	"these", "they", "this", "tis", "to", "too", "twas", "us", "wants",
	"was", "we", "were", "what", "when", "where", "which", "while", "who",
	"whom", "why", "will", "with", "would", "yet", "you", "your",
})

func buildStopWordSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// StopWordFilter drops tokens whose surface string is a stop word. It
// must run after lowercasing (the tokenizer already lowercases) and
// before stemming, since stemming a stop word can coincidentally
// collide with a content word's stem.
func StopWordFilter(token *fts.Token, idx int, allTokens []*fts.Token) []*fts.Token {
	if _, stop := stopWords[token.String()]; stop {
		return nil
	}
	return []*fts.Token{token}
}

func init() {
	fts.RegisterPipelineFunction(StopWordFilterLabel, StopWordFilter)
}
