package english

import "github.com/trailmark/fts"

// Pipeline returns the default English ingestion pipeline: trim
// punctuation, drop stop words, then stem. Each stage is registered
// under a stable label so the resulting Pipeline round-trips through
// Index.ToJSON/LoadIndex.
func Pipeline() *fts.Pipeline {
	p := fts.NewPipeline()
	p.AddLabeled(TrimmerLabel, Trimmer)
	p.AddLabeled(StopWordFilterLabel, StopWordFilter)
	p.AddLabeled(StemmerLabel, Stemmer)
	return p
}
