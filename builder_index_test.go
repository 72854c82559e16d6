package fts_test

import (
	"testing"

	. "github.com/trailmark/fts"
	"github.com/trailmark/fts/english"
)

// buildCorpus assembles the three-document corpus used throughout
// these scenarios: a children's-book title/body pair per document,
// indexed under the default English pipeline.
func buildCorpus(t *testing.T, configure func(bd *Builder)) *Index {
	t.Helper()
	bd := NewBuilder()
	bd.Ref("id")
	if err := bd.Field("title", FieldOptions{}); err != nil {
		t.Fatalf("Field(title): %v", err)
	}
	if err := bd.Field("body", FieldOptions{}); err != nil {
		t.Fatalf("Field(body): %v", err)
	}
	bd.Use(english.Trimmer, english.StopWordFilter, english.Stemmer)

	if configure != nil {
		configure(bd)
	}

	docs := []Document{
		{
			"id":    "a",
			"title": "Green Eggs and Ham",
			"body":  "I do not like green eggs and ham. I do not like them Sam I am.",
		},
		{
			"id":    "b",
			"title": "The Cat in the Hat",
			"body":  "A cat in a hat came to play with us on that cold wet day.",
		},
		{
			"id":    "c",
			"title": "The Lorax",
			"body":  "I went under the fence and into a grove of trees by the pond.",
		},
	}
	for _, d := range docs {
		if err := bd.Add(d, DocumentOptions{}); err != nil {
			t.Fatalf("Add(%v): %v", d["id"], err)
		}
	}

	idx, err := bd.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return idx
}

func resultRefs(results []Result) []string {
	refs := make([]string, len(results))
	for i, r := range results {
		refs[i] = r.Ref
	}
	return refs
}

func containsRef(results []Result, ref string) bool {
	for _, r := range results {
		if r.Ref == ref {
			return true
		}
	}
	return false
}

func TestScenarioPlainTerm(t *testing.T) {
	idx := buildCorpus(t, nil)
	results, err := idx.Search("cat")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Ref != "b" {
		t.Fatalf("Search(cat) refs = %v, want [b]", resultRefs(results))
	}
	if results[0].Score <= 0 {
		t.Fatalf("Search(cat) score = %v, want > 0", results[0].Score)
	}
}

func TestScenarioRequiredAndProhibited(t *testing.T) {
	idx := buildCorpus(t, nil)
	results, err := idx.Search("+cat -hat")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("Search(+cat -hat) refs = %v, want []", resultRefs(results))
	}
}

func TestScenarioWildcard(t *testing.T) {
	idx := buildCorpus(t, nil)
	results, err := idx.Search("tre*")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Ref != "c" {
		t.Fatalf("Search(tre*) refs = %v, want [c]", resultRefs(results))
	}
}

func TestScenarioFieldScoped(t *testing.T) {
	idx := buildCorpus(t, nil)
	results, err := idx.Search("title:cat")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Ref != "b" {
		t.Fatalf("Search(title:cat) refs = %v, want [b]", resultRefs(results))
	}
}

func TestScenarioFuzzy(t *testing.T) {
	idx := buildCorpus(t, nil)
	results, err := idx.Search("ham~1")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !containsRef(results, "a") {
		t.Fatalf("Search(ham~1) refs = %v, want to include a", resultRefs(results))
	}
}

func TestScenarioNumericRange(t *testing.T) {
	bd := NewBuilder()
	bd.Ref("id")
	mustField(t, bd, "title", FieldOptions{})
	mustField(t, bd, "body", FieldOptions{})
	mustField(t, bd, "wordCount", FieldOptions{Type: FieldTypeNumber})
	bd.Use(english.Trimmer, english.StopWordFilter, english.Stemmer)

	docs := []Document{
		{"id": "a", "title": "Green Eggs and Ham", "body": "ham and eggs", "wordCount": 5},
		{"id": "b", "title": "The Cat in the Hat", "body": "a cat in a hat", "wordCount": 4},
		{"id": "c", "title": "The Lorax", "body": "a grove of trees", "wordCount": 5},
	}
	for _, d := range docs {
		if err := bd.Add(d, DocumentOptions{}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	built, err := bd.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	five := 5.0
	results := built.Query(func(q *Query) {
		q.RangeClause(&five, &five, ClauseOptions{Fields: []string{"wordCount"}})
	})
	refs := resultRefs(results)
	if len(refs) != 2 || !containsRef(results, "a") || !containsRef(results, "c") {
		t.Fatalf("range(5,5) refs = %v, want [a c] (order-independent)", refs)
	}
}

func mustField(t *testing.T, bd *Builder, name string, opts FieldOptions) {
	t.Helper()
	if err := bd.Field(name, opts); err != nil {
		t.Fatalf("Field(%s): %v", name, err)
	}
}

// TestNegatedQueryCoverage exercises spec.md's negated-query invariant:
// a query whose every clause is PROHIBITED matches every document that
// doesn't contain the prohibited term, each with score 0.
func TestNegatedQueryCoverage(t *testing.T) {
	idx := buildCorpus(t, nil)
	results, err := idx.Search("-cat")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 || containsRef(results, "b") {
		t.Fatalf("Search(-cat) refs = %v, want [a c]", resultRefs(results))
	}
	for _, r := range results {
		if r.Score != 0 {
			t.Fatalf("Search(-cat) result %q score = %v, want 0", r.Ref, r.Score)
		}
	}
}

// TestBM25FieldBoostMonotonicity exercises spec.md's monotonicity
// invariant: boosting a field strictly increases the score contributed
// by a match in that field, all else equal.
func TestBM25FieldBoostMonotonicity(t *testing.T) {
	build := func(boost float64) *Index {
		bd := NewBuilder()
		bd.Ref("id")
		mustField(t, bd, "title", FieldOptions{Boost: boost})
		bd.Use(english.Trimmer, english.StopWordFilter, english.Stemmer)
		docs := []Document{
			{"id": "a", "title": "cat"},
			{"id": "b", "title": "dog"},
		}
		for _, d := range docs {
			if err := bd.Add(d, DocumentOptions{}); err != nil {
				t.Fatalf("Add: %v", err)
			}
		}
		idx, err := bd.Build()
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		return idx
	}

	low := build(1)
	high := build(3)

	lowResults, err := low.Search("cat")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	highResults, err := high.Search("cat")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(lowResults) != 1 || len(highResults) != 1 {
		t.Fatalf("expected exactly one match per index, got %d and %d", len(lowResults), len(highResults))
	}
	if highResults[0].Score <= lowResults[0].Score {
		t.Fatalf("boosted score %v, want > unboosted score %v", highResults[0].Score, lowResults[0].Score)
	}
}

// TestSerializationRoundTrip exercises spec.md §6/§7: a loaded index
// must answer the same queries with bit-identical scores (already
// rounded to 3 decimals at build time).
func TestSerializationRoundTrip(t *testing.T) {
	idx := buildCorpus(t, nil)
	data, err := idx.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	reloaded, err := LoadIndex(data)
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}

	for _, query := range []string{"cat", "+cat -hat", "tre*", "title:cat"} {
		want, err := idx.Search(query)
		if err != nil {
			t.Fatalf("Search(%q) on original: %v", query, err)
		}
		got, err := reloaded.Search(query)
		if err != nil {
			t.Fatalf("Search(%q) on reloaded: %v", query, err)
		}
		if len(want) != len(got) {
			t.Fatalf("Search(%q): reloaded refs = %v, want %v", query, resultRefs(got), resultRefs(want))
		}
		for i := range want {
			if want[i].Ref != got[i].Ref || want[i].Score != got[i].Score {
				t.Fatalf("Search(%q)[%d] = %+v, want %+v", query, i, got[i], want[i])
			}
		}
	}
}
