package fts

import "testing"

func newTestQuery() *Query {
	fields := []string{"title", "body", "wordCount"}
	types := map[string]FieldType{"wordCount": FieldTypeNumber}
	nm := NewNumberMap([]string{"1", "3", "5", "7"})
	return NewQuery(fields, types, nm)
}

func TestParseBasicTerm(t *testing.T) {
	q := newTestQuery()
	if err := ParseQuery("cat", q); err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if len(q.Clauses) != 1 {
		t.Fatalf("len(Clauses) = %d, want 1", len(q.Clauses))
	}
	cl := q.Clauses[0]
	term, ok := cl.TermString()
	if !ok || term != "cat" {
		t.Fatalf("term = %v, ok=%v, want \"cat\"", term, ok)
	}
	if cl.Presence != PresenceOptional {
		t.Fatalf("presence = %v, want optional", cl.Presence)
	}
	if len(cl.Fields) != len(q.AllFields) {
		t.Fatalf("fields = %v, want all fields (unscoped clause)", cl.Fields)
	}
}

func TestParseFieldScope(t *testing.T) {
	q := newTestQuery()
	if err := ParseQuery("title:cat", q); err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	cl := q.Clauses[0]
	if len(cl.Fields) != 1 || cl.Fields[0] != "title" {
		t.Fatalf("fields = %v, want [title]", cl.Fields)
	}
	term, _ := cl.TermString()
	if term != "cat" {
		t.Fatalf("term = %q, want cat", term)
	}
}

func TestParseUnknownField(t *testing.T) {
	q := newTestQuery()
	if err := ParseQuery("bogus:cat", q); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestParsePresence(t *testing.T) {
	q := newTestQuery()
	if err := ParseQuery("+cat -hat", q); err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if len(q.Clauses) != 2 {
		t.Fatalf("len(Clauses) = %d, want 2", len(q.Clauses))
	}
	if q.Clauses[0].Presence != PresenceRequired {
		t.Fatalf("clause 0 presence = %v, want required", q.Clauses[0].Presence)
	}
	if q.Clauses[1].Presence != PresenceProhibited {
		t.Fatalf("clause 1 presence = %v, want prohibited", q.Clauses[1].Presence)
	}
}

func TestParseEditDistanceAndBoost(t *testing.T) {
	q := newTestQuery()
	if err := ParseQuery("title:cat~1^2", q); err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	cl := q.Clauses[0]
	if cl.EditDistance != 1 {
		t.Fatalf("EditDistance = %d, want 1", cl.EditDistance)
	}
	if cl.Boost != 2 {
		t.Fatalf("Boost = %v, want 2", cl.Boost)
	}
}

func TestParseRange(t *testing.T) {
	q := newTestQuery()
	if err := ParseQuery("wordCount:5..10", q); err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	cl := q.Clauses[0]
	rt, ok := cl.Term.(RangeTerm)
	if !ok {
		t.Fatalf("term = %T, want RangeTerm", cl.Term)
	}
	if rt.Start == nil || *rt.Start != 5 || rt.End == nil || *rt.End != 10 {
		t.Fatalf("range = %+v, want [5,10]", rt)
	}
}

func TestParseRangeUnboundedBounds(t *testing.T) {
	q := newTestQuery()
	if err := ParseQuery("wordCount:*..10", q); err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	rt := q.Clauses[0].Term.(RangeTerm)
	if rt.Start != nil {
		t.Fatalf("Start = %v, want nil (unbounded)", rt.Start)
	}
	if rt.End == nil || *rt.End != 10 {
		t.Fatalf("End = %v, want 10", rt.End)
	}
}

func TestParseRangeRequiresNumericField(t *testing.T) {
	q := newTestQuery()
	if err := ParseQuery("title:5..10", q); err == nil {
		t.Fatal("expected error: range query against a non-numeric field")
	}
}

func TestParseComparator(t *testing.T) {
	q := newTestQuery()
	if err := ParseQuery("wordCount:>=5", q); err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	cl := q.Clauses[0]
	ct, ok := cl.Term.(ComparatorTerm)
	if !ok {
		t.Fatalf("term = %T, want ComparatorTerm", cl.Term)
	}
	if ct.Comparator != ComparatorGTE || ct.Comparand != 5 {
		t.Fatalf("comparator term = %+v, want {>= 5}", ct)
	}
}

func TestParseComparatorRequiresNumericField(t *testing.T) {
	q := newTestQuery()
	if err := ParseQuery("title:>=5", q); err == nil {
		t.Fatal("expected error: comparator query against a non-numeric field")
	}
}

func TestParseMultiClauseFieldScopeDoesNotLeak(t *testing.T) {
	q := newTestQuery()
	if err := ParseQuery("title:cat dog", q); err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if len(q.Clauses) != 2 {
		t.Fatalf("len(Clauses) = %d, want 2", len(q.Clauses))
	}
	second := q.Clauses[1]
	if len(second.Fields) != len(q.AllFields) {
		t.Fatalf("second clause fields = %v, want unscoped (all fields)", second.Fields)
	}
}

func TestParseWildcardDisablesPipeline(t *testing.T) {
	q := newTestQuery()
	if err := ParseQuery("tre*", q); err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	cl := q.Clauses[0]
	if cl.UsePipeline {
		t.Fatal("UsePipeline = true, want false for a wildcard term")
	}
	term, _ := cl.TermString()
	if term != "tre*" {
		t.Fatalf("term = %q, want tre*", term)
	}
}
