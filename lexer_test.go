package fts

import "testing"

func lexTypes(input string) []LexemeType {
	lexemes := lex(input)
	out := make([]LexemeType, len(lexemes))
	for i, l := range lexemes {
		out[i] = l.Type
	}
	return out
}

func TestLexBasicTerm(t *testing.T) {
	lexemes := lex("cat")
	if len(lexemes) != 2 || lexemes[0].Type != LexemeTerm || lexemes[0].Value != "cat" {
		t.Fatalf("lex(cat) = %+v", lexemes)
	}
	if lexemes[1].Type != LexemeEOS {
		t.Fatalf("expected trailing EOS, got %+v", lexemes[1])
	}
}

func TestLexFieldAndModifiers(t *testing.T) {
	lexemes := lex("title:cat~1^2")
	var types []LexemeType
	for _, l := range lexemes {
		types = append(types, l.Type)
	}
	want := []LexemeType{LexemeField, LexemeTerm, LexemeEditDistance, LexemeBoost, LexemeEOS}
	if len(types) != len(want) {
		t.Fatalf("lex types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("lex types = %v, want %v", types, want)
		}
	}
}

func TestLexPresence(t *testing.T) {
	lexemes := lex("+cat -hat")
	types := lexTypes("+cat -hat")
	want := []LexemeType{LexemePresence, LexemeTerm, LexemePresence, LexemeTerm, LexemeEOS}
	if len(types) != len(want) {
		t.Fatalf("types = %v, want %v (lexemes=%+v)", types, want, lexemes)
	}
}

func TestLexRange(t *testing.T) {
	types := lexTypes("wordCount:5..10")
	want := []LexemeType{LexemeField, LexemeRangeStart, LexemeRangeEnd, LexemeEOS}
	if len(types) != len(want) {
		t.Fatalf("types = %v, want %v", types, want)
	}
}

func TestLexComparator(t *testing.T) {
	types := lexTypes("wordCount:>=5")
	want := []LexemeType{LexemeField, LexemeComparator, LexemeComparand, LexemeEOS}
	if len(types) != len(want) {
		t.Fatalf("types = %v, want %v", types, want)
	}
}

func TestLexEscape(t *testing.T) {
	lexemes := lex(`a\:b`)
	if len(lexemes) != 2 || lexemes[0].Value != "a:b" {
		t.Fatalf("lex(a\\:b) = %+v, want single term %q", lexemes, "a:b")
	}
}
