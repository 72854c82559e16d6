package fts

import (
	"fmt"
	"strconv"
	"strings"
)

// parseStateFn is the current parser state; mirrors lexStateFn's shape
// per spec.md §9's "closures and state machines" note.
type parseStateFn func(p *parser) parseStateFn

// parser walks a flat Lexeme stream and populates a Query. State that
// must survive across lexemes (the field/presence scope of the clause
// being assembled, and a pointer to the most recently committed clause
// so a trailing EDIT_DISTANCE/BOOST can still mutate it) lives on the
// struct, not in the state functions.
type parser struct {
	lexemes []Lexeme
	pos     int
	query   *Query
	err     *QueryParseError

	fieldScope     []string // nil = default field scope for the next clause
	fieldIsNumeric bool
	presenceScope  Presence
	current        *Clause
}

func (p *parser) peek() Lexeme {
	if p.pos >= len(p.lexemes) {
		return Lexeme{Type: LexemeEOS}
	}
	return p.lexemes[p.pos]
}

func (p *parser) next() Lexeme {
	lx := p.peek()
	if p.pos < len(p.lexemes) {
		p.pos++
	}
	return lx
}

func (p *parser) fail(lx Lexeme, format string, args ...any) {
	if p.err == nil {
		p.err = newQueryParseError(fmt.Sprintf(format, args...), lx.Start, lx.End)
	}
}

func (p *parser) run() {
	for state := parseStateFn(parseClause); state != nil; {
		state = state(p)
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func parseClause(p *parser) parseStateFn {
	lx := p.peek()
	switch lx.Type {
	case LexemeEOS:
		return nil
	case LexemePresence:
		return parsePresence
	case LexemeField:
		return parseField
	case LexemeTerm:
		return parseTerm
	case LexemeRangeStart:
		return parseRangeStart
	case LexemeComparator:
		return parseComparator
	case LexemeEditDistance:
		return parseEditDistance
	case LexemeBoost:
		return parseBoost
	default:
		p.fail(lx, "unexpected %s", lx.Type)
		return nil
	}
}

// parsePresence records a leading +/- and requires a field or term next.
func parsePresence(p *parser) parseStateFn {
	lx := p.next()
	switch lx.Value {
	case "+":
		p.presenceScope = PresenceRequired
	case "-":
		p.presenceScope = PresenceProhibited
	}
	nxt := p.peek()
	if nxt.Type != LexemeField && nxt.Type != LexemeTerm {
		p.fail(nxt, "expected field or term after presence indicator")
		return nil
	}
	return parseClause
}

// parseField sets the field scope for the clause about to be parsed.
func parseField(p *parser) parseStateFn {
	lx := p.next()
	if !contains(p.query.AllFields, lx.Value) {
		p.fail(lx, "unrecognized field %q", lx.Value)
		return nil
	}
	p.fieldScope = []string{lx.Value}
	p.fieldIsNumeric = p.query.FieldTypes[lx.Value] == FieldTypeNumber
	return parseClause
}

// parseTerm commits a plain string clause. A '*' anywhere in the term
// disables the search pipeline for that clause (the term is presumed to
// already be in its final, matchable form).
func parseTerm(p *parser) parseStateFn {
	lx := p.next()
	term := strings.ToLower(lx.Value)
	usePipeline := !strings.Contains(term, "*")

	cl := p.query.Clause(term, ClauseOptions{
		Fields:      p.fieldScope,
		Presence:    p.presenceScope,
		UsePipeline: &usePipeline,
	})
	p.current = cl
	p.resetScope()
	return parseClause
}

// parseRangeStart commits a range clause; the field scope (if any) must
// be numeric.
func parseRangeStart(p *parser) parseStateFn {
	if p.fieldScope != nil && !p.fieldIsNumeric {
		lx := p.peek()
		p.fail(lx, "range query requires a numeric field")
		return nil
	}

	startLx := p.next()
	lo, ok := parseRangeBound(startLx.Value)
	if !ok {
		p.fail(startLx, "invalid range start %q", startLx.Value)
		return nil
	}

	endLx := p.peek()
	if endLx.Type != LexemeRangeEnd {
		p.fail(endLx, "expected range end")
		return nil
	}
	return parseRangeEnd(p, lo, endLx)
}

func parseRangeEnd(p *parser, lo *float64, endLx Lexeme) parseStateFn {
	p.next()
	hi, ok := parseRangeBound(endLx.Value)
	if !ok {
		p.fail(endLx, "invalid range end %q", endLx.Value)
		return nil
	}

	cl := p.query.Clause(RangeTerm{Start: lo, End: hi}, ClauseOptions{
		Fields:   p.fieldScope,
		Presence: p.presenceScope,
	})
	p.current = cl
	p.resetScope()
	return parseClause
}

func parseRangeBound(s string) (*float64, bool) {
	if s == "*" {
		return nil, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// parseComparator commits a comparator clause (field:>=N etc); the
// field scope (if any) must be numeric.
func parseComparator(p *parser) parseStateFn {
	if p.fieldScope != nil && !p.fieldIsNumeric {
		lx := p.peek()
		p.fail(lx, "comparator query requires a numeric field")
		return nil
	}

	opLx := p.next()
	valLx := p.peek()
	return parseComparand(p, Comparator(opLx.Value), valLx)
}

func parseComparand(p *parser, op Comparator, valLx Lexeme) parseStateFn {
	if valLx.Type != LexemeComparand {
		p.fail(valLx, "expected comparand after comparator")
		return nil
	}
	p.next()
	v, err := strconv.ParseFloat(valLx.Value, 64)
	if err != nil {
		p.fail(valLx, "invalid comparand %q", valLx.Value)
		return nil
	}

	cl := p.query.Clause(ComparatorTerm{Comparator: op, Comparand: v}, ClauseOptions{
		Fields:   p.fieldScope,
		Presence: p.presenceScope,
	})
	p.current = cl
	p.resetScope()
	return parseClause
}

// parseEditDistance mutates the most recently committed clause.
func parseEditDistance(p *parser) parseStateFn {
	lx := p.next()
	if p.current == nil {
		p.fail(lx, "edit distance modifier with no preceding term")
		return nil
	}
	n, err := strconv.Atoi(lx.Value)
	if err != nil {
		p.fail(lx, "invalid edit distance %q", lx.Value)
		return nil
	}
	p.current.EditDistance = n
	return parseClause
}

// parseBoost mutates the most recently committed clause.
func parseBoost(p *parser) parseStateFn {
	lx := p.next()
	if p.current == nil {
		p.fail(lx, "boost modifier with no preceding term")
		return nil
	}
	n, err := strconv.ParseFloat(lx.Value, 64)
	if err != nil {
		p.fail(lx, "invalid boost %q", lx.Value)
		return nil
	}
	p.current.Boost = n
	return parseClause
}

func (p *parser) resetScope() {
	p.presenceScope = PresenceOptional
	p.fieldScope = nil
	p.fieldIsNumeric = false
}

// ParseQuery compiles a query string's clauses into q, in place. It
// returns a *QueryParseError (spec.md §7 class 2) on malformed input;
// q is otherwise unaffected by a failed parse beyond whatever clauses
// were committed before the error.
func ParseQuery(input string, q *Query) error {
	p := &parser{lexemes: lex(input), query: q}
	p.run()
	if p.err != nil {
		return p.err
	}
	return nil
}
