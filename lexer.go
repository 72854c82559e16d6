package fts

// LexemeType enumerates the surface-syntax token kinds the query
// language lexer emits (spec.md §4.7).
type LexemeType int

const (
	LexemeField LexemeType = iota
	LexemeTerm
	LexemeEditDistance
	LexemeBoost
	LexemePresence
	LexemeComparator
	LexemeComparand
	LexemeRangeStart
	LexemeRangeEnd
	LexemeEOS
)

func (t LexemeType) String() string {
	switch t {
	case LexemeField:
		return "FIELD"
	case LexemeTerm:
		return "TERM"
	case LexemeEditDistance:
		return "EDIT_DISTANCE"
	case LexemeBoost:
		return "BOOST"
	case LexemePresence:
		return "PRESENCE"
	case LexemeComparator:
		return "COMPARATOR"
	case LexemeComparand:
		return "COMPARAND"
	case LexemeRangeStart:
		return "RANGE_START"
	case LexemeRangeEnd:
		return "RANGE_END"
	default:
		return "EOS"
	}
}

// Lexeme is one emitted token, with byte offsets into the source string.
type Lexeme struct {
	Type       LexemeType
	Value      string
	Start, End int
}

// lexStateFn is the current lexer state; it returns the next state, or
// nil once an EOS lexeme (or a fatal scan error) has been emitted.
// Following the corpus's own convention for this shape (e.g. the
// Go standard library's text/template scanner), state data lives on the
// lexer struct rather than being threaded through closures.
type lexStateFn func(*lexer) lexStateFn

// lexer scans a query string one byte at a time. Multi-byte UTF-8
// sequences pass through untouched: every delimiter this grammar
// recognizes (": ~ ^ + - . and whitespace) is single-byte ASCII, so a
// byte scan can never split a rune.
type lexer struct {
	input   string
	start   int
	pos     int
	lexemes []Lexeme
	term    []byte
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func isSeparatorByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigitByte(c byte) bool {
	return c >= '0' && c <= '9'
}

// emitTermAs flushes the accumulated term buffer as a lexeme of type t,
// if there is anything to flush.
func (l *lexer) emitTermAs(t LexemeType) {
	if len(l.term) > 0 {
		l.lexemes = append(l.lexemes, Lexeme{Type: t, Value: string(l.term), Start: l.start, End: l.pos})
		l.term = l.term[:0]
	}
	l.start = l.pos
}

func (l *lexer) emit(t LexemeType, value string) {
	l.lexemes = append(l.lexemes, Lexeme{Type: t, Value: value, Start: l.start, End: l.pos})
	l.start = l.pos
}

// lex runs the lexer to completion and returns every emitted lexeme,
// always ending in an EOS.
func lex(input string) []Lexeme {
	l := newLexer(input)
	for state := lexStateFn(lexText); state != nil; {
		state = state(l)
	}
	return l.lexemes
}

func lexText(l *lexer) lexStateFn {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == '\\':
			// escape: elide the backslash, keep the following byte literally.
			l.pos++
			if l.pos < len(l.input) {
				l.term = append(l.term, l.input[l.pos])
				l.pos++
			}
		case c == ':':
			l.emitTermAs(LexemeField)
			l.pos++
			l.start = l.pos
			return lexField
		case c == '~':
			l.emitTermAs(LexemeTerm)
			l.pos++
			l.start = l.pos
			return lexEditDistance
		case c == '^':
			l.emitTermAs(LexemeTerm)
			l.pos++
			l.start = l.pos
			return lexBoost
		case c == '.' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '.':
			l.emitTermAs(LexemeRangeStart)
			l.pos += 2
			l.start = l.pos
			return lexRangeEnd
		case (c == '+' || c == '-') && len(l.term) == 0 && l.pos == l.start:
			l.pos++
			l.emit(LexemePresence, string(c))
		case isSeparatorByte(c):
			l.emitTermAs(LexemeTerm)
			l.pos++
			l.start = l.pos
		default:
			l.term = append(l.term, c)
			l.pos++
		}
	}
	l.emitTermAs(LexemeTerm)
	l.emit(LexemeEOS, "")
	return nil
}

func lexField(l *lexer) lexStateFn {
	if l.pos < len(l.input) && (l.input[l.pos] == '<' || l.input[l.pos] == '>') {
		op := string(l.input[l.pos])
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '=' {
			op += "="
			l.pos++
		}
		l.emit(LexemeComparator, op)
		return lexComparand
	}

	// Not a comparator: whatever follows the field colon is ordinary
	// clause-body syntax (a term, range, etc). Hand off to lexText
	// without consuming anything so it accumulates and classifies it.
	return lexText
}

func lexComparand(l *lexer) lexStateFn {
	start := l.pos
	for l.pos < len(l.input) && isDigitByte(l.input[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.input) && isDigitByte(l.input[l.pos]) {
			l.pos++
		}
	}
	l.start = start
	l.emit(LexemeComparand, l.input[start:l.pos])
	return lexText
}

func lexEditDistance(l *lexer) lexStateFn {
	start := l.pos
	for l.pos < len(l.input) && isDigitByte(l.input[l.pos]) {
		l.pos++
	}
	l.start = start
	l.emit(LexemeEditDistance, l.input[start:l.pos])
	return lexText
}

func lexBoost(l *lexer) lexStateFn {
	start := l.pos
	for l.pos < len(l.input) && isDigitByte(l.input[l.pos]) {
		l.pos++
	}
	l.start = start
	l.emit(LexemeBoost, l.input[start:l.pos])
	return lexText
}

// lexRangeEnd scans until one of ": ~ ^ + - .." or a separator, or EOS.
func lexRangeEnd(l *lexer) lexStateFn {
	start := l.pos
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == ':' || c == '~' || c == '^' || c == '+' || c == '-' || isSeparatorByte(c) {
			break
		}
		if c == '.' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '.' {
			break
		}
		l.pos++
	}
	l.start = start
	l.emit(LexemeRangeEnd, l.input[start:l.pos])
	return lexText
}
