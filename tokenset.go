package fts

import (
	"sort"
	"strconv"
	"strings"
)

// wildcardLabel is the query-side label that matches every edge label on
// the other side during Intersect, and the literal character the query
// language spells as "*".
const wildcardLabel = "*"

// TokenSet is a node in a minimized DFA over the corpus vocabulary (or,
// equally, the root of a wildcard/fuzzy/linear automaton built to query
// against one). Every node gets a unique ID when it is created; the
// canonical key of a sealed subtree references its children by ID.
type TokenSet struct {
	ID    int
	Final bool
	Edges map[string]*TokenSet
}

type idCounter struct{ n int }

func (c *idCounter) next() int {
	id := c.n
	c.n++
	return id
}

func newTokenSet(id int) *TokenSet {
	return &TokenSet{ID: id, Edges: map[string]*TokenSet{}}
}

// key is the canonical string form used as a minimization hash key:
// "<final?1:0><label><child.id><label><child.id>..." with labels sorted
// lexicographically. It is only meaningful once every child has been
// interned as its canonical node, i.e. once the subtree is sealed.
func (ts *TokenSet) key() string {
	labels := make([]string, 0, len(ts.Edges))
	for l := range ts.Edges {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	var b strings.Builder
	if ts.Final {
		b.WriteByte('1')
	} else {
		b.WriteByte('0')
	}
	for _, l := range labels {
		b.WriteString(l)
		b.WriteString(strconv.Itoa(ts.Edges[l].ID))
	}
	return b.String()
}

// ToArray performs a depth-first traversal, concatenating edge labels on
// descent and emitting the accumulated prefix at every final node. Only
// safe on acyclic automata (the vocabulary TokenSet and Intersect
// results); FromString/FromFuzzyString outputs may contain self-loops
// and are only ever used as the "other" side of Intersect.
func (ts *TokenSet) ToArray() []string {
	var out []string
	var walk func(node *TokenSet, prefix string)
	walk = func(node *TokenSet, prefix string) {
		if node.Final {
			out = append(out, prefix)
		}
		labels := make([]string, 0, len(node.Edges))
		for l := range node.Edges {
			labels = append(labels, l)
		}
		sort.Strings(labels)
		for _, l := range labels {
			walk(node.Edges[l], prefix+l)
		}
	}
	walk(ts, "")
	return out
}

// Intersect computes the automaton product of ts (treated as the
// vocabulary side) and other (the query side). A "*" edge on other
// matches every edge label on ts that isn't already matched literally.
// The output is a freshly allocated graph; neither input is mutated or
// shared into the result.
func (ts *TokenSet) Intersect(other *TokenSet) *TokenSet {
	idc := &idCounter{}
	type pair struct{ a, b int }
	memo := map[pair]*TokenSet{}

	var walk func(a, b *TokenSet) *TokenSet
	walk = func(a, b *TokenSet) *TokenSet {
		p := pair{a.ID, b.ID}
		if node, ok := memo[p]; ok {
			return node
		}
		node := newTokenSet(idc.next())
		memo[p] = node
		node.Final = a.Final && b.Final

		for label, aChild := range a.Edges {
			if bChild, ok := b.Edges[label]; ok {
				node.Edges[label] = walk(aChild, bChild)
			}
		}
		if bWild, ok := b.Edges[wildcardLabel]; ok {
			for label, aChild := range a.Edges {
				if _, already := node.Edges[label]; already {
					continue
				}
				node.Edges[label] = walk(aChild, bWild)
			}
		}
		return node
	}
	return walk(ts, other)
}

// TokenSetFromString builds a linear-chain automaton for a wildcard
// pattern: each literal character is its own edge, and each "*" puts a
// self-loop on "*" on the node reached so far, so it matches zero or
// more characters.
func TokenSetFromString(pattern string) *TokenSet {
	idc := &idCounter{}
	root := newTokenSet(idc.next())
	node := root
	for _, r := range pattern {
		label := string(r)
		if label == wildcardLabel {
			node.Edges[wildcardLabel] = node
		} else {
			next := newTokenSet(idc.next())
			node.Edges[label] = next
			node = next
		}
	}
	node.Final = true
	return root
}

type fuzzyFrame struct {
	node  *TokenSet
	str   []rune
	edits int
}

// TokenSetFromFuzzyString builds a non-deterministic approximation of
// every string within Damerau-Levenshtein distance k of s, represented
// with "*" transitions standing in for "any character". Implemented as
// an explicit-stack DFS per spec.md §4.5 rather than recursion, since
// the frontier can fan out faster than Go's default stack growth would
// be comfortable with for large k.
func TokenSetFromFuzzyString(s string, k int) *TokenSet {
	idc := &idCounter{}
	root := newTokenSet(idc.next())

	edgeOrCreate := func(node *TokenSet, label string) *TokenSet {
		if child, ok := node.Edges[label]; ok {
			return child
		}
		child := newTokenSet(idc.next())
		node.Edges[label] = child
		return child
	}

	stack := []fuzzyFrame{{node: root, str: []rune(s), edits: k}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node, str, edits := frame.node, frame.str, frame.edits
		n := len(str)

		if n == 0 {
			node.Final = true
			continue
		}

		// no-edit: follow/create an edge on str[0]; final iff |str|=1.
		child := edgeOrCreate(node, string(str[0]))
		if n == 1 {
			child.Final = true
		} else {
			stack = append(stack, fuzzyFrame{node: child, str: str[1:], edits: edits})
		}

		if edits == 0 {
			continue
		}

		if n > 1 {
			// deletion: collapse str[0] away, transition directly on str[1].
			delChild := edgeOrCreate(node, string(str[1]))
			stack = append(stack, fuzzyFrame{node: delChild, str: str[2:], edits: edits - 1})
		} else {
			// terminal deletion: drop the last character outright.
			node.Final = true
		}

		// substitution: any character in place of str[0].
		wild := edgeOrCreate(node, wildcardLabel)
		stack = append(stack, fuzzyFrame{node: wild, str: str[1:], edits: edits - 1})

		// insertion: any extra character before str[0].
		stack = append(stack, fuzzyFrame{node: wild, str: str, edits: edits - 1})

		if n > 1 {
			// transposition: swap str[0] and str[1].
			tChild := edgeOrCreate(node, string(str[1]))
			rewritten := make([]rune, 0, n-1)
			rewritten = append(rewritten, str[0])
			rewritten = append(rewritten, str[2:]...)
			stack = append(stack, fuzzyFrame{node: tChild, str: rewritten, edits: edits - 1})
		}
	}

	return root
}

// uncheckedEdge is one entry of TokenSetBuilder's stack: the chain of
// nodes added for the suffix of previousWord beyond its common prefix
// with the pending word.
type uncheckedEdge struct {
	parent *TokenSet
	label  string
	child  *TokenSet
}

// TokenSetBuilder incrementally constructs a minimized DFA from words
// presented in strictly ascending lexicographic order (the classic
// Daciuk-style incremental minimal-automaton construction).
type TokenSetBuilder struct {
	root           *TokenSet
	previousWord   string
	uncheckedNodes []uncheckedEdge
	minimizedNodes map[string]*TokenSet
	idc            idCounter
}

// NewTokenSetBuilder returns an empty builder.
func NewTokenSetBuilder() *TokenSetBuilder {
	b := &TokenSetBuilder{minimizedNodes: map[string]*TokenSet{}}
	b.root = b.newNode()
	return b
}

func (b *TokenSetBuilder) newNode() *TokenSet {
	return newTokenSet(b.idc.next())
}

// Insert adds word to the automaton under construction. A word that
// sorts before the previously inserted word is rejected with
// ErrOutOfOrderInsertion; inserting the previous word again changes
// nothing.
func (b *TokenSetBuilder) Insert(word string) error {
	if word < b.previousWord {
		return ErrOutOfOrderInsertion
	}

	wr := []rune(word)
	pr := []rune(b.previousWord)
	minLen := len(wr)
	if len(pr) < minLen {
		minLen = len(pr)
	}
	commonPrefix := 0
	for commonPrefix < minLen && wr[commonPrefix] == pr[commonPrefix] {
		commonPrefix++
	}

	b.minimize(commonPrefix)

	var node *TokenSet
	if len(b.uncheckedNodes) == 0 {
		node = b.root
	} else {
		node = b.uncheckedNodes[len(b.uncheckedNodes)-1].child
	}

	for i := commonPrefix; i < len(wr); i++ {
		label := string(wr[i])
		next := b.newNode()
		node.Edges[label] = next
		b.uncheckedNodes = append(b.uncheckedNodes, uncheckedEdge{parent: node, label: label, child: next})
		node = next
	}
	node.Final = true
	b.previousWord = word
	return nil
}

// minimize seals every unchecked node at depth >= downTo, from the top
// of the stack down, interning each sealed subtree's canonical node.
func (b *TokenSetBuilder) minimize(downTo int) {
	for len(b.uncheckedNodes) > downTo {
		last := b.uncheckedNodes[len(b.uncheckedNodes)-1]
		b.uncheckedNodes = b.uncheckedNodes[:len(b.uncheckedNodes)-1]

		key := last.child.key()
		if existing, ok := b.minimizedNodes[key]; ok {
			last.parent.Edges[last.label] = existing
		} else {
			b.minimizedNodes[key] = last.child
		}
	}
}

// Finish minimizes down to depth 0 and returns the minimal DFA's root.
func (b *TokenSetBuilder) Finish() *TokenSet {
	b.minimize(0)
	return b.root
}

// TokenSetFromArray builds the minimal DFA for a strictly ascending,
// distinct list of words.
func TokenSetFromArray(words []string) (*TokenSet, error) {
	b := NewTokenSetBuilder()
	for _, w := range words {
		if err := b.Insert(w); err != nil {
			return nil, err
		}
	}
	return b.Finish(), nil
}
