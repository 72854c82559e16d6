package fts

import "sync"

// PipelineFunction transforms one token from allTokens at index idx.
// It returns zero, one, or many replacement tokens; returning nil or an
// empty slice discards the input token.
type PipelineFunction func(token *Token, idx int, allTokens []*Token) []*Token

type registeredFunction struct {
	label string
	fn    PipelineFunction
}

var (
	registryMu sync.RWMutex
	registry   = map[string]PipelineFunction{}
)

// RegisterPipelineFunction adds fn to the process-wide label registry
// used for (de)serialization. Overwriting an existing label is allowed
// but logs an advisory warning (spec.md §7 class 3).
func RegisterPipelineFunction(label string, fn PipelineFunction) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[label]; exists {
		warnf("pipeline function label %q already registered, overwriting", label)
	}
	registry[label] = fn
}

// LookupPipelineFunction returns the function registered under label, if any.
func LookupPipelineFunction(label string) (PipelineFunction, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := registry[label]
	return fn, ok
}

// Pipeline is an ordered chain of PipelineFunctions. A stage consumes
// the full output list of the previous stage before the next stage runs.
type Pipeline struct {
	stages []registeredFunction
}

// NewPipeline returns an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Add appends fn to the pipeline. Use AddLabeled to make the stage
// serializable.
func (p *Pipeline) Add(fn PipelineFunction) {
	p.stages = append(p.stages, registeredFunction{fn: fn})
}

// AddLabeled appends fn to the pipeline and registers it under label so
// ToJSON/Load round-trip correctly.
func (p *Pipeline) AddLabeled(label string, fn PipelineFunction) {
	RegisterPipelineFunction(label, fn)
	p.stages = append(p.stages, registeredFunction{label: label, fn: fn})
}

func (p *Pipeline) indexOf(fn PipelineFunction) int {
	target := fnIdentity(fn)
	for i, s := range p.stages {
		if fnIdentity(s.fn) == target {
			return i
		}
	}
	return -1
}

// Before inserts newFn immediately before existing. No-op if existing
// is not found.
func (p *Pipeline) Before(existing, newFn PipelineFunction) {
	i := p.indexOf(existing)
	if i < 0 {
		return
	}
	p.insertAt(i, registeredFunction{fn: newFn})
}

// After inserts newFn immediately after existing. No-op if existing is
// not found.
func (p *Pipeline) After(existing, newFn PipelineFunction) {
	i := p.indexOf(existing)
	if i < 0 {
		return
	}
	p.insertAt(i+1, registeredFunction{fn: newFn})
}

func (p *Pipeline) insertAt(i int, rf registeredFunction) {
	p.stages = append(p.stages, registeredFunction{})
	copy(p.stages[i+1:], p.stages[i:])
	p.stages[i] = rf
}

// Remove drops fn from the pipeline.
func (p *Pipeline) Remove(fn PipelineFunction) {
	i := p.indexOf(fn)
	if i < 0 {
		return
	}
	p.stages = append(p.stages[:i], p.stages[i+1:]...)
}

// Reset empties the pipeline.
func (p *Pipeline) Reset() {
	p.stages = nil
}

// Run executes every stage in order over tokens, returning the final
// token list.
func (p *Pipeline) Run(tokens []*Token) []*Token {
	for _, stage := range p.stages {
		next := make([]*Token, 0, len(tokens))
		for i, tok := range tokens {
			out := stage.fn(tok, i, tokens)
			next = append(next, out...)
		}
		tokens = next
	}
	return tokens
}

// RunString tokenizes str with the default tokenizer, runs the pipeline,
// and returns the surface strings of the result.
func (p *Pipeline) RunString(str string, metadata Metadata) []string {
	tk := NewTokenizer()
	tokens := tk.Tokenize(str, metadata)
	out := p.Run(tokens)
	strs := make([]string, len(out))
	for i, t := range out {
		strs[i] = t.String()
	}
	return strs
}

// ToJSON returns the labels of every labeled stage, in order. Unlabeled
// stages are skipped with an advisory warning, since they cannot be
// reconstructed from a label on Load.
func (p *Pipeline) ToJSON() []string {
	labels := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		if s.label == "" {
			warnf("pipeline stage has no registered label and will not survive serialization")
			continue
		}
		labels = append(labels, s.label)
	}
	return labels
}

// LoadPipeline reconstructs a Pipeline from labels produced by ToJSON.
// An unknown label is a hard error (spec.md §6/§7).
func LoadPipeline(labels []string) (*Pipeline, error) {
	p := NewPipeline()
	for _, label := range labels {
		fn, ok := LookupPipelineFunction(label)
		if !ok {
			return nil, ErrUnregisteredPipelineFunction
		}
		p.stages = append(p.stages, registeredFunction{label: label, fn: fn})
	}
	return p, nil
}

// fnIdentity gives PipelineFunction values a comparable identity via
// their underlying function pointer, since func values aren't otherwise
// comparable in Go.
func fnIdentity(fn PipelineFunction) uintptr {
	return funcPointer(fn)
}
