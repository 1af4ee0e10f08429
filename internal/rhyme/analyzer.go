package rhyme

import (
	"slices"
	"strings"
)

// Scope selects which words take part in rhyme detection.
type Scope int

const (
	ScopeLineEnd  Scope = iota // last word of every line
	ScopeAllWords              // every word
)

func (s Scope) String() string {
	switch s {
	case ScopeAllWords:
		return "all-words"
	default:
		return "line-end"
	}
}

// ParseScope maps "line-end" and "all-words" to a [Scope].
func ParseScope(s string) (Scope, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "line-end", "lineend", "end":
		return ScopeLineEnd, true
	case "all-words", "allwords", "all":
		return ScopeAllWords, true
	}
	return ScopeLineEnd, false
}

// Member is one word of a [Group].
type Member struct {
	Position
	Word string `json:"word"`
}

// Group is a set of words that rhyme with each other.
type Group struct {
	Label string   `json:"label"`
	Key   string   `json:"key"`
	Words []Member `json:"words"`
}

// Result is the outcome of analyzing one lyrics text.
type Result struct {
	Text   Text     `json:"-"`
	Groups []Group  `json:"groups"`
	Scheme []string `json:"scheme"`
}

// Lyrics returns the analyzed text as given.
func (r *Result) Lyrics() string {
	return r.Text.Raw
}

// LabelAt returns the label of the group containing the word at p, or "".
func (r *Result) LabelAt(p Position) string {
	for _, g := range r.Groups {
		for _, m := range g.Words {
			if m.Position == p {
				return g.Label
			}
		}
	}
	return ""
}

func emptyResult(text string) *Result {
	return &Result{Text: Text{Raw: text}, Groups: []Group{}, Scheme: []string{}}
}

// Option configures an [Analyzer].
type Option func(*Analyzer)

// WithScope sets which words are compared. The default is [ScopeLineEnd].
func WithScope(s Scope) Option {
	return func(a *Analyzer) {
		a.scope = s
	}
}

// WithNearRhymes lets keys with the same vowel rhyme when their codas differ by at most maxCodaDistance edits.
// Zero or a negative distance disables near rhymes.
func WithNearRhymes(maxCodaDistance int) Option {
	return func(a *Analyzer) {
		a.near = max(maxCodaDistance, 0)
	}
}

// Analyzer groups rhyming words.
type Analyzer struct {
	scope Scope
	near  int
}

// NewAnalyzer creates an [Analyzer] comparing line-end words by exact key unless configured otherwise.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{scope: ScopeLineEnd}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Scope returns the configured scope.
func (a *Analyzer) Scope() Scope {
	return a.scope
}

// Analyze runs a default [Analyzer] over text.
func Analyze(text string) *Result {
	return NewAnalyzer().Analyze(text)
}

// Analyze tokenizes text and groups its rhyming words.
func (a *Analyzer) Analyze(text string) *Result {
	if IsPlaceholder(text) {
		return emptyResult(text)
	}

	t := Tokenize(text)
	candidates := a.candidates(t)

	keys := make([]string, 0, len(candidates))
	index := make(map[string]int, len(candidates))
	for _, w := range candidates {
		if _, ok := index[w.Key]; !ok {
			index[w.Key] = len(keys)
			keys = append(keys, w.Key)
		}
	}

	sets := newDisjointSet(len(keys))
	if a.near > 0 {
		for i := range keys {
			for j := i + 1; j < len(keys); j++ {
				if a.nearRhyme(keys[i], keys[j]) {
					sets.union(i, j)
				}
			}
		}
	}

	// candidates are in reading order, so components come out ordered by first member.
	components := make(map[int]int)
	var groups []Group
	for _, w := range candidates {
		root := sets.find(index[w.Key])
		gi, ok := components[root]
		if !ok {
			gi = len(groups)
			components[root] = gi
			groups = append(groups, Group{Key: w.Key})
		}
		groups[gi].Words = append(groups[gi].Words, Member{Position: w.Pos, Word: w.Text})
	}

	groups = slices.DeleteFunc(groups, func(g Group) bool {
		return len(g.Words) < 2
	})

	labels := make(map[Position]string)
	for i := range groups {
		groups[i].Label = Label(i)
		for _, m := range groups[i].Words {
			labels[m.Position] = groups[i].Label
		}
	}

	scheme := make([]string, len(t.Lines))
	for i, l := range t.Lines {
		if w, ok := l.Last(); ok {
			scheme[i] = labels[w.Pos]
		}
	}

	if groups == nil {
		groups = []Group{}
	}
	return &Result{Text: t, Groups: groups, Scheme: scheme}
}

func (a *Analyzer) candidates(t Text) []Word {
	var words []Word
	for _, l := range t.Lines {
		if a.scope == ScopeAllWords {
			for _, w := range l.Words {
				if w.Key != "" {
					words = append(words, w)
				}
			}
			continue
		}
		if w, ok := l.Last(); ok && w.Key != "" {
			words = append(words, w)
		}
	}
	return words
}

func (a *Analyzer) nearRhyme(k1, k2 string) bool {
	if !strings.Contains(k1, keySep) || !strings.Contains(k2, keySep) {
		return false
	}
	if Vowel(k1) != Vowel(k2) {
		return false
	}
	return Distance(Coda(k1), Coda(k2)) <= a.near
}

// Label returns the group label for the i-th group: A ... Z, AA, AB ...
func Label(i int) string {
	var b []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		b = append(b, byte('A'+(n-1)%26))
	}
	slices.Reverse(b)
	return string(b)
}

type disjointSet struct {
	parent []int
}

func newDisjointSet(n int) *disjointSet {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &disjointSet{parent: parent}
}

func (d *disjointSet) find(i int) int {
	for d.parent[i] != i {
		d.parent[i] = d.parent[d.parent[i]]
		i = d.parent[i]
	}
	return i
}

// union keeps the smaller index as root so roots follow first occurrence.
func (d *disjointSet) union(i, j int) {
	ri, rj := d.find(i), d.find(j)
	switch {
	case ri == rj:
		return
	case ri < rj:
		d.parent[rj] = ri
	default:
		d.parent[ri] = rj
	}
}
