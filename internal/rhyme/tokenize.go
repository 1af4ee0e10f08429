package rhyme

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Placeholder is the lyrics text substituted when a lookup finds nothing.
const Placeholder = "not found"

// Position locates a word inside a [Text].
type Position struct {
	Line  int `json:"line"`  // zero-based line index
	Index int `json:"index"` // zero-based word index within the line
}

// Less reports whether p comes before o in reading order.
func (p Position) Less(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Index < o.Index
}

// Word is a single token of lyrics.
type Word struct {
	Text string   // original spelling
	Norm string   // lower case, accents folded, letters and digits only
	Key  string   // rhyme key, see [Key]
	Pos  Position // location in the source text
}

// Line is one line of lyrics.
type Line struct {
	Raw   string
	Words []Word
}

// Last returns the final word of the line.
func (l Line) Last() (Word, bool) {
	if len(l.Words) == 0 {
		return Word{}, false
	}
	return l.Words[len(l.Words)-1], true
}

// Text is tokenized lyrics.
type Text struct {
	Raw   string
	Lines []Line
}

// Empty reports whether the text has no words at all.
func (t Text) Empty() bool {
	for _, l := range t.Lines {
		if len(l.Words) > 0 {
			return false
		}
	}
	return true
}

// IsPlaceholder reports whether text is blank or the not-found placeholder.
func IsPlaceholder(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == "" || strings.EqualFold(trimmed, Placeholder)
}

// Tokenize splits text into lines and words.
func Tokenize(text string) Text {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	rawLines := strings.Split(normalized, "\n")
	lines := make([]Line, len(rawLines))
	for i, raw := range rawLines {
		lines[i] = Line{Raw: raw}
		if isSectionHeader(raw) {
			continue
		}
		lines[i].Words = splitWords(i, raw)
	}

	return Text{Raw: text, Lines: lines}
}

func splitWords(line int, raw string) []Word {
	fields := strings.FieldsFunc(raw, isSeparator)
	words := make([]Word, 0, len(fields))
	for _, f := range fields {
		n := Normalize(f)
		if !hasLetter(n) {
			continue
		}
		words = append(words, Word{
			Text: f,
			Norm: n,
			Key:  Key(n),
			Pos:  Position{Line: line, Index: len(words)},
		})
	}
	return words
}

// Normalize lower-cases word, folds accents and drops everything that is not a letter or digit.
func Normalize(word string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, word)
	if err != nil {
		folded = word
	}

	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r) && r != '\'' && r != '’'
}

func isSectionHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	return len(trimmed) > 1 && strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
