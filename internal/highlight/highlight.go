// Package highlight finds reserved words in a document and maps the resulting
// spans onto lines for rendering.
package highlight

import (
	"sort"
	"unicode"
)

// KindKeyword is the only kind the reserved-word highlighter emits.
const KindKeyword = "keyword"

// Span marks a highlighted range of the document in rune offsets, end exclusive.
type Span struct {
	Start int
	End   int
	Kind  string
}

// Highlighter computes spans over a whole document.
type Highlighter interface {
	Highlight(text string) []Span
}

// Keywords matches a fixed reserved-word set as whole words.
// Matching is case-sensitive and ignores context: words inside strings or
// comments are highlighted too.
type Keywords struct {
	words [][]rune
}

func NewKeywords(words []string) *Keywords {
	k := &Keywords{words: make([][]rune, 0, len(words))}
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		k.words = append(k.words, []rune(w))
	}
	return k
}

// Highlight scans text once per reserved word and returns every whole-word
// occurrence, ordered by start offset.
func (k *Keywords) Highlight(text string) []Span {
	if k == nil || len(k.words) == 0 || text == "" {
		return nil
	}
	doc := []rune(text)
	var spans []Span
	for _, w := range k.words {
		start := 0
		for {
			idx := indexRunes(doc, w, start)
			if idx < 0 {
				break
			}
			end := idx + len(w)
			if isBoundary(doc, idx-1) && isBoundary(doc, end) {
				spans = append(spans, Span{Start: idx, End: end, Kind: KindKeyword})
				start = end
				continue
			}
			start = idx + 1
		}
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
	return spans
}

func indexRunes(doc, w []rune, from int) int {
	for i := from; i+len(w) <= len(doc); i++ {
		if doc[i] != w[0] {
			continue
		}
		match := true
		for j := 1; j < len(w); j++ {
			if doc[i+j] != w[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// isBoundary reports whether position i is outside doc or holds a non-word rune.
func isBoundary(doc []rune, i int) bool {
	if i < 0 || i >= len(doc) {
		return true
	}
	return !IsWordRune(doc[i])
}

func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
