package highlight

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var pyWords = []string{"def", "return", "if", "in", "is", "not", "None", "True"}

func kw(start, end int) Span {
	return Span{Start: start, End: end, Kind: KindKeyword}
}

func TestKeywordsHighlight(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []Span
	}{
		{"empty", "", nil},
		{"no keywords", "x = 1", nil},
		{"single", "def f():", []Span{kw(0, 3)}},
		{"whole word only", "define isinstance indent", nil},
		{"case sensitive", "DEF Def none None", []Span{kw(13, 17)}},
		{"underscore joins words", "_if if_ if", []Span{kw(8, 10)}},
		{"digits join words", "in2 2in in", []Span{kw(8, 10)}},
		{"punctuation bounds", "(not)x.is", []Span{kw(1, 4), kw(7, 9)}},
		{"repeated", "if if\nif", []Span{kw(0, 2), kw(3, 5), kw(6, 8)}},
		{"inside string too", `s = "return"`, []Span{kw(5, 11)}},
		{"inside comment too", "# if True", []Span{kw(2, 4), kw(5, 9)}},
		{"unicode neighbours", "éif if", []Span{kw(4, 6)}},
		{"rune offsets", "ü if", []Span{kw(2, 4)}},
	}
	k := NewKeywords(pyWords)
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got := k.Highlight(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Highlight(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestKeywordsHighlightIdempotent(t *testing.T) {
	k := NewKeywords(pyWords)
	text := "def f(x):\n    if x is not None:\n        return True\n"
	first := k.Highlight(text)
	second := k.Highlight(text)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second run differs (-first +second):\n%s", diff)
	}
	if len(first) != 7 {
		t.Fatalf("spans = %d, want 7: %+v", len(first), first)
	}
}

func TestKeywordsOrderedByStart(t *testing.T) {
	k := NewKeywords([]string{"return", "def"})
	got := k.Highlight("def f(): return")
	want := []Span{kw(0, 3), kw(9, 15)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNewKeywordsSkipsEmptyAndDuplicates(t *testing.T) {
	k := NewKeywords([]string{"", "if", "if"})
	got := k.Highlight("if")
	if diff := cmp.Diff([]Span{kw(0, 2)}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNilKeywords(t *testing.T) {
	var k *Keywords
	if got := k.Highlight("if"); got != nil {
		t.Fatalf("nil highlighter returned %v", got)
	}
}
