// Package treesitter provides a syntax-aware highlighter for the languages it
// has grammars for.
package treesitter

import (
	"context"
	"sort"
	"sync"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/kobzarvs/cnvcode/internal/highlight"
	"github.com/kobzarvs/cnvcode/internal/logger"
)

type grammar struct {
	lang   *sitter.Language
	query  *sitter.Query
	parser *sitter.Parser
}

type Engine struct {
	mu       sync.Mutex
	grammars map[string]*grammar
}

func New() *Engine {
	languages := []struct {
		name  string
		lang  *sitter.Language
		query string
	}{
		{"python", python.GetLanguage(), pythonHighlightQuery},
		{"bash", bash.GetLanguage(), bashHighlightQuery},
		{"go", golang.GetLanguage(), goHighlightQuery},
	}

	e := &Engine{grammars: make(map[string]*grammar, len(languages))}
	for _, l := range languages {
		query, err := sitter.NewQuery([]byte(l.query), l.lang)
		if err != nil {
			// Keep going with the other grammars
			logger.Warn("highlight query rejected", "language", l.name, "error", err)
			continue
		}
		p := sitter.NewParser()
		p.SetLanguage(l.lang)
		e.grammars[l.name] = &grammar{lang: l.lang, query: query, parser: p}
	}
	return e
}

func (e *Engine) Supports(language string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.grammars[language]
	return ok
}

// Highlighter returns a highlighter bound to language, or nil when there is no
// grammar for it.
func (e *Engine) Highlighter(language string) highlight.Highlighter {
	if !e.Supports(language) {
		return nil
	}
	return languageHighlighter{engine: e, language: language}
}

type languageHighlighter struct {
	engine   *Engine
	language string
}

func (h languageHighlighter) Highlight(text string) []highlight.Span {
	return h.engine.Highlight(h.language, text)
}

// Highlight parses text from scratch and returns the captured spans in rune
// offsets, ordered by start.
func (e *Engine) Highlight(language, text string) []highlight.Span {
	e.mu.Lock()
	defer e.mu.Unlock()
	g, ok := e.grammars[language]
	if !ok || text == "" {
		return nil
	}
	source := []byte(text)
	tree, err := g.parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		logger.Debug("parse failed", "language", language, "error", err)
		return nil
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(g.query, tree.RootNode())

	runeAt := runeOffsets(source)
	var spans []highlight.Span
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)
		if match == nil {
			continue
		}
		for _, capture := range match.Captures {
			start := int(capture.Node.StartByte())
			end := int(capture.Node.EndByte())
			if start >= end || end > len(source) {
				continue
			}
			spans = append(spans, highlight.Span{
				Start: runeAt(start),
				End:   runeAt(end),
				Kind:  g.query.CaptureNameForId(capture.Index),
			})
		}
	}
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].Start < spans[j].Start
	})
	return spans
}

// runeOffsets returns a byte-to-rune offset converter for source.
func runeOffsets(source []byte) func(int) int {
	if utf8.RuneCount(source) == len(source) {
		return func(b int) int { return b }
	}
	table := make([]int, len(source)+1)
	n := 0
	for i := 0; i < len(source); {
		_, size := utf8.DecodeRune(source[i:])
		for j := 0; j < size && i+j < len(source); j++ {
			table[i+j] = n
		}
		i += size
		n++
	}
	table[len(source)] = n
	return func(b int) int { return table[b] }
}

const pythonHighlightQuery = `
((comment) @comment)
((string) @string)
((escape_sequence) @string)
((integer) @number)
((float) @number)
((true) @constant)
((false) @constant)
((none) @constant)
[
  "and" "as" "assert" "async" "await" "break" "class" "continue" "def" "del"
  "elif" "else" "except" "finally" "for" "from" "global" "if" "import" "in"
  "is" "lambda" "nonlocal" "not" "or" "pass" "raise" "return" "try" "while"
  "with" "yield"
] @keyword
((decorator) @function)
((function_definition name: (identifier) @function))
((class_definition name: (identifier) @type))
((call function: (identifier) @function))
((call function: (attribute attribute: (identifier) @function)))
((identifier) @builtin (#match? @builtin "^(abs|all|any|bool|dict|enumerate|filter|float|input|int|isinstance|len|list|map|max|min|open|print|range|repr|reversed|set|sorted|str|sum|super|tuple|type|zip)$"))
`

const bashHighlightQuery = `
((comment) @comment)
((string) @string)
((raw_string) @string)
((heredoc_body) @string)
((number) @number)
((command_name) @function)
((function_definition name: (word) @function))
[
  "if" "then" "else" "elif" "fi" "case" "esac" "for" "while" "until"
  "do" "done" "in" "function" "select"
  "local" "export" "readonly" "declare" "typeset" "unset"
] @keyword
`

const goHighlightQuery = `
((comment) @comment)
((interpreted_string_literal) @string)
((raw_string_literal) @string)
((rune_literal) @string)
((int_literal) @number)
((float_literal) @number)
[
  "break" "case" "chan" "const" "continue" "default" "defer" "else"
  "fallthrough" "for" "func" "go" "goto" "if" "import" "interface"
  "map" "package" "range" "return" "select" "struct" "switch"
  "type" "var"
] @keyword
((nil) @constant)
((true) @constant)
((false) @constant)
((type_identifier) @type)
((function_declaration name: (identifier) @function))
((call_expression function: (identifier) @function))
((identifier) @builtin (#match? @builtin "^(append|cap|close|copy|delete|len|make|new|panic|print|println|recover)$"))
`
