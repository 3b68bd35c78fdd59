package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/cnvcode/internal/config"
	"github.com/kobzarvs/cnvcode/internal/highlight"
	"github.com/kobzarvs/cnvcode/internal/logger"
	"github.com/kobzarvs/cnvcode/internal/session"
)

type Mode int

const (
	ModeEdit Mode = iota
	ModeOutput
	ModeMenu
	ModePrompt
	ModeDialog
)

type Cursor struct {
	Row int
	Col int
}

// SyntaxEngine supplies language-aware highlighters. Highlighter returns nil
// for languages it cannot parse.
type SyntaxEngine interface {
	Highlighter(language string) highlight.Highlighter
}

type Editor struct {
	lines          [][]rune
	cursor         Cursor
	scroll         int
	mode           Mode
	keymap         map[string]string
	tabWidth       int
	autoClose      bool
	viewHeight     int
	lineNumberMode LineNumberMode
	statusMessage  string

	session    *session.Session
	syntax     SyntaxEngine
	keywords   map[string]*highlight.Keywords
	spans      []highlight.Span
	highlights map[int][]highlight.LineSpan

	menu   menuState
	prompt promptState
	dialog *dialog

	output       []string
	outputText   string
	outputScroll int
	outputHeight int
	outputRows   int

	runRequested bool
	actionHook   func(action string)

	styleMain             tcell.Style
	styleStatus           tcell.Style
	styleCommand          tcell.Style
	styleMenu             tcell.Style
	styleMenuSelected     tcell.Style
	styleOutput           tcell.Style
	styleOutputTitle      tcell.Style
	styleDialog           tcell.Style
	styleDialogBorder     tcell.Style
	styleLineNumber       tcell.Style
	styleLineNumberActive tcell.Style
	styleSyntaxKeyword    tcell.Style
	styleSyntaxString     tcell.Style
	styleSyntaxComment    tcell.Style
	styleSyntaxType       tcell.Style
	styleSyntaxFunction   tcell.Style
	styleSyntaxNumber     tcell.Style
	styleSyntaxConstant   tcell.Style
	styleSyntaxBuiltin    tcell.Style
}

func New(cfg config.Config) *Editor {
	keymap := make(map[string]string, len(cfg.Keymap))
	for k, v := range cfg.Keymap {
		keymap[k] = v
	}
	tabWidth := cfg.Editor.TabWidth
	if tabWidth < 1 {
		tabWidth = 1
	}
	outputHeight := cfg.Editor.OutputHeight
	if outputHeight < 1 {
		outputHeight = 1
	}
	th := cfg.Theme
	mainFg := parseColor(th.Foreground, tcell.ColorWhite)
	mainBg := parseColor(th.Background, tcell.ColorBlack)
	statusFg := parseColor(th.StatuslineForeground, tcell.ColorBlack)
	statusBg := parseColor(th.StatuslineBackground, tcell.ColorGray)
	commandFg := parseColor(th.CommandlineForeground, statusFg)
	commandBg := parseColor(th.CommandlineBackground, statusBg)
	menuFg := parseColor(th.MenuForeground, statusFg)
	menuBg := parseColor(th.MenuBackground, statusBg)
	outputBg := parseColor(th.OutputBackground, mainBg)
	dialogBg := parseColor(th.DialogBackground, statusBg)
	syntax := func(color string) tcell.Style {
		return tcell.StyleDefault.Foreground(parseColor(color, mainFg)).Background(mainBg)
	}
	return &Editor{
		lines:                 [][]rune{{}},
		mode:                  ModeEdit,
		keymap:                keymap,
		tabWidth:              tabWidth,
		autoClose:             cfg.Editor.AutoCloseEnabled(),
		lineNumberMode:        parseLineNumberMode(cfg.Editor.LineNumbers),
		keywords:              make(map[string]*highlight.Keywords),
		outputHeight:          outputHeight,
		styleMain:             tcell.StyleDefault.Foreground(mainFg).Background(mainBg),
		styleStatus:           tcell.StyleDefault.Foreground(statusFg).Background(statusBg),
		styleCommand:          tcell.StyleDefault.Foreground(commandFg).Background(commandBg),
		styleMenu:             tcell.StyleDefault.Foreground(menuFg).Background(menuBg),
		styleMenuSelected:     tcell.StyleDefault.Foreground(parseColor(th.MenuSelectedForeground, menuBg)).Background(parseColor(th.MenuSelectedBackground, menuFg)),
		styleOutput:           tcell.StyleDefault.Foreground(parseColor(th.OutputForeground, mainFg)).Background(outputBg),
		styleOutputTitle:      tcell.StyleDefault.Foreground(parseColor(th.OutputTitleForeground, mainFg)).Background(menuBg).Bold(true),
		styleDialog:           tcell.StyleDefault.Foreground(parseColor(th.DialogForeground, statusFg)).Background(dialogBg),
		styleDialogBorder:     tcell.StyleDefault.Foreground(parseColor(th.DialogBorderForeground, statusFg)).Background(dialogBg),
		styleLineNumber:       tcell.StyleDefault.Foreground(parseColor(th.LineNumberForeground, tcell.ColorGray)).Background(mainBg),
		styleLineNumberActive: tcell.StyleDefault.Foreground(parseColor(th.LineNumberActiveForeground, mainFg)).Background(mainBg),
		styleSyntaxKeyword:    syntax(th.SyntaxKeyword),
		styleSyntaxString:     syntax(th.SyntaxString),
		styleSyntaxComment:    syntax(th.SyntaxComment),
		styleSyntaxType:       syntax(th.SyntaxType),
		styleSyntaxFunction:   syntax(th.SyntaxFunction),
		styleSyntaxNumber:     syntax(th.SyntaxNumber),
		styleSyntaxConstant:   syntax(th.SyntaxConstant),
		styleSyntaxBuiltin:    syntax(th.SyntaxBuiltin),
	}
}

// Attach binds the session whose document this editor displays.
func (e *Editor) Attach(s *session.Session) {
	e.session = s
	e.rehighlight()
}

// SetSyntaxEngine switches highlighting to eng for the languages it supports.
func (e *Editor) SetSyntaxEngine(eng SyntaxEngine) {
	e.syntax = eng
	e.rehighlight()
}

func (e *Editor) Mode() Mode {
	return e.mode
}

func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	switch e.mode {
	case ModeDialog:
		return e.handleDialog(ev)
	case ModeMenu:
		return e.handleMenu(ev)
	case ModePrompt:
		return e.handlePrompt(ev)
	case ModeOutput:
		return e.handleOutput(ev)
	default:
		return e.handleEdit(ev)
	}
}

func (e *Editor) handleEdit(ev *tcell.EventKey) bool {
	e.statusMessage = ""
	if action, ok := e.keymap[keyString(ev)]; ok {
		quit := e.execAction(action)
		e.rehighlight()
		return quit
	}
	if isPlainRune(ev) {
		e.typeRune(ev.Rune())
		e.rehighlight()
	}
	return false
}

func (e *Editor) execAction(action string) bool {
	if e.actionHook != nil {
		e.actionHook(action)
	}
	switch action {
	case actionNew:
		e.newDocument()
	case actionOpen:
		e.promptOpen()
	case actionSave:
		e.save()
	case actionSaveAs:
		e.promptSaveAs()
	case actionExit:
		return e.exit()
	case actionRun:
		e.requestRun()
	case actionMenu:
		e.openMenu(0)
	case actionMenuFile:
		e.openMenu(0)
	case actionMenuRun:
		e.openMenu(1)
	case actionToggleFocus:
		e.toggleFocus()
	case actionToggleLineNumbers:
		e.toggleLineNumbers()
	case actionMoveLeft:
		e.moveLeft()
	case actionMoveRight:
		e.moveRight()
	case actionMoveUp:
		e.moveUp()
	case actionMoveDown:
		e.moveDown()
	case actionLineStart:
		e.cursor.Col = 0
	case actionLineEnd:
		e.cursor.Col = len(e.lines[e.cursor.Row])
	case actionFileStart:
		e.cursor = Cursor{}
	case actionFileEnd:
		e.cursor.Row = len(e.lines) - 1
		e.cursor.Col = len(e.lines[e.cursor.Row])
	case actionPageUp:
		e.pageUp()
	case actionPageDown:
		e.pageDown()
	case actionBackspace:
		e.backspace()
	case actionDeleteChar:
		e.deleteChar()
	case actionNewline:
		e.insertNewline()
	case actionInsertTab:
		e.insertRune('\t')
	default:
		e.setStatus("unknown action: " + action)
	}
	return false
}

func (e *Editor) setStatus(msg string) {
	e.statusMessage = msg
}

// Content returns the document text. It implements session.Buffer.
func (e *Editor) Content() string {
	return joinLines(e.lines)
}

// SetContent replaces the document and moves the cursor to the start.
// It implements session.Buffer.
func (e *Editor) SetContent(text string) {
	e.lines = splitLines(text)
	e.cursor = Cursor{}
	e.scroll = 0
	e.rehighlight()
}

func splitLines(text string) [][]rune {
	parts := strings.Split(text, "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return lines
}

func joinLines(lines [][]rune) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(line))
	}
	return b.String()
}

// Closer returns the character auto-inserted after typing r.
func Closer(r rune) (rune, bool) {
	switch r {
	case '\'':
		return '\'', true
	case '"':
		return '"', true
	case '(':
		return ')', true
	case '[':
		return ']', true
	case '{':
		return '}', true
	}
	return 0, false
}

// typeRune inserts r and, for an opener, its closer. The cursor ends up
// between the two.
func (e *Editor) typeRune(r rune) {
	e.insertRune(r)
	if !e.autoClose {
		return
	}
	if closer, ok := Closer(r); ok {
		e.insertRuneAt(e.cursor, closer)
	}
}

func (e *Editor) insertRune(r rune) {
	if e.insertRuneAt(e.cursor, r) {
		e.cursor.Col++
	}
}

func (e *Editor) insertRuneAt(pos Cursor, r rune) bool {
	if pos.Row < 0 || pos.Row >= len(e.lines) {
		return false
	}
	line := e.lines[pos.Row]
	if pos.Col < 0 || pos.Col > len(line) {
		return false
	}
	updated := make([]rune, 0, len(line)+1)
	updated = append(updated, line[:pos.Col]...)
	updated = append(updated, r)
	updated = append(updated, line[pos.Col:]...)
	e.lines[pos.Row] = updated
	return true
}

func (e *Editor) insertNewline() {
	pos := e.cursor
	line := e.lines[pos.Row]
	left := append([]rune(nil), line[:pos.Col]...)
	right := append([]rune(nil), line[pos.Col:]...)

	newLines := make([][]rune, 0, len(e.lines)+1)
	newLines = append(newLines, e.lines[:pos.Row]...)
	newLines = append(newLines, left, right)
	newLines = append(newLines, e.lines[pos.Row+1:]...)
	e.lines = newLines
	e.cursor = Cursor{Row: pos.Row + 1}
}

func (e *Editor) backspace() {
	if e.cursor.Col > 0 {
		line := e.lines[e.cursor.Row]
		e.lines[e.cursor.Row] = append(line[:e.cursor.Col-1:e.cursor.Col-1], line[e.cursor.Col:]...)
		e.cursor.Col--
		return
	}
	if e.cursor.Row == 0 {
		return
	}
	prev := e.cursor.Row - 1
	col := len(e.lines[prev])
	e.joinLine(prev)
	e.cursor = Cursor{Row: prev, Col: col}
}

func (e *Editor) deleteChar() {
	line := e.lines[e.cursor.Row]
	if e.cursor.Col < len(line) {
		e.lines[e.cursor.Row] = append(line[:e.cursor.Col:e.cursor.Col], line[e.cursor.Col+1:]...)
		return
	}
	if e.cursor.Row < len(e.lines)-1 {
		e.joinLine(e.cursor.Row)
	}
}

// joinLine appends line row+1 to line row.
func (e *Editor) joinLine(row int) {
	joined := make([]rune, 0, len(e.lines[row])+len(e.lines[row+1]))
	joined = append(joined, e.lines[row]...)
	joined = append(joined, e.lines[row+1]...)
	e.lines[row] = joined
	e.lines = append(e.lines[:row+1], e.lines[row+2:]...)
}

func (e *Editor) moveLeft() {
	if e.cursor.Col > 0 {
		e.cursor.Col--
		return
	}
	if e.cursor.Row == 0 {
		return
	}
	e.cursor.Row--
	e.cursor.Col = len(e.lines[e.cursor.Row])
}

func (e *Editor) moveRight() {
	if e.cursor.Col < len(e.lines[e.cursor.Row]) {
		e.cursor.Col++
		return
	}
	if e.cursor.Row >= len(e.lines)-1 {
		return
	}
	e.cursor.Row++
	e.cursor.Col = 0
}

func (e *Editor) moveUp() {
	if e.cursor.Row == 0 {
		return
	}
	e.cursor.Row--
	e.clampCursorCol()
}

func (e *Editor) moveDown() {
	if e.cursor.Row >= len(e.lines)-1 {
		return
	}
	e.cursor.Row++
	e.clampCursorCol()
}

func (e *Editor) pageUp() {
	e.cursor.Row = max(e.cursor.Row-e.viewHeightCached(), 0)
	e.clampCursorCol()
}

func (e *Editor) pageDown() {
	e.cursor.Row = min(e.cursor.Row+e.viewHeightCached(), len(e.lines)-1)
	e.clampCursorCol()
}

func (e *Editor) clampCursorCol() {
	if lineLen := len(e.lines[e.cursor.Row]); e.cursor.Col > lineLen {
		e.cursor.Col = lineLen
	}
}

func (e *Editor) viewHeightCached() int {
	if e.viewHeight < 1 {
		return 1
	}
	return e.viewHeight
}

func (e *Editor) ensureCursorVisible(viewHeight int) {
	if viewHeight <= 0 {
		return
	}
	if e.cursor.Row < e.scroll {
		e.scroll = e.cursor.Row
		return
	}
	if e.cursor.Row >= e.scroll+viewHeight {
		e.scroll = e.cursor.Row - viewHeight + 1
	}
}

// rehighlight recomputes spans for the whole document.
func (e *Editor) rehighlight() {
	h := e.highlighter()
	if h == nil {
		e.spans = nil
		e.highlights = nil
		return
	}
	text := e.Content()
	e.spans = h.Highlight(text)
	e.highlights = highlight.ByLine(text, e.spans)
}

func (e *Editor) highlighter() highlight.Highlighter {
	if e.session == nil {
		return nil
	}
	lang := e.session.Language()
	if lang == nil {
		return nil
	}
	if e.syntax != nil {
		if h := e.syntax.Highlighter(lang.Name); h != nil {
			return h
		}
	}
	k, ok := e.keywords[lang.Name]
	if !ok {
		k = highlight.NewKeywords(lang.Keywords)
		e.keywords[lang.Name] = k
	}
	return k
}

// Spans returns the highlight spans of the current document.
func (e *Editor) Spans() []highlight.Span {
	return e.spans
}

func (e *Editor) newDocument() {
	if e.session == nil {
		return
	}
	if !e.session.NeedsConfirmNew() {
		e.session.New()
		e.setStatus("new document")
		return
	}
	e.confirm("Unsaved Changes", "Discard the current document?", func(yes bool) bool {
		if yes {
			e.session.New()
			e.rehighlight()
			e.setStatus("new document")
		}
		return false
	})
}

func (e *Editor) promptOpen() {
	if e.session == nil {
		return
	}
	e.startPrompt("Open: ", "", func(path string) bool {
		e.openFile(path)
		return false
	})
}

// OpenFile loads path into the session and rehighlights it.
func (e *Editor) OpenFile(path string) error {
	if e.session == nil {
		return errors.New("no session attached")
	}
	if err := e.session.Open(path); err != nil {
		return err
	}
	e.rehighlight()
	e.setStatus("opened " + filepath.Base(path))
	return nil
}

func (e *Editor) openFile(path string) {
	path = expandPath(path)
	if path == "" {
		return
	}
	if err := e.OpenFile(path); err != nil {
		e.showError(err)
	}
}

func (e *Editor) save() {
	if e.session == nil {
		return
	}
	err := e.session.Save()
	switch {
	case errors.Is(err, session.ErrNoPath):
		e.promptSaveAs()
	case err != nil:
		e.showError(err)
	default:
		e.setStatus("saved " + filepath.Base(e.session.Path()))
	}
}

func (e *Editor) promptSaveAs() {
	if e.session == nil {
		return
	}
	e.startPrompt("Save As: ", e.session.Path(), func(path string) bool {
		path = expandPath(path)
		if err := e.session.SaveAs(path); err != nil {
			e.showError(err)
			return false
		}
		if path != "" {
			e.rehighlight()
			e.setStatus("saved " + filepath.Base(path))
		}
		return false
	})
}

func (e *Editor) exit() bool {
	if e.session == nil || !e.session.Dirty() {
		return true
	}
	e.confirm("Unsaved Changes", "Discard unsaved changes and exit?", func(yes bool) bool {
		return yes
	})
	return false
}

func (e *Editor) requestRun() {
	e.runRequested = true
	e.setStatus("running…")
}

// ConsumeRunRequest reports and clears a pending run. The caller renders
// first so the running status is visible, then calls RunCode.
func (e *Editor) ConsumeRunRequest() bool {
	if !e.runRequested {
		return false
	}
	e.runRequested = false
	return true
}

// RunCode runs the document and shows the captured output. It blocks until
// the script exits or ctx is done.
func (e *Editor) RunCode(ctx context.Context) {
	if e.session == nil {
		return
	}
	res, err := e.session.Run(ctx)
	if errors.Is(err, session.ErrNoCode) {
		e.setStatus("")
		e.showWarning("No Code", "There is no code to run.")
		return
	}
	e.setOutput(e.session.Output())
	if res.ExitCode < 0 {
		e.setStatus("run failed")
		return
	}
	e.setStatus(fmt.Sprintf("exit %d in %s", res.ExitCode, res.Duration.Round(time.Millisecond)))
}

// expandPath trims the prompt input and expands a leading "~/".
func expandPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			logger.Warn("home dir lookup failed", "error", err)
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
