package editor

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/cnvcode/internal/highlight"
)

type LineNumberMode int

const (
	LineNumberOff LineNumberMode = iota
	LineNumberAbsolute
	LineNumberRelative
)

// Render lays out, top to bottom: menu bar, text area, output pane, status
// line and command line. Dropdowns and dialogs are drawn over the rest.
func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	s.SetStyle(e.styleMain)
	s.Clear()

	outputHeight := e.outputPaneHeight(h)
	textTop := 1
	viewHeight := max(h-3-outputHeight, 0)
	statusY := h - 2
	cmdY := h - 1
	if h < 3 {
		textTop, viewHeight, statusY, cmdY = 0, 0, -1, h-1
	}
	e.viewHeight = viewHeight
	e.ensureCursorVisible(viewHeight)

	if h >= 3 {
		e.renderMenuBar(s, w)
	}
	gutterWidth := e.gutterWidth()
	for y := 0; y < viewHeight; y++ {
		lineIdx := e.scroll + y
		if lineIdx >= len(e.lines) {
			clearLine(s, textTop+y, w, e.styleMain)
			continue
		}
		e.drawLineWithGutter(s, textTop+y, w, gutterWidth, lineIdx)
	}
	e.renderOutput(s, w, textTop+viewHeight, outputHeight)
	if statusY >= 0 {
		e.renderStatusline(s, w, statusY)
	}
	cmdX := e.renderCommandline(s, w, cmdY)

	if e.mode == ModeMenu {
		e.renderMenuDropdown(s, w, h)
	}
	if e.mode == ModeDialog {
		e.renderDialog(s, w, h)
	}

	switch e.mode {
	case ModePrompt:
		s.SetCursorStyle(tcell.CursorStyleSteadyBar)
		s.ShowCursor(cmdX, cmdY)
	case ModeEdit:
		cy := textTop + e.cursor.Row - e.scroll
		if cy < textTop || cy >= textTop+viewHeight {
			s.HideCursor()
			break
		}
		cx := gutterWidth + visualCol(e.lines[e.cursor.Row], e.cursor.Col, e.tabWidth)
		if cx >= w {
			cx = w - 1
		}
		s.SetCursorStyle(tcell.CursorStyleSteadyBar)
		s.ShowCursor(cx, cy)
	default:
		s.HideCursor()
	}
	s.Show()
}

func (e *Editor) renderStatusline(s tcell.Screen, w, y int) {
	name := "Untitled"
	dirty := ""
	lang := ""
	if e.session != nil {
		if p := e.session.Path(); p != "" {
			name = filepath.Base(p)
		}
		if e.session.Dirty() {
			dirty = "*"
		}
		if l := e.session.Language(); l != nil {
			lang = l.Name
		}
	}
	focus := "EDIT"
	if e.mode == ModeOutput {
		focus = "OUTPUT"
	}
	left := fmt.Sprintf(" %s | %s%s ", focus, name, dirty)
	if e.statusMessage != "" {
		left = fmt.Sprintf(" %s | %s%s | %s ", focus, name, dirty, e.statusMessage)
	}
	col := visualCol(e.lines[e.cursor.Row], e.cursor.Col, e.tabWidth) + 1
	right := fmt.Sprintf(" Ln %d, Col %d ", e.cursor.Row+1, col)
	if lang != "" {
		right += "| " + lang + " "
	}
	line := composeStatusLine(left, right, w)
	for x, r := range line {
		s.SetContent(x, y, r, nil, e.styleStatus)
	}
}

func (e *Editor) styleForHighlight(kind string) (tcell.Style, bool) {
	switch kind {
	case highlight.KindKeyword:
		return e.styleSyntaxKeyword, true
	case "string":
		return e.styleSyntaxString, true
	case "comment":
		return e.styleSyntaxComment, true
	case "type":
		return e.styleSyntaxType, true
	case "function":
		return e.styleSyntaxFunction, true
	case "number":
		return e.styleSyntaxNumber, true
	case "constant":
		return e.styleSyntaxConstant, true
	case "builtin":
		return e.styleSyntaxBuiltin, true
	default:
		return e.styleMain, false
	}
}

// highlightPriority settles overlapping captures: a keyword inside a
// string is drawn as string.
func highlightPriority(kind string) int {
	switch kind {
	case "comment":
		return 7
	case "string":
		return 6
	case highlight.KindKeyword:
		return 5
	case "constant", "builtin":
		return 4
	case "type", "function", "number":
		return 3
	default:
		return 0
	}
}

func highlightKindAt(spans []highlight.LineSpan, col int) (string, bool) {
	bestKind := ""
	bestPriority := -1
	for _, span := range spans {
		if col < span.StartCol || col >= span.EndCol {
			continue
		}
		if p := highlightPriority(span.Kind); p > bestPriority {
			bestPriority = p
			bestKind = span.Kind
		}
	}
	return bestKind, bestKind != ""
}

func (e *Editor) drawLine(s tcell.Screen, y, w, startX int, line []rune, spans []highlight.LineSpan) {
	x := startX
	col := 0
	for idx, r := range line {
		if x >= w {
			break
		}
		style := e.styleMain
		if kind, ok := highlightKindAt(spans, idx); ok {
			style, _ = e.styleForHighlight(kind)
		}
		if r == '\t' {
			spaces := e.tabWidth - (col % e.tabWidth)
			for i := 0; i < spaces && x < w; i++ {
				s.SetContent(x, y, ' ', nil, style)
				x++
				col++
			}
			continue
		}
		s.SetContent(x, y, printable(r), nil, style)
		x++
		col++
	}
	for x < w {
		s.SetContent(x, y, ' ', nil, e.styleMain)
		x++
	}
}

// printable maps control characters, such as the CR of a CRLF file, to a
// blank cell.
func printable(r rune) rune {
	if unicode.IsControl(r) {
		return ' '
	}
	return r
}

func (e *Editor) drawLineWithGutter(s tcell.Screen, y, w, gutterWidth, lineIdx int) {
	if gutterWidth > 0 {
		digits := gutterWidth - 2
		num := lineIdx + 1
		if e.lineNumberMode == LineNumberRelative && lineIdx != e.cursor.Row {
			num = lineIdx - e.cursor.Row
			if num < 0 {
				num = -num
			}
		}
		style := e.styleLineNumber
		if lineIdx == e.cursor.Row {
			style = e.styleLineNumberActive
		}
		s.SetContent(0, y, ' ', nil, e.styleMain)
		drawText(s, 1, y, min(gutterWidth-1, w), fmt.Sprintf("%*d", digits, num), style)
		if gutterWidth-1 < w {
			s.SetContent(gutterWidth-1, y, ' ', nil, e.styleMain)
		}
	}
	if gutterWidth >= w {
		return
	}
	e.drawLine(s, y, w, gutterWidth, e.lines[lineIdx], e.highlights[lineIdx])
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

// drawText writes text from x up to, not including, column limit.
func drawText(s tcell.Screen, x, y, limit int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= limit {
			return
		}
		if x >= 0 {
			s.SetContent(x, y, r, nil, style)
		}
		x++
	}
}

func drawBox(s tcell.Screen, x0, y0, width, height int, style tcell.Style) {
	for x := 0; x < width; x++ {
		top, bottom := '─', '─'
		switch x {
		case 0:
			top, bottom = '┌', '└'
		case width - 1:
			top, bottom = '┐', '┘'
		}
		s.SetContent(x0+x, y0, top, nil, style)
		s.SetContent(x0+x, y0+height-1, bottom, nil, style)
	}
	for y := 1; y < height-1; y++ {
		s.SetContent(x0, y0+y, '│', nil, style)
		s.SetContent(x0+width-1, y0+y, '│', nil, style)
	}
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for i := len(leftRunes) + len(rightRunes); i < width; i++ {
		line = append(line, ' ')
	}
	return append(line, rightRunes...)
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		v, err := strconv.ParseUint(name[1:], 16, 32)
		if err != nil {
			return fallback
		}
		return tcell.NewHexColor(int32(v))
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}

func visualCol(line []rune, logicalCol int, tabWidth int) int {
	if tabWidth < 1 {
		tabWidth = 1
	}
	logicalCol = min(max(logicalCol, 0), len(line))
	col := 0
	for i := 0; i < logicalCol; i++ {
		if line[i] == '\t' {
			col += tabWidth - (col % tabWidth)
			continue
		}
		col++
	}
	return col
}

func parseLineNumberMode(value string) LineNumberMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "relative", "rel":
		return LineNumberRelative
	case "off", "none", "false":
		return LineNumberOff
	default:
		return LineNumberAbsolute
	}
}

func (e *Editor) toggleLineNumbers() {
	switch e.lineNumberMode {
	case LineNumberAbsolute:
		e.lineNumberMode = LineNumberRelative
		e.setStatus("line numbers relative")
	case LineNumberRelative:
		e.lineNumberMode = LineNumberOff
		e.setStatus("line numbers off")
	default:
		e.lineNumberMode = LineNumberAbsolute
		e.setStatus("line numbers absolute")
	}
}

func (e *Editor) gutterWidth() int {
	if e.lineNumberMode == LineNumberOff {
		return 0
	}
	digits := max(len(strconv.Itoa(len(e.lines))), 2)
	return 1 + digits + 1
}
