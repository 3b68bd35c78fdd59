package editor

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// setOutput replaces the output pane contents and scrolls to the top. The
// text is kept as given; only the pane drops the final empty line.
func (e *Editor) setOutput(text string) {
	e.outputText = text
	e.output = nil
	if text != "" {
		e.output = strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	}
	e.outputScroll = 0
}

// Output returns the output log of the last run.
func (e *Editor) Output() string {
	return e.outputText
}

func (e *Editor) toggleFocus() {
	if e.mode == ModeOutput {
		e.mode = ModeEdit
		return
	}
	e.mode = ModeOutput
}

// handleOutput scrolls the read-only output pane. Global shortcuts still work.
func (e *Editor) handleOutput(ev *tcell.EventKey) bool {
	key := keyString(ev)
	page := max(e.outputRows, 1)
	switch key {
	case "esc":
		e.mode = ModeEdit
		return false
	case "up":
		e.scrollOutput(-1)
		return false
	case "down":
		e.scrollOutput(1)
		return false
	case "pgup":
		e.scrollOutput(-page)
		return false
	case "pgdn":
		e.scrollOutput(page)
		return false
	case "home", "ctrl+home":
		e.outputScroll = 0
		return false
	case "end", "ctrl+end":
		e.scrollOutput(len(e.output))
		return false
	}
	if action, ok := e.keymap[key]; ok && globalActions[action] {
		quit := e.execAction(action)
		e.rehighlight()
		return quit
	}
	return false
}

func (e *Editor) scrollOutput(delta int) {
	maxScroll := max(len(e.output)-max(e.outputRows, 1), 0)
	e.outputScroll = min(max(e.outputScroll+delta, 0), maxScroll)
}

// outputPaneHeight returns the rows given to the output pane, title included,
// for a screen of height h.
func (e *Editor) outputPaneHeight(h int) int {
	// menu bar, status line, command line and at least one text row
	available := h - 4
	if available < 2 {
		return 0
	}
	return min(e.outputHeight+1, available/2+1)
}

func (e *Editor) renderOutput(s tcell.Screen, w, y, height int) {
	if height <= 0 {
		e.outputRows = 0
		return
	}
	title := " Output "
	if e.mode == ModeOutput {
		title = " Output (focused, Esc to return) "
	}
	clearLine(s, y, w, e.styleOutputTitle)
	drawText(s, 0, y, w, title, e.styleOutputTitle)

	rows := height - 1
	e.outputRows = rows
	e.scrollOutput(0)
	for i := 0; i < rows; i++ {
		row := y + 1 + i
		clearLine(s, row, w, e.styleOutput)
		idx := e.outputScroll + i
		if idx >= len(e.output) {
			continue
		}
		x := 0
		col := 0
		for _, r := range e.output[idx] {
			if x >= w {
				break
			}
			if r == '\t' {
				spaces := e.tabWidth - (col % e.tabWidth)
				x += spaces
				col += spaces
				continue
			}
			s.SetContent(x, row, printable(r), nil, e.styleOutput)
			x++
			col++
		}
	}
}
