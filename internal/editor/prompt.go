package editor

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// promptState is the command-line input used for file paths.
type promptState struct {
	label    string
	input    []rune
	cursor   int
	prev     Mode
	onSubmit func(value string) bool
}

func (e *Editor) startPrompt(label, initial string, onSubmit func(string) bool) {
	prev := e.mode
	if prev == ModePrompt || prev == ModeMenu || prev == ModeDialog {
		prev = ModeEdit
	}
	input := []rune(initial)
	e.prompt = promptState{
		label:    label,
		input:    input,
		cursor:   len(input),
		prev:     prev,
		onSubmit: onSubmit,
	}
	e.mode = ModePrompt
}

func (e *Editor) handlePrompt(ev *tcell.EventKey) bool {
	p := &e.prompt
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		e.mode = p.prev
		p.input = p.input[:0]
		p.cursor = 0
		e.setStatus("cancelled")
		return false
	case tcell.KeyEnter:
		value := strings.TrimSpace(string(p.input))
		submit := p.onSubmit
		e.mode = p.prev
		p.input = p.input[:0]
		p.cursor = 0
		p.onSubmit = nil
		if value == "" || submit == nil {
			e.setStatus("cancelled")
			return false
		}
		return submit(value)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if p.cursor > 0 {
			p.input = append(p.input[:p.cursor-1], p.input[p.cursor:]...)
			p.cursor--
		}
	case tcell.KeyDelete:
		if p.cursor < len(p.input) {
			p.input = append(p.input[:p.cursor], p.input[p.cursor+1:]...)
		}
	case tcell.KeyLeft, tcell.KeyCtrlB:
		if p.cursor > 0 {
			p.cursor--
		}
	case tcell.KeyRight, tcell.KeyCtrlF:
		if p.cursor < len(p.input) {
			p.cursor++
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		p.cursor = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		p.cursor = len(p.input)
	case tcell.KeyCtrlU:
		p.input = p.input[:0]
		p.cursor = 0
	case tcell.KeyCtrlK:
		p.input = p.input[:p.cursor]
	case tcell.KeyCtrlW:
		if p.cursor > 0 {
			// Path separators end a word too
			i := p.cursor - 1
			for i > 0 && (p.input[i-1] == ' ' || p.input[i-1] == '/') {
				i--
			}
			for i > 0 && p.input[i-1] != ' ' && p.input[i-1] != '/' {
				i--
			}
			p.input = append(p.input[:i], p.input[p.cursor:]...)
			p.cursor = i
		}
	case tcell.KeyRune:
		p.input = append(p.input[:p.cursor], append([]rune{ev.Rune()}, p.input[p.cursor:]...)...)
		p.cursor++
	}
	return false
}

// renderCommandline draws the prompt or the key hints and returns the cursor x.
func (e *Editor) renderCommandline(s tcell.Screen, w, y int) int {
	clearLine(s, y, w, e.styleCommand)
	if e.mode != ModePrompt {
		hints := " " + hintFor(e.keymap, actionMenu) + " menu  " +
			hintFor(e.keymap, actionRun) + " run  " +
			hintFor(e.keymap, actionToggleFocus) + " output  " +
			hintFor(e.keymap, actionExit) + " exit "
		drawText(s, max(w-len([]rune(hints)), 0), y, w, hints, e.styleCommand)
		return 0
	}

	label := []rune(e.prompt.label)
	input := e.prompt.input
	cursorX := len(label) + e.prompt.cursor
	available := w - len(label)
	// Scroll long input so the cursor stays visible
	start := 0
	if available > 0 && e.prompt.cursor >= available {
		start = e.prompt.cursor - available + 1
		cursorX = len(label) + available - 1
	}
	drawText(s, 0, y, w, string(label), e.styleCommand)
	if start < len(input) {
		drawText(s, len(label), y, w, string(input[start:]), e.styleCommand)
	}
	return min(cursorX, w-1)
}
