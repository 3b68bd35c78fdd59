package editor

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/cnvcode/internal/logger"
)

// dialog is a modal message box. onClose receives the chosen button index and
// reports whether the editor should quit.
type dialog struct {
	title    string
	message  string
	buttons  []string
	selected int
	prev     Mode
	onClose  func(button int) bool
}

func (e *Editor) showDialog(d *dialog) {
	d.prev = e.mode
	if d.prev == ModeDialog || d.prev == ModeMenu || d.prev == ModePrompt {
		d.prev = ModeEdit
	}
	e.dialog = d
	e.mode = ModeDialog
}

// confirm asks a Yes/No question.
func (e *Editor) confirm(title, message string, onAnswer func(yes bool) bool) {
	e.showDialog(&dialog{
		title:   title,
		message: message,
		buttons: []string{"Yes", "No"},
		onClose: func(button int) bool {
			return onAnswer(button == 0)
		},
	})
}

func (e *Editor) showWarning(title, message string) {
	logger.Warn("warning shown", "title", title, "message", message)
	e.showDialog(&dialog{title: title, message: message, buttons: []string{"OK"}})
}

func (e *Editor) showError(err error) {
	logger.Error("error shown", "error", err)
	e.showDialog(&dialog{title: "Error", message: err.Error(), buttons: []string{"OK"}})
}

// DialogTitle returns the title of the open dialog, or "".
func (e *Editor) DialogTitle() string {
	if e.mode != ModeDialog || e.dialog == nil {
		return ""
	}
	return e.dialog.title
}

func (e *Editor) handleDialog(ev *tcell.EventKey) bool {
	d := e.dialog
	if d == nil {
		e.mode = ModeEdit
		return false
	}
	last := len(d.buttons) - 1
	switch keyString(ev) {
	case "left", "shift+tab":
		d.selected = (d.selected + last) % len(d.buttons)
	case "right", "tab":
		d.selected = (d.selected + 1) % len(d.buttons)
	case "enter", "space":
		return e.closeDialog(d.selected)
	case "esc":
		return e.closeDialog(last)
	case "y", "Y":
		if len(d.buttons) == 2 {
			return e.closeDialog(0)
		}
	case "n", "N":
		if len(d.buttons) == 2 {
			return e.closeDialog(1)
		}
	}
	return false
}

func (e *Editor) closeDialog(button int) bool {
	d := e.dialog
	e.dialog = nil
	e.mode = d.prev
	if d.onClose == nil {
		return false
	}
	return d.onClose(button)
}

func (e *Editor) renderDialog(s tcell.Screen, w, h int) {
	d := e.dialog
	if d == nil || w < 10 || h < 5 {
		return
	}
	maxInner := w - 6
	lines := wrapText(d.message, maxInner-2)
	buttons := ""
	for _, b := range d.buttons {
		buttons += "[ " + b + " ] "
	}
	buttons = strings.TrimSpace(buttons)

	innerWidth := max(len([]rune(d.title))+2, len([]rune(buttons)))
	for _, line := range lines {
		innerWidth = max(innerWidth, len([]rune(line)))
	}
	innerWidth = min(innerWidth+2, maxInner)
	boxWidth := innerWidth + 2
	boxHeight := len(lines) + 5
	if boxHeight > h {
		boxHeight = h
		lines = lines[:max(boxHeight-5, 0)]
	}
	x0 := (w - boxWidth) / 2
	y0 := (h - boxHeight) / 2

	drawBox(s, x0, y0, boxWidth, boxHeight, e.styleDialogBorder)
	for y := 1; y < boxHeight-1; y++ {
		for x := 1; x < boxWidth-1; x++ {
			s.SetContent(x0+x, y0+y, ' ', nil, e.styleDialog)
		}
	}
	drawText(s, x0+2, y0, x0+boxWidth-1, " "+d.title+" ", e.styleDialogBorder.Bold(true))
	for i, line := range lines {
		drawText(s, x0+2, y0+2+i, x0+boxWidth-1, line, e.styleDialog)
	}

	// Buttons centered on the row above the bottom border
	by := y0 + boxHeight - 2
	bx := x0 + (boxWidth-len([]rune(buttons)))/2
	for i, b := range d.buttons {
		label := "[ " + b + " ]"
		style := e.styleDialog
		if i == d.selected {
			style = e.styleMenuSelected
		}
		drawText(s, bx, by, x0+boxWidth-1, label, style)
		bx += len([]rune(label)) + 1
	}
}

// wrapText splits text into lines no wider than width, breaking at spaces.
func wrapText(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			for len([]rune(word)) > width {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				r := []rune(word)
				out = append(out, string(r[:width]))
				word = string(r[width:])
			}
			switch {
			case line == "":
				line = word
			case len([]rune(line))+1+len([]rune(word)) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		out = append(out, line)
	}
	return out
}
