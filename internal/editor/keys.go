package editor

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

const (
	actionNew               = "new"
	actionOpen              = "open"
	actionSave              = "save"
	actionSaveAs            = "save_as"
	actionExit              = "exit"
	actionRun               = "run"
	actionMenu              = "menu"
	actionMenuFile          = "menu_file"
	actionMenuRun           = "menu_run"
	actionToggleFocus       = "toggle_focus"
	actionToggleLineNumbers = "toggle_line_numbers"
	actionMoveLeft          = "move_left"
	actionMoveRight         = "move_right"
	actionMoveUp            = "move_up"
	actionMoveDown          = "move_down"
	actionLineStart         = "line_start"
	actionLineEnd           = "line_end"
	actionFileStart         = "file_start"
	actionFileEnd           = "file_end"
	actionPageUp            = "page_up"
	actionPageDown          = "page_down"
	actionBackspace         = "backspace"
	actionDeleteChar        = "delete_char"
	actionNewline           = "newline"
	actionInsertTab         = "insert_tab"
)

// globalActions work regardless of which pane has focus.
var globalActions = map[string]bool{
	actionNew:               true,
	actionOpen:              true,
	actionSave:              true,
	actionSaveAs:            true,
	actionExit:              true,
	actionRun:               true,
	actionMenu:              true,
	actionMenuFile:          true,
	actionMenuRun:           true,
	actionToggleFocus:       true,
	actionToggleLineNumbers: true,
}

func keyString(ev *tcell.EventKey) string {
	mod := ev.Modifiers()
	if mod&tcell.ModAlt != 0 && ev.Key() == tcell.KeyRune {
		return "alt+" + strings.ToLower(string(ev.Rune()))
	}
	if mod&tcell.ModCtrl != 0 {
		switch ev.Key() {
		case tcell.KeyHome:
			return "ctrl+home"
		case tcell.KeyEnd:
			return "ctrl+end"
		case tcell.KeyRune:
			return "ctrl+" + strings.ToLower(string(ev.Rune()))
		}
	}
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if r == ' ' {
			return "space"
		}
		return string(r)
	}
	// These share codes with ctrl+i, ctrl+m, ctrl+h and ctrl+[
	switch ev.Key() {
	case tcell.KeyTab:
		if mod&tcell.ModShift != 0 {
			return "shift+tab"
		}
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyEscape:
		return "esc"
	}
	if name := ctrlKeyName(ev.Key()); name != "" {
		return name
	}
	if ev.Key() >= tcell.KeyF1 && ev.Key() <= tcell.KeyF12 {
		return fmt.Sprintf("f%d", int(ev.Key()-tcell.KeyF1)+1)
	}
	switch ev.Key() {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyDelete:
		return "del"
	}
	return ""
}

func ctrlKeyName(key tcell.Key) string {
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+int(key-tcell.KeyCtrlA)))
	}
	return ""
}

// isPlainRune reports whether ev is text to insert rather than a shortcut.
func isPlainRune(ev *tcell.EventKey) bool {
	if ev.Key() != tcell.KeyRune {
		return false
	}
	if ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl|tcell.ModMeta) != 0 {
		return false
	}
	return unicode.IsPrint(ev.Rune()) || ev.Rune() == '\t'
}

// hintFor returns the display form of the first key bound to action, or "".
func hintFor(keymap map[string]string, action string) string {
	var keys []string
	for k, v := range keymap {
		if v == action {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	// Prefer function keys, then the shortest binding
	sort.Slice(keys, func(i, j int) bool {
		fi, fj := isFunctionKey(keys[i]), isFunctionKey(keys[j])
		if fi != fj {
			return fi
		}
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return displayKey(keys[0])
}

func isFunctionKey(key string) bool {
	return len(key) >= 2 && key[0] == 'f' && key[1] >= '0' && key[1] <= '9'
}

func displayKey(key string) string {
	parts := strings.Split(key, "+")
	for i, p := range parts {
		switch {
		case len(p) == 1:
			parts[i] = strings.ToUpper(p)
		case isFunctionKey(p):
			parts[i] = strings.ToUpper(p)
		default:
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "+")
}
