package editor

import (
	"github.com/gdamore/tcell/v2"
)

type menuItem struct {
	Label  string
	Action string
}

type menu struct {
	Title string
	Items []menuItem
}

var menus = []menu{
	{Title: "File", Items: []menuItem{
		{Label: "New", Action: actionNew},
		{Label: "Open", Action: actionOpen},
		{Label: "Save", Action: actionSave},
		{Label: "Save As", Action: actionSaveAs},
		{Label: "Exit", Action: actionExit},
	}},
	{Title: "Run", Items: []menuItem{
		{Label: "Run Code", Action: actionRun},
	}},
}

type menuState struct {
	index int
	item  int
	prev  Mode
}

func (e *Editor) openMenu(index int) {
	prev := e.mode
	if prev == ModeMenu {
		prev = e.menu.prev
	}
	e.menu = menuState{index: index, prev: prev}
	e.mode = ModeMenu
}

func (e *Editor) closeMenu() {
	e.mode = e.menu.prev
}

func (e *Editor) handleMenu(ev *tcell.EventKey) bool {
	key := keyString(ev)
	if action := e.keymap[key]; action == actionMenu {
		e.closeMenu()
		return false
	}
	current := menus[e.menu.index]
	switch key {
	case "esc":
		e.closeMenu()
	case "left":
		e.menu.index = (e.menu.index + len(menus) - 1) % len(menus)
		e.menu.item = 0
	case "right", "tab":
		e.menu.index = (e.menu.index + 1) % len(menus)
		e.menu.item = 0
	case "up":
		e.menu.item = (e.menu.item + len(current.Items) - 1) % len(current.Items)
	case "down":
		e.menu.item = (e.menu.item + 1) % len(current.Items)
	case "enter", "space":
		item := current.Items[e.menu.item]
		e.closeMenu()
		quit := e.execAction(item.Action)
		e.rehighlight()
		return quit
	default:
		if action, ok := e.keymap[key]; ok {
			switch action {
			case actionMenuFile:
				e.menu.index, e.menu.item = 0, 0
			case actionMenuRun:
				e.menu.index, e.menu.item = 1, 0
			}
		}
	}
	return false
}

// menuTitleX returns the column where the title of menu i starts in the bar.
func menuTitleX(i int) int {
	x := 1
	for j := 0; j < i; j++ {
		x += len([]rune(menus[j].Title)) + 2
	}
	return x
}

func (e *Editor) renderMenuBar(s tcell.Screen, w int) {
	clearLine(s, 0, w, e.styleMenu)
	for i, m := range menus {
		style := e.styleMenu
		if e.mode == ModeMenu && e.menu.index == i {
			style = e.styleMenuSelected
		}
		x := menuTitleX(i)
		drawText(s, x-1, 0, w, " "+m.Title+" ", style)
	}
	if e.session == nil {
		return
	}
	title := []rune(e.session.Title())
	x := w - len(title) - 1
	if minX := menuTitleX(len(menus)); x < minX {
		return
	}
	drawText(s, x, 0, w, string(title), e.styleMenu)
}

func (e *Editor) renderMenuDropdown(s tcell.Screen, w, h int) {
	m := menus[e.menu.index]
	labelWidth := 0
	hintWidth := 0
	for _, item := range m.Items {
		labelWidth = max(labelWidth, len([]rune(item.Label)))
		hintWidth = max(hintWidth, len([]rune(hintFor(e.keymap, item.Action))))
	}
	innerWidth := labelWidth + 2
	if hintWidth > 0 {
		innerWidth += hintWidth + 3
	}
	boxWidth := innerWidth + 2
	boxHeight := len(m.Items) + 2
	x0 := menuTitleX(e.menu.index) - 1
	if x0+boxWidth > w {
		x0 = max(w-boxWidth, 0)
	}
	y0 := 1
	if y0+boxHeight > h {
		return
	}

	drawBox(s, x0, y0, boxWidth, boxHeight, e.styleMenu)
	for i, item := range m.Items {
		style := e.styleMenu
		if i == e.menu.item {
			style = e.styleMenuSelected
		}
		y := y0 + 1 + i
		for x := 1; x < boxWidth-1; x++ {
			s.SetContent(x0+x, y, ' ', nil, style)
		}
		drawText(s, x0+2, y, x0+boxWidth-1, item.Label, style)
		if hint := hintFor(e.keymap, item.Action); hint != "" {
			drawText(s, x0+boxWidth-2-len([]rune(hint)), y, x0+boxWidth-1, hint, style)
		}
	}
}
