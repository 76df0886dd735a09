package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/histctl/internal/engine/history"
)

var (
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleEnabled  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleDisabled = tcell.StyleDefault.Dim(true)
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

const helpText = "+/- change value  u undo  r redo  c clear  q quit"

// draw renders the whole screen.
func (app *Application) draw() {
	s := app.screen
	s.Clear()
	width, height := s.Size()

	app.drawText(0, 0, width, styleTitle, "histctl counter demo")
	app.drawText(0, 2, width, tcell.StyleDefault, fmt.Sprintf("Value: %d", app.value))

	if c := counterOf(app.history); c != nil {
		app.drawText(0, 3, width, tcell.StyleDefault,
			fmt.Sprintf("Undo: %d  Redo: %d", c.UndoCount(), c.RedoCount()))
	}

	for i, cmd := range app.gateway.Commands() {
		state, style := "disabled", styleDisabled
		if app.enabled[cmd.ID] {
			state, style = "enabled", styleEnabled
		}
		line := fmt.Sprintf("[%s] %-14s %s", cmd.Keybinding, cmd.Title, state)
		app.drawText(0, 5+i, width, style, line)
	}

	if height >= 2 {
		app.drawText(0, height-2, width, styleDisabled, helpText)
	}
	if height >= 1 {
		status := fmt.Sprintf(" %-*s", max(width-1, 0), app.status)
		app.drawText(0, height-1, width, styleStatus, status)
	}

	s.Show()
}

// drawText writes text from (x, y), clipped at width.
func (app *Application) drawText(x, y, width int, style tcell.Style, text string) {
	for _, r := range text {
		if x >= width {
			return
		}
		app.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// counterOf finds a Counter in h or the histories it decorates.
func counterOf(h history.History) history.Counter {
	for h != nil {
		if c, ok := h.(history.Counter); ok {
			return c
		}
		u, ok := h.(interface{ Unwrap() history.History })
		if !ok {
			return nil
		}
		h = u.Unwrap()
	}
	return nil
}
