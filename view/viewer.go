// Package view draws the drawing surface into a tcell screen.
//
// Each terminal cell covers two vertically stacked surface cells: the upper
// half-block glyph takes the top cell as foreground and the bottom cell as
// background. The last screen row is the status bar.
package view

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/pixel-play/canvas"
	"github.com/lixenwraith/pixel-play/constants"
	"github.com/lixenwraith/pixel-play/control"
	"github.com/lixenwraith/pixel-play/engine"
	"github.com/lixenwraith/pixel-play/palette"
)

const upperHalfBlock = '▀'

// Action is what a key press asks the host loop to do
type Action uint8

const (
	ActionNone Action = iota
	ActionQuit
	ActionStart
	ActionInward
	ActionSnapshot
)

// Viewer renders a surface and the trigger state
type Viewer struct {
	screen  tcell.Screen
	surface *canvas.Surface
	trigger *control.Trigger
	status  func() engine.Status

	panX, panY int
	message    string
	style      Style
}

// New creates a viewer centered on the surface origin
func New(screen tcell.Screen, surface *canvas.Surface, trigger *control.Trigger, status func() engine.Status) *Viewer {
	return &Viewer{
		screen:  screen,
		surface: surface,
		trigger: trigger,
		status:  status,
		style:   DefaultStyle(),
	}
}

// SetMessage shows msg in the status bar until replaced
func (v *Viewer) SetMessage(msg string) {
	v.message = msg
}

// Pan moves the viewport by (dx, dy) surface cells; positive dy moves the view down
func (v *Viewer) Pan(dx, dy int) {
	v.panX += dx
	v.panY += dy
}

// Recenter puts the surface origin back in the middle of the screen
func (v *Viewer) Recenter() {
	v.panX, v.panY = 0, 0
}

// Viewport returns the raster origin of the top-left screen cell and the drawable size in screen cells
func (v *Viewer) Viewport() (left, top, cols, rows int) {
	cols, h := v.screen.Size()
	rows = max(h-constants.StatusBarHeight, 0)
	sw, sh := v.surface.Size()
	left = sw/2 - cols/2 + v.panX
	top = sh/2 - 2*(rows/2) + v.panY
	return left, top, cols, rows
}

// Draw renders the surface and status bar, then shows the screen
func (v *Viewer) Draw() {
	left, top, cols, rows := v.Viewport()
	sw, sh := v.surface.Size()

	for row := range rows {
		upper := top + 2*row
		lower := upper + 1
		for col := range cols {
			px := left + col
			if px < 0 || px >= sw || lower < 0 || upper >= sh {
				v.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
				continue
			}

			topColor, topOK := v.surface.AtScreen(px, upper)
			botColor, botOK := v.surface.AtScreen(px, lower)
			if !topOK && !botOK {
				v.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault.Background(v.style.Canvas))
				continue
			}

			fg, bg := v.style.Canvas, v.style.Canvas
			if topOK {
				fg = cellColor(topColor)
			}
			if botOK {
				bg = cellColor(botColor)
			}
			v.screen.SetContent(col, row, upperHalfBlock, nil, tcell.StyleDefault.Foreground(fg).Background(bg))
		}
	}

	v.drawStatusBar(rows, cols)
	v.screen.Show()
}

func (v *Viewer) drawStatusBar(y, width int) {
	bar := tcell.StyleDefault.Foreground(v.style.BarFg).Background(v.style.BarBg)
	for x := range width {
		v.screen.SetContent(x, y, ' ', nil, bar)
	}

	label := " Running "
	button := tcell.StyleDefault.Foreground(v.style.DisabledFg).Background(v.style.DisabledBg)
	if v.trigger.Enabled() {
		label = " " + v.trigger.Label + " "
		button = tcell.StyleDefault.Foreground(v.style.FocusFg).Background(v.style.FocusBg)
	}

	x := v.drawText(0, y, width, "["+label+"]", button)
	if v.trigger.Enabled() && v.trigger.Key != "" {
		x = v.drawText(x+1, y, width, v.trigger.Key, tcell.StyleDefault.Foreground(v.style.KeyFg).Background(v.style.BarBg))
	}

	st := v.status()
	info := fmt.Sprintf(" %s | iter %d/%d | pixels %d | frontier %d | restarts %d",
		st.Phase, st.TotalIterations, st.MaxIterations, st.Pixels, st.Frontier, st.Restarts)
	if st.Phase == engine.PhaseIdle && st.LastStop != engine.StopNone {
		info += " | " + st.LastStop.String()
	}
	x = v.drawText(x, y, width, info, bar)

	if v.message != "" {
		x = v.drawText(x, y, width, " | "+v.message, bar)
	}

	hint := "i inward  p snapshot  arrows pan  q quit "
	if width-x > len(hint)+1 {
		v.drawText(width-len(hint), y, width, hint, tcell.StyleDefault.Foreground(v.style.KeyFg).Background(v.style.BarBg))
	}
}

// drawText writes s from x, clipped to width, and returns the column after the last rune
func (v *Viewer) drawText(x, y, width int, s string, style tcell.Style) int {
	for _, r := range s {
		if x >= width {
			break
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

// HandleKey maps a key event to a host action; panning is applied directly
func (v *Viewer) HandleKey(ev *tcell.EventKey) Action {
	step := constants.PanStep
	if ev.Modifiers()&tcell.ModShift != 0 {
		step = constants.PanStepFast
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyEnter:
		return ActionStart
	case tcell.KeyUp:
		v.Pan(0, -step)
	case tcell.KeyDown:
		v.Pan(0, step)
	case tcell.KeyLeft:
		v.Pan(-step, 0)
	case tcell.KeyRight:
		v.Pan(step, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ', 's', 'S':
			return ActionStart
		case 'i', 'I':
			return ActionInward
		case 'p', 'P':
			return ActionSnapshot
		case 'c', 'C':
			v.Recenter()
		case 'q', 'Q':
			return ActionQuit
		}
	}
	return ActionNone
}

func cellColor(c palette.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
