package view

import "github.com/gdamore/tcell/v2"

// Style holds viewer colors
type Style struct {
	Canvas     tcell.Color
	BarFg      tcell.Color
	BarBg      tcell.Color
	KeyFg      tcell.Color
	FocusFg    tcell.Color
	FocusBg    tcell.Color
	DisabledFg tcell.Color
	DisabledBg tcell.Color
}

// DefaultStyle returns viewer colors on a dark status bar
func DefaultStyle() Style {
	return Style{
		Canvas:     tcell.NewRGBColor(0, 0, 0),
		BarFg:      tcell.NewRGBColor(200, 200, 200),
		BarBg:      tcell.NewRGBColor(25, 25, 35),
		KeyFg:      tcell.NewRGBColor(130, 130, 150),
		FocusFg:    tcell.NewRGBColor(255, 255, 255),
		FocusBg:    tcell.NewRGBColor(60, 80, 120),
		DisabledFg: tcell.NewRGBColor(130, 130, 150),
		DisabledBg: tcell.NewRGBColor(50, 50, 60),
	}
}
