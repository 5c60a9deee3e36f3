package tui

import "github.com/gdamore/tcell/v2"

// Styles is the fixed palette the panes are drawn with.
type Styles struct {
	Default       tcell.Style
	LineNumber    tcell.Style
	Selection     tcell.Style
	Title         tcell.Style
	TitleFocused  tcell.Style
	Separator     tcell.Style
	CurrentLineNo tcell.Style
}

// DefaultStyles returns a dark palette that works on 16-color terminals.
func DefaultStyles() Styles {
	base := tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack)
	lineNo := base.Foreground(tcell.ColorGray)
	return Styles{
		Default:       base,
		LineNumber:    lineNo,
		CurrentLineNo: lineNo.Foreground(tcell.ColorYellow).Bold(true),
		Selection:     base.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite),
		Title:         base.Background(tcell.ColorGray).Foreground(tcell.ColorBlack),
		TitleFocused:  base.Background(tcell.ColorTeal).Foreground(tcell.ColorBlack).Bold(true),
		Separator:     lineNo,
	}
}
