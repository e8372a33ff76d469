package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
)

var keywordColor = func() lipgloss.TerminalColor {
	if termenv.HasDarkBackground() {
		return lipgloss.Color("#AFBEE1")
	}
	return lipgloss.Color("#04B575")
}()

var (
	keywordStyle   = lipgloss.NewStyle().Foreground(keywordColor).Bold(true)
	paragraphStyle = lipgloss.NewStyle().Margin(1, 0, 0, 2)
)

// keyword highlights a word in help text.
func keyword(s string) string {
	return keywordStyle.Render(s)
}

// paragraph wraps and indents a block of help text.
func paragraph(s string) string {
	return paragraphStyle.Render(wordwrap.String(s, 78))
}
