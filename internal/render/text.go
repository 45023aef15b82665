package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan = lipgloss.Color("36")
	colorGray = lipgloss.Color("245")
	colorRed  = lipgloss.Color("167")

	styleBox   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorGray).Padding(0, 1)
	styleName  = lipgloss.NewStyle().Bold(true)
	styleType  = lipgloss.NewStyle().Foreground(colorGray)
	styleArrow = lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
	styleEmpty = lipgloss.NewStyle().Italic(true).Foreground(colorGray)
	styleError = lipgloss.NewStyle().Italic(true).Foreground(colorRed)
)

// Text draws view for a terminal.
func Text(w io.Writer, view View) error {
	_, err := fmt.Fprintln(w, textBlock(view))
	return err
}

func textBlock(view View) string {
	switch view.State {
	case StateEmpty:
		return styleEmpty.Render(view.Message)
	case StateFailed:
		return styleError.Render(view.Message)
	}

	parts := make([]string, 0, 2*len(view.Row.Boxes))
	for i, box := range view.Row.Boxes {
		if i > 0 {
			parts = append(parts, styleArrow.Render(view.Row.Separator))
		}
		body := lipgloss.JoinVertical(lipgloss.Center, styleName.Render(box.Name), styleType.Render(box.Type))
		parts = append(parts, styleBox.Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
