package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorOK   = lipgloss.Color("#2CD7C7")
	colorFail = lipgloss.Color("#E74C3C")
)

// textStyles renders text output for one writer. Colors and emphasis are
// dropped when the writer is not a terminal.
type textStyles struct {
	Title lipgloss.Style
	Muted lipgloss.Style
	OK    lipgloss.Style
	Fail  lipgloss.Style
}

func stylesFor(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		Title: r.NewStyle().Bold(true),
		Muted: r.NewStyle().Faint(true),
		OK:    r.NewStyle().Foreground(colorOK),
		Fail:  r.NewStyle().Foreground(colorFail),
	}
}

// mark renders a pass/fail marker.
func (s textStyles) mark(pass bool) string {
	if pass {
		return s.OK.Render("✓")
	}
	return s.Fail.Render("✗")
}

// writeTable prints rows under headers with a normal border.
func writeTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
