package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleSpinner = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
)

// statusKind selects the mark and colour of a status line printed by the
// cache subcommands.
type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusInfo
	statusDetail
)

var statusMarks = map[statusKind]struct {
	mark  string
	style lipgloss.Style
}{
	statusOK:   {"✓", lipgloss.NewStyle().Foreground(lipgloss.Color("35"))},
	statusWarn: {"!", lipgloss.NewStyle().Foreground(lipgloss.Color("220"))},
	statusInfo: {"›", lipgloss.NewStyle().Foreground(lipgloss.Color("245"))},
}

// printStatus writes one status line to w. Detail lines are indented and
// muted instead of marked.
func printStatus(w io.Writer, kind statusKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if kind == statusDetail {
		fmt.Fprintln(w, "  "+styleMuted.Render(msg))
		return
	}
	m := statusMarks[kind]
	if kind == statusWarn {
		msg = m.style.Render(msg)
	}
	fmt.Fprintln(w, m.style.Render(m.mark)+" "+msg)
}
