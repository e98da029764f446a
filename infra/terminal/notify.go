package terminal

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/kilianp07/fleetboard/core/board"
)

var (
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorInfo    = lipgloss.Color("#20B9B4")
	colorWarning = lipgloss.Color("#F4D03F")
	colorError   = lipgloss.Color("#E74C3C")
)

var icons = map[board.Severity]string{
	board.SeverityInfo:    "•",
	board.SeveritySuccess: "✓",
	board.SeverityWarning: "⚠",
	board.SeverityError:   "✗",
}

// Notifier prints one styled line per notification. Colors are dropped when
// the writer is not a terminal.
type Notifier struct {
	mu     sync.Mutex
	out    io.Writer
	styles map[board.Severity]lipgloss.Style
}

// NewNotifier returns a notifier writing to out.
func NewNotifier(out io.Writer) *Notifier {
	r := lipgloss.NewRenderer(out)
	return &Notifier{
		out: out,
		styles: map[board.Severity]lipgloss.Style{
			board.SeverityInfo:    r.NewStyle().Foreground(colorInfo),
			board.SeveritySuccess: r.NewStyle().Foreground(colorSuccess),
			board.SeverityWarning: r.NewStyle().Foreground(colorWarning).Bold(true),
			board.SeverityError:   r.NewStyle().Foreground(colorError).Bold(true),
		},
	}
}

// Notify writes message. Unknown severities print as info.
func (n *Notifier) Notify(message string, severity board.Severity) {
	style, ok := n.styles[severity]
	if !ok {
		severity = board.SeverityInfo
		style = n.styles[severity]
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintln(n.out, style.Render(icons[severity]+" "+message))
}
