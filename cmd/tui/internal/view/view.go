package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

const apiTimeout = 30 * time.Second

// apiCtx returns a context with the standard timeout for API calls.
func apiCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), apiTimeout)
}

// statusTTL is how long a success message stays on screen before the tick
// command clears it. Error messages persist until dismissed or superseded.
const statusTTL = 3 * time.Second

type clearStatusMsg struct{}

func clearStatusCmd() tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
