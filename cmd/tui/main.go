package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"fintrack/cmd/tui/internal/view"
	"fintrack/internal/api"
	"fintrack/internal/config"
)

type model struct {
	client *api.Client

	currentView View

	trackerView view.TrackerModel
	chartView   view.ChartModel
	importView  view.ImportModel
}

type View int

const (
	ViewMenu    View = 0
	ViewTracker View = 1
	ViewChart   View = 2
	ViewImport  View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	client := api.New(cfg.API.BaseURL)

	return model{
		client:      client,
		currentView: ViewMenu,
		trackerView: view.NewTrackerModel(client),
		chartView:   view.NewChartModel(client),
		importView:  view.NewImportModel(client),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewTracker
				m.trackerView = view.NewTrackerModel(m.client)

				return m, m.trackerView.Init()
			case "2":
				m.currentView = ViewChart
				m.chartView = view.NewChartModel(m.client)

				return m, m.chartView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.client)

				return m, m.importView.Init()
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewTracker:
		var updated tea.Model
		updated, cmd = m.trackerView.Update(msg)
		m.trackerView = updated.(view.TrackerModel)
	case ViewChart:
		var updated tea.Model
		updated, cmd = m.chartView.Update(msg)
		m.chartView = updated.(view.ChartModel)
	case ViewImport:
		var updated tea.Model
		updated, cmd = m.importView.Update(msg)
		m.importView = updated.(view.ImportModel)
	}

	return m, cmd
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

func (m model) View() string {
	switch m.currentView {
	case ViewTracker:
		return m.viewWithChrome(m.trackerView)
	case ViewChart:
		return m.viewWithChrome(m.chartView)
	case ViewImport:
		return m.viewWithChrome(m.importView)
	}

	menu := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Fintrack"),
		"",
		"1. Transactions",
		"2. Monthly Chart",
		"3. Import CSV",
		"",
		helpStyle.Render("q: quit"),
	)

	return lipgloss.NewStyle().Padding(1, 2).Render(menu)
}

func (m model) viewWithChrome(v view.View) string {
	header := titleStyle.Render(v.Title())
	footer := helpStyle.Render(v.ShortHelp())

	return fmt.Sprintf("%s\n%s\n%s", header, v.View(), footer)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("tui crashed", "error", err)
		os.Exit(1)
	}
}
