package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fintrack/internal/api"
	"fintrack/internal/transaction"
)

const chartBarWidth = 40

var (
	incomeBar  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	expenseBar = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	netBar     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	faint      = lipgloss.NewStyle().Faint(true)
)

// ChartModel renders the monthly income/expenses/net overview as horizontal
// bars, one group per calendar month.
type ChartModel struct {
	client *api.Client

	buckets []transaction.MonthBucket
	loading bool
	err     error
}

func NewChartModel(client *api.Client) ChartModel {
	return ChartModel{client: client, loading: true}
}

func (m ChartModel) Title() string     { return "Monthly Overview" }
func (m ChartModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m ChartModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ChartModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case chartLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.buckets = msg.buckets

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m ChartModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading chart...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if len(m.buckets) == 0 {
		return lipgloss.NewStyle().Padding(2).Render(
			"No data to display\n" + faint.Render("Add some transactions to see your monthly overview."))
	}

	scale := chartScale(m.buckets)

	var b strings.Builder

	for i, bucket := range m.buckets {
		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString(lipgloss.NewStyle().Bold(true).Render(bucket.Label()))
		b.WriteString("\n")
		b.WriteString(chartRow("income", bucket.Income, scale, incomeBar))
		b.WriteString(chartRow("expenses", bucket.Expenses, scale, expenseBar))
		b.WriteString(chartRow("net", bucket.Net, scale, netBar))
	}

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

// chartScale returns the largest magnitude across all buckets so every bar
// shares one scale. Zero means nothing to draw.
func chartScale(buckets []transaction.MonthBucket) float64 {
	var maxVal float64

	for _, b := range buckets {
		for _, v := range []float64{b.Income, b.Expenses, b.Net} {
			if v < 0 {
				v = -v
			}

			if v > maxVal {
				maxVal = v
			}
		}
	}

	return maxVal
}

func chartRow(label string, value, scale float64, style lipgloss.Style) string {
	width := 0

	if scale > 0 {
		mag := value
		if mag < 0 {
			mag = -mag
		}

		width = int(mag / scale * chartBarWidth)
	}

	bar := style.Render(strings.Repeat("█", width))

	return fmt.Sprintf("  %-9s %s %s\n", label, bar, faint.Render(FormatSigned(value)))
}

type chartLoadedMsg struct {
	buckets []transaction.MonthBucket
	err     error
}

func (m ChartModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		txs, err := m.client.List(ctx)
		if err != nil {
			return chartLoadedMsg{err: err}
		}

		return chartLoadedMsg{buckets: transaction.MonthlySummary(txs)}
	}
}
