package view

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"fintrack/internal/api"
	"fintrack/internal/importer"
	"fintrack/internal/transaction"
)

type importState int

const (
	importStatePath importState = iota
	importStatePreview
	importStateUploading
	importStateDone
)

// ImportModel walks a CSV statement through parse, preview and upload. Each
// parsed row goes through the same create endpoint the form uses, so server
// normalization and validation apply to imported rows too.
type ImportModel struct {
	client *api.Client
	parser *importer.Parser

	state  importState
	form   *huh.Form
	params []transaction.CreateParams

	filePath  string
	confirmed bool

	created int
	failed  []string
	err     error
}

func NewImportModel(client *api.Client) ImportModel {
	m := ImportModel{
		client: client,
		parser: importer.NewParser(),
	}
	m.form = m.pathForm()

	return m
}

func (m ImportModel) Title() string { return "Import CSV" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStatePreview:
		return "Confirm import | Esc: back"
	case importStateDone:
		return "Esc: back"
	}

	return "Enter: continue | Esc: back"
}

func (m *ImportModel) pathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("CSV file path").
				Placeholder("statement.csv").
				Value(&m.filePath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m *ImportModel) confirmForm() *huh.Form {
	m.confirmed = false

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Import %d transactions?", len(m.params))).
				Affirmative("Import").
				Negative("Cancel").
				Value(&m.confirmed),
		),
	).WithShowHelp(false)
}

func (m ImportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case csvParsedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = importStatePath
			m.filePath = m.form.GetString("path")
			m.form = m.pathForm()

			return m, m.form.Init()
		}

		m.err = nil
		m.params = msg.params
		m.state = importStatePreview
		m.form = m.confirmForm()

		return m, m.form.Init()

	case importDoneMsg:
		m.state = importStateDone
		m.created = msg.created
		m.failed = msg.failed

		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		if m.state != importStateUploading {
			return m, Back
		}

		return m, nil
	}

	switch m.state {
	case importStatePath, importStatePreview:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m ImportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == importStatePath {
		return m, m.parseCmd()
	}

	if !m.form.GetBool("confirm") {
		return m, Back
	}

	m.state = importStateUploading

	return m, m.uploadCmd()
}

func (m ImportModel) View() string {
	var body string

	switch m.state {
	case importStatePath:
		body = m.form.View()
		if m.err != nil {
			body = errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + body
		}

	case importStatePreview:
		body = m.previewView() + "\n" + m.form.View()

	case importStateUploading:
		body = fmt.Sprintf("Importing %d transactions...", len(m.params))

	case importStateDone:
		body = fmt.Sprintf("Imported %d of %d transactions.", m.created, len(m.params))
		if len(m.failed) > 0 {
			body += "\n\n" + errorStyle.Render("Failures:")
			for _, f := range m.failed {
				body += "\n  " + f
			}
		}
	}

	return lipgloss.NewStyle().Padding(1).Render(body)
}

const previewRows = 5

func (m ImportModel) previewView() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Parsed %d rows. First %d:\n\n", len(m.params), min(previewRows, len(m.params)))

	for i, p := range m.params {
		if i >= previewRows {
			break
		}

		fmt.Fprintf(&b, "  %s  %10s  %s\n", FormatDate(p.Date), FormatSigned(p.Amount), p.Description)
	}

	return b.String()
}

type csvParsedMsg struct {
	params []transaction.CreateParams
	err    error
}

func (m ImportModel) parseCmd() tea.Cmd {
	path := strings.TrimSpace(m.form.GetString("path"))

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return csvParsedMsg{err: err}
		}
		defer f.Close()

		params, err := m.parser.Parse(f)
		if err != nil {
			return csvParsedMsg{err: err}
		}

		if len(params) == 0 {
			return csvParsedMsg{err: fmt.Errorf("no transactions found in %s", path)}
		}

		return csvParsedMsg{params: params}
	}
}

type importDoneMsg struct {
	created int
	failed  []string
}

func (m ImportModel) uploadCmd() tea.Cmd {
	params := m.params

	return func() tea.Msg {
		var done importDoneMsg

		for _, p := range params {
			ctx, cancel := apiCtx()

			_, err := m.client.Create(ctx, api.TransactionParams{
				Description: p.Description,
				Amount:      p.Amount,
				Category:    p.Category,
				Date:        p.Date,
			})

			cancel()

			if err != nil {
				done.failed = append(done.failed, fmt.Sprintf("%s %s: %v", FormatDate(p.Date), p.Description, err))
				continue
			}

			done.created++
		}

		return done
	}
}
