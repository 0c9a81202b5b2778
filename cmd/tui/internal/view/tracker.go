package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"fintrack/internal/api"
	"fintrack/internal/transaction"
)

type trackerState int

const (
	trackerStateBrowse trackerState = iota
	trackerStateForm
	trackerStateConfirm
)

// TrackerModel is the form + list screen. It owns the session's cached copy
// of the transaction list and reconciles it against every API response:
// created records are prepended, updates replace in place by ID, deletes
// remove by ID. The cache is never recomputed speculatively beyond those
// splices.
type TrackerModel struct {
	client *api.Client

	state trackerState
	table table.Model
	txs   []*transaction.Transaction
	form  *huh.Form

	editing  *transaction.Transaction
	target   *transaction.Transaction
	deleting map[uuid.UUID]bool

	loading    bool
	submitting bool
	errMsg     string
	successMsg string

	// Form bindings
	formAmount   string
	formDate     string
	formDesc     string
	formCategory string
	confirmed    bool
}

func NewTrackerModel(client *api.Client) TrackerModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Category", Width: 14},
		{Title: "Amount", Width: 12},
		{Title: "Description", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return TrackerModel{
		client:   client,
		table:    t,
		deleting: make(map[uuid.UUID]bool),
		loading:  true,
	}
}

func (m TrackerModel) Title() string { return "Transactions" }

func (m TrackerModel) ShortHelp() string {
	switch m.state {
	case trackerStateForm:
		return "Navigate form | Esc: cancel"
	case trackerStateConfirm:
		return "Confirm deletion"
	}

	return "Esc: back | a: add | e: edit | d: delete | r: refresh | x: dismiss error"
}

func (m TrackerModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m TrackerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case txsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Failed to load transactions: %v", msg.err)
			return m, nil
		}

		m.txs = msg.txs
		m.errMsg = ""
		m.refreshTable()

		return m, nil

	case txSavedMsg:
		return m.handleSaved(msg)

	case txDeletedMsg:
		delete(m.deleting, msg.id)

		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Failed to delete transaction: %v", msg.err)
			m.refreshTable()

			return m, nil
		}

		m.txs = removeByID(m.txs, msg.id)
		m.errMsg = ""
		m.successMsg = "Transaction deleted successfully!"
		m.refreshTable()

		return m, clearStatusCmd()

	case clearStatusMsg:
		m.successMsg = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	switch m.state {
	case trackerStateBrowse:
		return m.updateBrowse(msg)
	case trackerStateForm:
		return m.updateForm(msg)
	case trackerStateConfirm:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m TrackerModel) handleSaved(msg txSavedMsg) (tea.Model, tea.Cmd) {
	m.submitting = false

	if msg.err != nil {
		m.errMsg = fmt.Sprintf("Failed to save transaction: %v", msg.err)
		// A failed submit keeps edit mode active so the user can retry
		// with the submitted values still in place.
		m.formAmount = m.form.GetString("amount")
		m.formDate = m.form.GetString("date")
		m.formDesc = m.form.GetString("description")
		m.formCategory = m.form.GetString("category")
		m.form = m.buildForm()

		return m, m.form.Init()
	}

	if msg.created {
		m.txs = prepend(m.txs, msg.tx)
		m.successMsg = "Transaction added successfully!"
	} else {
		m.txs = replaceByID(m.txs, msg.tx)
		m.successMsg = "Transaction updated successfully!"
	}

	m.errMsg = ""
	m.state = trackerStateBrowse
	m.form = nil
	m.editing = nil
	m.table.Focus()
	m.refreshTable()

	return m, clearStatusCmd()
}

func (m TrackerModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "x":
			m.errMsg = ""
			return m, nil
		case "a":
			return m.enterCreateMode()
		case "e":
			return m.enterEditMode()
		case "d":
			return m.enterConfirmMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TrackerModel) enterCreateMode() (tea.Model, tea.Cmd) {
	m.editing = nil
	m.formAmount = ""
	m.formDate = FormatDate(time.Now())
	m.formDesc = ""
	m.formCategory = ""
	m.form = m.buildForm()
	m.state = trackerStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m TrackerModel) enterEditMode() (tea.Model, tea.Cmd) {
	tx := m.selectedTx()
	if tx == nil {
		return m, nil
	}

	m.editing = tx
	m.formAmount = strconv.FormatFloat(tx.Amount, 'f', -1, 64)
	m.formDate = FormatDate(tx.Date)
	m.formDesc = tx.Description
	m.formCategory = tx.Category
	m.form = m.buildForm()
	m.state = trackerStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m TrackerModel) enterConfirmMode() (tea.Model, tea.Cmd) {
	tx := m.selectedTx()
	if tx == nil || m.deleting[tx.ID] {
		return m, nil
	}

	m.target = tx
	m.confirmed = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete %q?", tx.Description)).
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.confirmed),
		),
	).WithShowHelp(false)
	m.state = trackerStateConfirm
	m.table.Blur()

	return m, m.form.Init()
}

// buildForm binds the create/edit form. These client-side rules are stricter
// than the server's: a zero amount and a sub-3-character description are
// rejected here but would pass server validation.
func (m *TrackerModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("negative for expenses").
				Value(&m.formAmount).
				Validate(validateAmount),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formDate).
				Validate(validateDate),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.formDesc).
				Validate(validateDescription),

			huh.NewInput().
				Key("category").
				Title("Category").
				Placeholder(transaction.DefaultCategory).
				Value(&m.formCategory),
		),
	).WithWidth(45).WithShowHelp(false)
}

func validateAmount(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("amount is required")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("amount must be a valid number")
	}

	if f == 0 {
		return fmt.Errorf("amount must not be zero")
	}

	return nil
}

func validateDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("date is required")
	}

	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}

	return nil
}

func validateDescription(s string) error {
	if len(strings.TrimSpace(s)) < 3 {
		return fmt.Errorf("description must be at least 3 characters")
	}

	return nil
}

func (m TrackerModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = trackerStateBrowse
			m.form = nil
			m.editing = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted || m.submitting {
		return m, cmd
	}

	m.submitting = true

	return m, m.saveCmd()
}

func (m TrackerModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = trackerStateBrowse
			m.form = nil
			m.target = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	target := m.target
	confirmed := m.form.GetBool("confirm")
	m.state = trackerStateBrowse
	m.form = nil
	m.target = nil
	m.table.Focus()

	if !confirmed || target == nil {
		return m, nil
	}

	m.deleting[target.ID] = true
	m.refreshTable()

	return m, m.deleteCmd(target.ID)
}

func (m TrackerModel) selectedTx() *transaction.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	return m.txs[idx]
}

func (m *TrackerModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))

	for _, tx := range m.txs {
		amount := FormatSigned(tx.Amount)
		if m.deleting[tx.ID] {
			amount = "deleting…"
		}

		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			string(tx.Type),
			tx.Category,
			amount,
			tx.Description,
		})
	}

	m.table.SetRows(rows)
}

// formParams reads the submitted values back off the form by key. The form
// pointer is shared across model copies, so this stays correct even though
// bubbletea copies the model between updates.
func (m TrackerModel) formParams() api.TransactionParams {
	amount, _ := strconv.ParseFloat(strings.TrimSpace(m.form.GetString("amount")), 64)
	date, _ := time.Parse(time.DateOnly, strings.TrimSpace(m.form.GetString("date")))

	return api.TransactionParams{
		Description: strings.TrimSpace(m.form.GetString("description")),
		Amount:      amount,
		Category:    strings.TrimSpace(m.form.GetString("category")),
		Date:        date,
	}
}

func balance(txs []*transaction.Transaction) float64 {
	var sum float64
	for _, tx := range txs {
		sum += tx.Amount
	}

	return sum
}

// prepend puts a newly created record at the front of the cached list. The
// list stays date-descending only while new entries are not backdated past
// existing ones; a refresh restores server order.
func prepend(txs []*transaction.Transaction, tx *transaction.Transaction) []*transaction.Transaction {
	return append([]*transaction.Transaction{tx}, txs...)
}

func replaceByID(txs []*transaction.Transaction, tx *transaction.Transaction) []*transaction.Transaction {
	for i, t := range txs {
		if t.ID == tx.ID {
			txs[i] = tx
			break
		}
	}

	return txs
}

func removeByID(txs []*transaction.Transaction, id uuid.UUID) []*transaction.Transaction {
	out := txs[:0]

	for _, t := range txs {
		if t.ID != id {
			out = append(out, t)
		}
	}

	return out
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func (m TrackerModel) View() string {
	if m.loading && len(m.txs) == 0 {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	bal := balance(m.txs)

	balStyle := successStyle
	if bal < 0 {
		balStyle = errorStyle
	}

	footer := fmt.Sprintf("Balance: %s", balStyle.Render(FormatSigned(bal)))

	content := lipgloss.JoinVertical(lipgloss.Left, tableView,
		lipgloss.NewStyle().PaddingTop(1).Render(footer))

	if m.state == trackerStateForm && m.form != nil {
		title := "Add Transaction"
		if m.editing != nil {
			title = "Edit Transaction"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.state == trackerStateConfirm && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	var banners []string
	if m.successMsg != "" {
		banners = append(banners, successStyle.Render(m.successMsg))
	}

	if m.errMsg != "" {
		banners = append(banners, errorStyle.Render(m.errMsg+"  [x to dismiss]"))
	}

	if len(banners) > 0 {
		content = strings.Join(banners, "\n") + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type txsLoadedMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m TrackerModel) loadTxsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		txs, err := m.client.List(ctx)

		return txsLoadedMsg{txs: txs, err: err}
	}
}

type txSavedMsg struct {
	tx      *transaction.Transaction
	created bool
	err     error
}

func (m TrackerModel) saveCmd() tea.Cmd {
	params := m.formParams()
	editing := m.editing

	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		if editing == nil {
			tx, err := m.client.Create(ctx, params)
			return txSavedMsg{tx: tx, created: true, err: err}
		}

		tx, err := m.client.Update(ctx, editing.ID, params)

		return txSavedMsg{tx: tx, err: err}
	}
}

type txDeletedMsg struct {
	id  uuid.UUID
	err error
}

func (m TrackerModel) deleteCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := apiCtx()
		defer cancel()

		return txDeletedMsg{id: id, err: m.client.Delete(ctx, id)}
	}
}
