package view

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NANDHINI7390/signify-invoice/internal/invoice"
	"github.com/NANDHINI7390/signify-invoice/internal/render"
)

type InvoicesModel struct {
	CommonModel
	svc     *invoice.Service
	ownerID string

	table    table.Model
	invoices []*invoice.Invoice
	visible  []*invoice.Invoice

	statusFilterIdx int

	loading bool
	err     error
	status  string
}

func NewInvoicesModel(svc *invoice.Service, ownerID string) InvoicesModel {
	columns := []table.Column{
		{Title: "Number", Width: 14},
		{Title: "Date", Width: 12},
		{Title: "Status", Width: 9},
		{Title: "Recipient", Width: 24},
		{Title: "Amount", Width: 14},
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

	return InvoicesModel{
		svc:     svc,
		ownerID: ownerID,
		table:   t,
		loading: true,
	}
}

func (m InvoicesModel) Title() string { return "Invoices" }
func (m InvoicesModel) ShortHelp() string {
	return "Esc: back | d: dispatch | p: save PDF | s: status filter | r: refresh"
}

func (m InvoicesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInvoicesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.invoices = msg.invoices
		m.refreshTable()
		return m, nil

	case invoiceActionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.status = msg.status
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % 4
			m.refreshTable()
			return m, nil
		case "d":
			if inv := m.selected(); inv != nil {
				return m, m.dispatchCmd(inv)
			}
		case "p":
			if inv := m.selected(); inv != nil {
				return m, m.savePDFCmd(inv)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m InvoicesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	statusLabels := []string{"All", "Draft", "Pending", "Signed"}
	header := fmt.Sprintf("Filter: [s] Status: %s",
		activeStyle(statusLabels[m.statusFilterIdx]))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()),
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m InvoicesModel) selected() *invoice.Invoice {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.visible) {
		return nil
	}

	return m.visible[idx]
}

func (m *InvoicesModel) filterStatus() invoice.Status {
	switch m.statusFilterIdx {
	case 1:
		return invoice.StatusDraft
	case 2:
		return invoice.StatusPending
	case 3:
		return invoice.StatusSigned
	default:
		return ""
	}
}

func (m *InvoicesModel) refreshTable() {
	want := m.filterStatus()

	m.visible = m.visible[:0]
	rows := make([]table.Row, 0, len(m.invoices))

	for _, inv := range m.invoices {
		if want != "" && inv.Status != want {
			continue
		}

		m.visible = append(m.visible, inv)
		rows = append(rows, table.Row{
			inv.Number,
			FormatDate(inv.InvoiceDate),
			string(inv.Status),
			inv.RecipientName,
			render.FormatTotal(inv.Amount, inv.Currency),
		})
	}

	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// Messages

type loadInvoicesMsg struct {
	invoices []*invoice.Invoice
	err      error
}

func (m InvoicesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invs, err := m.svc.List(ctx, m.ownerID, 0)
		return loadInvoicesMsg{invoices: invs, err: err}
	}
}

type invoiceActionMsg struct {
	status string
	err    error
}

func (m InvoicesModel) dispatchCmd(inv *invoice.Invoice) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.svc.Dispatch(ctx, inv.ID, m.ownerID); err != nil {
			return invoiceActionMsg{err: err}
		}

		return invoiceActionMsg{status: fmt.Sprintf("Dispatched %s", inv.Number)}
	}
}

func (m InvoicesModel) savePDFCmd(inv *invoice.Invoice) tea.Cmd {
	return func() tea.Msg {
		doc, err := render.Compose(inv)
		if err != nil {
			return invoiceActionMsg{err: err}
		}

		if err := os.WriteFile(doc.Filename, doc.PDF, 0o644); err != nil {
			return invoiceActionMsg{err: err}
		}

		return invoiceActionMsg{status: fmt.Sprintf("Saved %s", doc.Filename)}
	}
}
