package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/NANDHINI7390/signify-invoice/internal/config"
	"github.com/NANDHINI7390/signify-invoice/internal/invoice"
)

type CreateModel struct {
	CommonModel
	svc   *invoice.Service
	owner config.Config

	form *huh.Form

	recipientName  string
	recipientEmail string
	amount         string
	currency       string
	description    string
	invoiceDate    string

	done   bool
	status string
}

func NewCreateModel(svc *invoice.Service, cfg *config.Config) CreateModel {
	m := CreateModel{
		svc:         svc,
		owner:       *cfg,
		currency:    "USD",
		invoiceDate: FormatDate(time.Now()),
	}
	m.form = m.newForm()

	return m
}

func (m CreateModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("recipient_name").
				Title("Recipient Name").
				Value(&m.recipientName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("recipient name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("recipient_email").
				Title("Recipient Email").
				Placeholder("client@example.com").
				Value(&m.recipientEmail),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("2500.00").
				Value(&m.amount).
				Validate(func(s string) error {
					_, err := decimal.NewFromString(strings.TrimSpace(s))
					return err
				}),

			huh.NewSelect[string]().
				Key("currency").
				Title("Currency").
				Options(
					huh.NewOption("USD – US Dollar", "USD"),
					huh.NewOption("EUR – Euro", "EUR"),
					huh.NewOption("GBP – British Pound", "GBP"),
					huh.NewOption("INR – Indian Rupee", "INR"),
					huh.NewOption("JPY – Japanese Yen", "JPY"),
					huh.NewOption("CAD – Canadian Dollar", "CAD"),
					huh.NewOption("AUD – Australian Dollar", "AUD"),
				).
				Value(&m.currency),

			huh.NewText().
				Key("description").
				Title("Description").
				Value(&m.description),

			huh.NewInput().
				Key("invoice_date").
				Title("Invoice Date").
				Placeholder("2026-01-31").
				Value(&m.invoiceDate).
				Validate(func(s string) error {
					_, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
					return err
				}),
		),
	).WithWidth(60).WithShowHelp(true)
}

func (m CreateModel) Title() string { return "New Invoice" }
func (m CreateModel) ShortHelp() string {
	return "Navigate form | Esc: back"
}

func (m CreateModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

	case createdMsg:
		if msg.err != nil {
			m.status = describeCreateErr(msg.err)
			m.form = m.newForm()
			return m, m.form.Init()
		}

		m.done = true
		m.status = fmt.Sprintf("Created draft %s", msg.number)
		return m, nil
	}

	if m.done {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd()
}

func (m CreateModel) View() string {
	if m.done {
		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\n(Esc to back)")
	}

	content := m.form.View()
	if m.status != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		content = errStyle.Render(m.status) + "\n\n" + content
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

type createdMsg struct {
	number string
	err    error
}

func (m CreateModel) createCmd() tea.Cmd {
	// Read through the form keys: the value bindings point into an older
	// copy of the model by the time the form completes.
	amount, err := decimal.NewFromString(strings.TrimSpace(m.form.GetString("amount")))
	if err != nil {
		return func() tea.Msg { return createdMsg{err: err} }
	}

	date, err := time.Parse(time.DateOnly, strings.TrimSpace(m.form.GetString("invoice_date")))
	if err != nil {
		return func() tea.Msg { return createdMsg{err: err} }
	}

	params := invoice.CreateParams{
		SenderID:       m.owner.Owner.ID,
		SenderName:     m.owner.Owner.Name,
		SenderEmail:    m.owner.Owner.Email,
		RecipientName:  m.form.GetString("recipient_name"),
		RecipientEmail: m.form.GetString("recipient_email"),
		Amount:         amount,
		Currency:       m.form.GetString("currency"),
		Description:    m.form.GetString("description"),
		InvoiceDate:    date,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		inv, err := m.svc.Create(ctx, params)
		if err != nil {
			return createdMsg{err: err}
		}

		return createdMsg{number: inv.Number}
	}
}

// describeCreateErr flattens a validation error into one status line.
func describeCreateErr(err error) string {
	var verr *invoice.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Sprintf("Error: %v", err)
	}

	parts := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}

	return "Invalid invoice: " + strings.Join(parts, "; ")
}
