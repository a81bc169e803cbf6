package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/NANDHINI7390/signify-invoice/cmd/tui/internal/view"
	"github.com/NANDHINI7390/signify-invoice/internal/access"
	"github.com/NANDHINI7390/signify-invoice/internal/config"
	"github.com/NANDHINI7390/signify-invoice/internal/database"
	"github.com/NANDHINI7390/signify-invoice/internal/invoice"
	invoiceStore "github.com/NANDHINI7390/signify-invoice/internal/invoice/store"
	"github.com/NANDHINI7390/signify-invoice/internal/notify"
	"github.com/NANDHINI7390/signify-invoice/internal/sharelink"
)

type model struct {
	cfg *config.Config
	svc *invoice.Service

	currentView View

	invoicesView view.InvoicesModel
	createView   view.CreateModel
}

type View int

const (
	ViewMenu     View = 0
	ViewInvoices View = 1
	ViewCreate   View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	links := sharelink.NewBuilder(cfg.Auth.Secret, cfg.App.BaseURL, cfg.Auth.LinkTTL)

	var notifier invoice.Notifier = notify.LogSender{}
	if cfg.Notify.Endpoint != "" {
		notifier = notify.NewRelay(cfg.Notify.Endpoint, cfg.Notify.Token)
	}

	svc := invoice.NewService(invoiceStore.New(db), access.NewGuard(), notifier, links)

	return model{
		cfg:          cfg,
		svc:          svc,
		currentView:  ViewMenu,
		invoicesView: view.NewInvoicesModel(svc, cfg.Owner.ID),
		createView:   view.NewCreateModel(svc, cfg),
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
				m.currentView = ViewInvoices
				m.invoicesView = view.NewInvoicesModel(m.svc, m.cfg.Owner.ID)

				return m, m.invoicesView.Init()
			case "2":
				m.currentView = ViewCreate
				m.createView = view.NewCreateModel(m.svc, m.cfg)

				return m, m.createView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewInvoices:
		var newModel tea.Model
		newModel, cmd = m.invoicesView.Update(msg)
		m.invoicesView = newModel.(view.InvoicesModel)
	case ViewCreate:
		var newModel tea.Model
		newModel, cmd = m.createView.Update(msg)
		m.createView = newModel.(view.CreateModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.cfg.App.Name + " TUI\n\n" +
				"1. Browse Invoices\n" +
				"2. New Invoice\n\n" +
				"q. Quit",
		)
	case ViewInvoices:
		return m.invoicesView.View()
	case ViewCreate:
		return m.createView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
