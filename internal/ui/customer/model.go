// Package customer renders the customer detail view reached by acting on
// a notification, with a start-transaction action on it.
package customer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/qmdesk/cashier-console/internal/keys"
	"github.com/qmdesk/cashier-console/internal/model"
	"github.com/qmdesk/cashier-console/internal/theme"
)

// StartTransactionMsg is sent when the user starts a transaction for the
// displayed customer.
type StartTransactionMsg struct {
	CustomerID int64
}

// Model is the customer detail view component.
type Model struct {
	customer           model.Customer
	transactionStarted bool
	keys               *keys.KeyMap
	width              int
	height             int
}

// New creates an empty customer view.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Show switches the view to the given customer. When startTransaction is
// set, the view opens directly in transaction mode.
func (m *Model) Show(c model.Customer, startTransaction bool) tea.Cmd {
	m.customer = c
	m.transactionStarted = startTransaction
	if startTransaction {
		return startCmd(c.ID)
	}
	return nil
}

// Update handles messages for the customer view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Transaction) && !m.transactionStarted {
			m.transactionStarted = true
			return m, startCmd(m.customer.ID)
		}
	}
	return m, nil
}

// startCmd reports the transaction start to the root model.
func startCmd(customerID int64) tea.Cmd {
	return func() tea.Msg {
		return StartTransactionMsg{CustomerID: customerID}
	}
}

// View renders the customer record.
func (m Model) View() string {
	c := m.customer

	var b strings.Builder
	b.WriteString(theme.PanelTitleStyle.Render("Customer"))
	b.WriteString("\n")
	b.WriteString(row("Name", c.Name))
	b.WriteString(row("Token", c.TokenNumber))
	b.WriteString(row("OR number", c.ORNumber))
	b.WriteString(row("Priority", theme.PriorityStyle(c.PriorityLabel()).Render(c.PriorityLabel())))
	b.WriteString(row("Amount", theme.AmountStyle.Render(fmt.Sprintf("%.2f", c.PaymentAmount))))
	b.WriteString(row("Payment mode", c.PaymentMode))

	if m.transactionStarted {
		b.WriteString("\n")
		b.WriteString(theme.ConnectedStyle.Render(
			fmt.Sprintf("transaction started for customer %d", c.ID),
		))
	} else {
		b.WriteString("\n")
		b.WriteString(theme.HelpStyle.Render("t: start transaction | esc: back"))
	}

	width := m.width - 2
	if width < 40 {
		width = 40
	}
	return theme.PanelStyle.Width(width).Render(b.String())
}

// row renders one "label: value" line.
func row(label, value string) string {
	return fmt.Sprintf(
		"%s %s\n",
		theme.StatLabelStyle.Render(label+":"),
		value,
	)
}
