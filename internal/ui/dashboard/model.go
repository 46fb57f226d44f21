// Package dashboard renders the cashier stats overview: queue statistics,
// the daily transaction report, the live feed of customer registrations,
// and recent activity from the local history log. Queue stats and the feed
// are read from shared state on every render instead of keeping copies.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qmdesk/cashier-console/internal/history"
	"github.com/qmdesk/cashier-console/internal/keys"
	"github.com/qmdesk/cashier-console/internal/model"
	"github.com/qmdesk/cashier-console/internal/notify"
	"github.com/qmdesk/cashier-console/internal/stats"
	"github.com/qmdesk/cashier-console/internal/theme"
)

// Model is the dashboard view component.
type Model struct {
	store     *notify.Store
	stats     *stats.Tracker
	keys      *keys.KeyMap
	daily     model.DailyStats
	dailyDate time.Time
	recent    []history.Entry
	feedLimit int
	width     int
	height    int
}

// New creates a dashboard showing at most feedLimit live registrations.
func New(s *notify.Store, tracker *stats.Tracker, k *keys.KeyMap, feedLimit, width, height int) Model {
	return Model{
		store:     s,
		stats:     tracker,
		keys:      k,
		feedLimit: feedLimit,
		width:     width,
		height:    height,
	}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetDailyStats replaces the daily report.
func (m *Model) SetDailyStats(s model.DailyStats, date time.Time) {
	m.daily = s
	m.dailyDate = date
}

// SetRecentActivity replaces the recent-activity entries shown below the
// live feed.
func (m *Model) SetRecentActivity(entries []history.Entry) {
	m.recent = entries
}

// Update handles messages for the dashboard. The dashboard has no local
// key handling; actions live on the bell.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.SetSize(size.Width, size.Height)
	}
	return m, nil
}

// View renders the stats panels, the live registration feed, and the
// recent-activity block.
func (m Model) View() string {
	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.queuePanel(),
		m.dailyPanel(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, panels, m.feedPanel(), m.recentPanel())
}

// panelWidth splits the available width between the two stat panels.
func (m Model) panelWidth() int {
	w := m.width/2 - 2
	if w < 24 {
		w = 24
	}
	return w
}

// fullWidth is the width of the full-row panels.
func (m Model) fullWidth() int {
	w := m.width - 2
	if w < 40 {
		w = 40
	}
	return w
}

func (m Model) queuePanel() string {
	queue := m.stats.Queue()

	var b strings.Builder
	b.WriteString(theme.PanelTitleStyle.Render("Queue"))
	b.WriteString("\n")
	b.WriteString(statLine("Waiting", fmt.Sprintf("%d", queue.TotalWaiting)))
	b.WriteString(statLine("Priority", fmt.Sprintf("%d", queue.PriorityCustomers)))
	b.WriteString(statLine("Avg wait", fmt.Sprintf("%.1f min", queue.AverageWaitTime)))

	return theme.PanelStyle.Width(m.panelWidth()).Render(b.String())
}

func (m Model) dailyPanel() string {
	title := "Today"
	if !m.dailyDate.IsZero() {
		title = m.dailyDate.Format("Jan 2")
	}

	var b strings.Builder
	b.WriteString(theme.PanelTitleStyle.Render("Report " + title))
	b.WriteString("\n")
	b.WriteString(statLine("Transactions", fmt.Sprintf("%d", m.daily.TotalTransactions)))
	b.WriteString(statLine("Amount", theme.AmountStyle.Render(fmt.Sprintf("%.2f", m.daily.TotalAmount))))
	b.WriteString(statLine("Paid / unpaid", fmt.Sprintf("%d / %d", m.daily.PaidTransactions, m.daily.UnpaidTransactions)))
	b.WriteString(statLine("Registered", fmt.Sprintf("%d", m.daily.RegisteredCustomers)))

	return theme.PanelStyle.Width(m.panelWidth()).Render(b.String())
}

func (m Model) feedPanel() string {
	items := m.store.Items()
	if len(items) > m.feedLimit {
		items = items[:m.feedLimit]
	}

	var b strings.Builder
	b.WriteString(theme.PanelTitleStyle.Render("Live registrations"))
	b.WriteString("\n")

	if len(items) == 0 {
		b.WriteString(theme.HelpStyle.Render("no active registrations"))
	}
	for _, n := range items {
		b.WriteString(feedLine(n))
	}

	return theme.PanelStyle.Width(m.fullWidth()).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) recentPanel() string {
	var b strings.Builder
	b.WriteString(theme.PanelTitleStyle.Render("Recent activity"))
	b.WriteString("\n")

	if len(m.recent) == 0 {
		b.WriteString(theme.HelpStyle.Render("nothing recorded yet"))
	}
	for _, e := range m.recent {
		b.WriteString(recentLine(e))
	}

	return theme.PanelStyle.Width(m.fullWidth()).Render(strings.TrimRight(b.String(), "\n"))
}

// statLine renders one "label: value" row inside a stat panel.
func statLine(label, value string) string {
	return fmt.Sprintf(
		"%s %s\n",
		theme.StatLabelStyle.Render(label+":"),
		theme.StatValueStyle.Render(value),
	)
}

// feedLine renders one registration in the live feed.
func feedLine(n model.Notification) string {
	return fmt.Sprintf(
		"%s %s  %s  %s  %s\n",
		theme.StatValueStyle.Render(n.Customer.TokenNumber),
		n.Customer.Name,
		theme.PriorityStyle(n.Customer.PriorityLabel()).Render(n.Customer.PriorityLabel()),
		theme.AmountStyle.Render(fmt.Sprintf("%.2f", n.Customer.PaymentAmount)),
		theme.HelpStyle.Render(relativeTime(n.CreatedAt)),
	)
}

// recentLine renders one history entry in the recent-activity block.
func recentLine(e history.Entry) string {
	status := theme.HelpStyle.Render("pending")
	if e.ReadAt != nil {
		status = theme.ConnectedStyle.Render("handled")
	}

	return fmt.Sprintf(
		"%s %s  %s  %s\n",
		theme.StatValueStyle.Render(e.TokenNumber),
		e.CustomerName,
		status,
		theme.HelpStyle.Render(relativeTime(e.ReceivedAt)),
	)
}

// relativeTime formats t as a compact age like "3m ago".
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
