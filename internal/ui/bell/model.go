// Package bell renders the notification dropdown: the full held list with
// per-item dismiss, dismiss-all, and act-on-notification. Acting on a
// notification dismisses it and navigates to the customer.
package bell

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/qmdesk/cashier-console/internal/keys"
	"github.com/qmdesk/cashier-console/internal/model"
	"github.com/qmdesk/cashier-console/internal/notify"
	"github.com/qmdesk/cashier-console/internal/theme"
)

// SelectedMsg is sent when the user acts on a notification.
type SelectedMsg struct {
	NotificationID   string
	Customer         model.Customer
	StartTransaction bool
}

// Model is the bell dropdown view component.
type Model struct {
	list   list.Model
	store  *notify.Store
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a bell dropdown backed by the shared notification store.
func New(s *notify.Store, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, Delegate{}, width, height-2)
	l.Title = "Notifications"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	m := Model{
		list:   l,
		store:  s,
		keys:   k,
		width:  width,
		height: height,
	}
	m.Refresh()
	return m
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

// Refresh rebuilds the list rows from the store. The app calls this
// whenever the store reports a change.
func (m *Model) Refresh() {
	items := m.store.Items()
	rows := make([]list.Item, len(items))
	for i, n := range items {
		rows[i] = Item{Notification: n}
	}
	m.list.SetItems(rows)
	if m.list.Index() >= len(rows) && len(rows) > 0 {
		m.list.Select(len(rows) - 1)
	}
}

// selected returns the notification under the cursor, if any.
func (m Model) selected() (model.Notification, bool) {
	it, ok := m.list.SelectedItem().(Item)
	if !ok {
		return model.Notification{}, false
	}
	return it.Notification, true
}

// Update handles messages for the bell dropdown.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.MarkRead):
			if n, ok := m.selected(); ok {
				return m, m.markReadCmd(n.ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.MarkAllRead):
			return m, m.markAllReadCmd()

		case key.Matches(msg, m.keys.Select):
			if n, ok := m.selected(); ok {
				return m, selectCmd(n, false)
			}
			return m, nil

		case key.Matches(msg, m.keys.Transaction):
			if n, ok := m.selected(); ok {
				return m, selectCmd(n, true)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// markReadCmd dismisses one notification. The store removes it locally at
// once and fires the backend call in the background.
func (m Model) markReadCmd(id string) tea.Cmd {
	return func() tea.Msg {
		m.store.MarkRead(context.Background(), id)
		return nil
	}
}

// markAllReadCmd dismisses everything. It blocks inside the command
// goroutine until all backend calls settle; the UI stays responsive.
func (m Model) markAllReadCmd() tea.Cmd {
	return func() tea.Msg {
		m.store.MarkAllRead(context.Background())
		return nil
	}
}

// selectCmd reports the chosen notification to the root model.
func selectCmd(n model.Notification, startTransaction bool) tea.Cmd {
	return func() tea.Msg {
		return SelectedMsg{
			NotificationID:   n.ID,
			Customer:         n.Customer,
			StartTransaction: startTransaction,
		}
	}
}

// View renders the unread badge and the notification list.
func (m Model) View() string {
	badge := ""
	if unread := m.store.UnreadCount(); unread > 0 {
		badge = theme.BadgeStyle.Render(fmt.Sprintf("%d unread", unread))
	}
	return badge + "\n" + m.list.View()
}
