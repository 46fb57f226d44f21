package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/qmdesk/cashier-console/internal/channel"
	"github.com/qmdesk/cashier-console/internal/theme"
)

// headerRight builds the right side of the header: unread badge and
// channel state, read from the adapter at render time.
func (m *Model) headerRight() string {
	unread := m.store.UnreadCount()
	badge := "bell"
	if unread > 0 {
		badge = fmt.Sprintf("bell (%d)", unread)
	}

	state := m.adapter.State()
	style := theme.DisconnectedStyle
	if state == channel.StateConnected {
		style = theme.ConnectedStyle
	}

	return fmt.Sprintf("%s | %s", badge, style.Render(state.String()))
}

// hints renders the status-bar key hints, expanded when help is toggled.
func (m *Model) hints() string {
	var bindings []key.Binding
	if m.showHelp {
		for _, group := range m.keys.FullHelp() {
			bindings = append(bindings, group...)
		}
	} else {
		bindings = m.keys.ShortHelp()
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	return strings.Join(parts, " | ")
}
