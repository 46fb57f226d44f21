package bell

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/qmdesk/cashier-console/internal/model"
	"github.com/qmdesk/cashier-console/internal/theme"
)

// Item wraps a model.Notification so it can be used in a bubbles/list.
type Item struct {
	Notification model.Notification
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string {
	return i.Notification.Customer.Name + " " + i.Notification.Customer.TokenNumber
}

// Title returns the headline for the list row.
func (i Item) Title() string {
	c := i.Notification.Customer
	return fmt.Sprintf("%s  %s", c.TokenNumber, c.Name)
}

// Description returns the detail line for the list row.
func (i Item) Description() string {
	c := i.Notification.Customer
	parts := []string{
		c.PriorityLabel(),
		fmt.Sprintf("%.2f %s", c.PaymentAmount, c.PaymentMode),
		"OR " + c.ORNumber,
		relativeTime(i.Notification.CreatedAt),
	}
	return strings.Join(parts, " | ")
}

// Delegate implements list.ItemDelegate for rendering notification rows.
type Delegate struct{}

// Height returns the number of lines per item.
func (d Delegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d Delegate) Spacing() int { return 1 }

// Update is a no-op; row state never changes from messages.
func (d Delegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

// Render draws a single notification row, highlighting the cursor.
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	title := it.Title()
	desc := it.Description()

	if index == m.Index() {
		fmt.Fprintf(w, "%s\n%s",
			theme.SelectedItemStyle.Render(title),
			theme.SelectedItemStyle.Render(desc),
		)
		return
	}

	fmt.Fprintf(w, "%s\n%s",
		theme.ListItemStyle.Render(title),
		theme.ListItemStyle.Render(theme.HelpStyle.Render(desc)),
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
