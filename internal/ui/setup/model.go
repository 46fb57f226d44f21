// Package setup renders the first-run form capturing the backend
// endpoints and the access token. The token goes to the system keyring,
// never to the config file.
package setup

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/qmdesk/cashier-console/internal/model"
)

// CompletedMsg carries the submitted values to the root model.
type CompletedMsg struct {
	APIBaseURL string
	ChannelURL string
	Token      string
}

// AbortedMsg is sent when the user backs out of the form.
type AbortedMsg struct{}

// Model is the setup form view component.
type Model struct {
	form   *huh.Form
	width  int
	height int

	apiBaseURL string
	channelURL string
	token      string
}

// New creates the setup form prefilled from the current configuration.
func New(cfg *model.AppConfig, width, height int) Model {
	m := Model{
		width:      width,
		height:     height,
		apiBaseURL: cfg.APIBaseURL,
		channelURL: cfg.ChannelURL,
	}
	m.form = m.buildForm()
	return m
}

// buildForm constructs the huh form bound to the model's fields.
func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend API URL").
				Description("Root of the queue-management REST API").
				Placeholder(model.DefaultAPIBaseURL).
				Value(&m.apiBaseURL),
			huh.NewInput().
				Title("Push channel URL").
				Description("Websocket endpoint for live updates").
				Placeholder(model.DefaultChannelURL).
				Value(&m.channelURL),
			huh.NewInput().
				Title("Access token").
				Description("Stored in the system keyring").
				EchoMode(huh.EchoModePassword).
				Value(&m.token),
		),
	)
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update forwards messages to the form and reports completion.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		done := CompletedMsg{
			APIBaseURL: m.apiBaseURL,
			ChannelURL: m.channelURL,
			Token:      m.token,
		}
		return m, func() tea.Msg { return done }
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return AbortedMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	return m.form.View()
}
