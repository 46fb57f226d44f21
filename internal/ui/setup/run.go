package setup

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/qmdesk/cashier-console/internal/model"
)

// runner hosts the form as a standalone program for first-run setup,
// before the main application is constructed.
type runner struct {
	form    Model
	result  CompletedMsg
	done    bool
	aborted bool
}

func (r runner) Init() tea.Cmd {
	return r.form.Init()
}

func (r runner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CompletedMsg:
		r.result = msg
		r.done = true
		return r, tea.Quit
	case AbortedMsg:
		r.aborted = true
		return r, tea.Quit
	case tea.WindowSizeMsg:
		r.form.SetSize(msg.Width, msg.Height)
	}

	var cmd tea.Cmd
	r.form, cmd = r.form.Update(msg)
	return r, cmd
}

func (r runner) View() string {
	return r.form.View()
}

// Run shows the setup form and blocks until it is submitted or aborted.
func Run(cfg *model.AppConfig) (CompletedMsg, error) {
	p := tea.NewProgram(runner{form: New(cfg, 80, 24)})

	final, err := p.Run()
	if err != nil {
		return CompletedMsg{}, fmt.Errorf("running setup: %w", err)
	}

	r, ok := final.(runner)
	if !ok || !r.done {
		return CompletedMsg{}, fmt.Errorf("setup aborted")
	}
	return r.result, nil
}
