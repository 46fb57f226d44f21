// Package app wires the cashier console together: the shared notification
// store, the REST client, the push-channel adapter, the history log, and
// the view routing between the dashboard, the bell dropdown, and the
// customer detail view.
package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/qmdesk/cashier-console/internal/api"
	"github.com/qmdesk/cashier-console/internal/channel"
	"github.com/qmdesk/cashier-console/internal/history"
	"github.com/qmdesk/cashier-console/internal/keys"
	"github.com/qmdesk/cashier-console/internal/model"
	"github.com/qmdesk/cashier-console/internal/notify"
	"github.com/qmdesk/cashier-console/internal/stats"
	"github.com/qmdesk/cashier-console/internal/ui"
	"github.com/qmdesk/cashier-console/internal/ui/bell"
	"github.com/qmdesk/cashier-console/internal/ui/customer"
	"github.com/qmdesk/cashier-console/internal/ui/dashboard"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewBell
	ViewCustomer
)

// Messages delivered from the channel adapter and data-loading commands.
type (
	// storeChangedMsg reports any mutation of the notification store.
	storeChangedMsg struct{}

	// queueStatsMsg carries a full queue-stats fetch result.
	queueStatsMsg struct {
		stats model.QueueStats
	}

	// dailyStatsMsg carries a daily-report fetch result.
	dailyStatsMsg struct {
		stats model.DailyStats
		date  time.Time
	}

	// queueChangedMsg reports that the shared queue-stats tracker was
	// patched by a push event.
	queueChangedMsg struct{}

	// recentMsg carries a recent-activity read from the history log.
	recentMsg struct {
		entries []history.Entry
	}

	// channelStateMsg reports a push-channel lifecycle transition. The
	// state itself is read from the adapter at render time.
	channelStateMsg struct{}

	// reportTickMsg triggers a periodic daily-report refetch.
	reportTickMsg struct{}
)

// Model is the root Bubble Tea model.
type Model struct {
	cfg     *model.AppConfig
	api     *api.Client
	store   *notify.Store
	tracker *stats.Tracker
	adapter *channel.Adapter
	hist    *history.Log
	log     zerolog.Logger
	keys    *keys.KeyMap

	currentView ViewState
	layout      ui.Layout
	ready       bool
	showHelp    bool

	dashboard dashboard.Model
	bell      bell.Model
	customer  customer.Model

	// events carries messages from the channel adapter's goroutines and
	// the store's change callbacks into the Bubble Tea runtime.
	events chan tea.Msg

	subs       []*channel.Subscription
	unsubStore func()
}

// New creates the root model and registers all channel and store
// subscriptions. The handles are released on quit.
func New(
	cfg *model.AppConfig,
	client *api.Client,
	store *notify.Store,
	adapter *channel.Adapter,
	hist *history.Log,
	log zerolog.Logger,
) *Model {
	k := keys.DefaultKeyMap()
	tracker := stats.NewTracker()

	m := &Model{
		cfg:       cfg,
		api:       client,
		store:     store,
		tracker:   tracker,
		adapter:   adapter,
		hist:      hist,
		log:       log,
		keys:      k,
		dashboard: dashboard.New(store, tracker, k, cfg.FeedCapacity, 80, 24),
		bell:      bell.New(store, k, 80, 24),
		customer:  customer.New(k, 80, 24),
		events:    make(chan tea.Msg, 64),
	}

	m.attach()
	return m
}

// attach registers the channel event handlers and the store change
// callback. Everything registered here is released by release().
func (m *Model) attach() {
	m.subs = append(m.subs,
		m.adapter.On(channel.EventNewRegistration, m.onRegistration),
		m.adapter.On(channel.EventNotificationRead, m.onMarkedRead),
		m.adapter.On(channel.EventQueueStatsUpdate, m.onQueuePatch),
		m.adapter.On(channel.EventConnect, func(json.RawMessage) {
			m.push(channelStateMsg{})
		}),
		m.adapter.On(channel.EventDisconnect, func(json.RawMessage) {
			m.push(channelStateMsg{})
		}),
	)

	m.unsubStore = m.store.Subscribe(func() {
		m.push(storeChangedMsg{})
	})
}

// release cancels exactly the handles attach acquired and stops the
// channel. Called once, on quit.
func (m *Model) release() {
	for _, s := range m.subs {
		s.Cancel()
	}
	if m.unsubStore != nil {
		m.unsubStore()
	}
	m.adapter.Stop()
}

// onRegistration handles a pushed customer registration. It runs on the
// channel's read-loop goroutine; the store is safe to call from there.
func (m *Model) onRegistration(data json.RawMessage) {
	var n model.Notification
	if err := json.Unmarshal(data, &n); err != nil {
		m.log.Warn().Err(err).Msg("dropping malformed registration event")
		return
	}

	m.store.Receive(n)
	if err := m.hist.Record(context.Background(), n); err != nil {
		m.log.Warn().Err(err).Msg("history write failed")
	}
}

// onMarkedRead handles a mark-read event from another client. The backend
// already knows, so the removal is local only.
func (m *Model) onMarkedRead(data json.RawMessage) {
	var r channel.ReadReceipt
	if err := json.Unmarshal(data, &r); err != nil {
		m.log.Warn().Err(err).Msg("dropping malformed mark-read event")
		return
	}

	m.store.RemoveLocal(r.NotificationID)
	if err := m.hist.MarkRead(context.Background(), r.NotificationID); err != nil {
		m.log.Warn().Err(err).Msg("history update failed")
	}
}

// onQueuePatch applies a partial queue-stats update to the shared tracker
// and nudges the UI. The patch itself is never queued, so a full event
// channel cannot lose it.
func (m *Model) onQueuePatch(data json.RawMessage) {
	var p model.QueueStatsPatch
	if err := json.Unmarshal(data, &p); err != nil {
		m.log.Warn().Err(err).Msg("dropping malformed queue-stats event")
		return
	}
	m.tracker.Apply(p)
	m.push(queueChangedMsg{})
}

// push delivers a message to the UI without blocking the read loop.
// A full queue drops the message; every pushed message is a redraw hint
// over shared state, which the next delivered message re-renders anyway.
func (m *Model) push(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
	}
}

// waitForEvent returns a command that delivers the next adapter or store
// message. It is re-armed after each delivery.
func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// Init loads the initial snapshot and stats, starts the push channel, and
// begins listening for its events.
func (m *Model) Init() tea.Cmd {
	m.adapter.Start()

	return tea.Batch(
		m.loadSnapshot(),
		m.loadQueueStats(),
		m.loadDailyStats(),
		m.loadRecentActivity(),
		m.waitForEvent(),
		m.reportTick(),
	)
}

// loadSnapshot fetches the active-notification snapshot and replaces the
// store contents. Failures are logged; the UI keeps what it has.
func (m *Model) loadSnapshot() tea.Cmd {
	return func() tea.Msg {
		list, err := m.api.ActiveNotifications(context.Background())
		if err != nil {
			m.log.Error().Err(err).Msg("notification snapshot failed")
			return nil
		}

		m.store.LoadSnapshot(list)
		for _, n := range list {
			if err := m.hist.Record(context.Background(), n); err != nil {
				m.log.Warn().Err(err).Msg("history write failed")
			}
		}
		return nil
	}
}

// loadQueueStats fetches the full queue statistics record.
func (m *Model) loadQueueStats() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.api.QueueStats(context.Background())
		if err != nil {
			m.log.Error().Err(err).Msg("queue stats fetch failed")
			return nil
		}
		return queueStatsMsg{stats: stats}
	}
}

// loadDailyStats fetches today's transaction report.
func (m *Model) loadDailyStats() tea.Cmd {
	return func() tea.Msg {
		date := time.Now()
		stats, err := m.api.DailyReport(context.Background(), date)
		if err != nil {
			m.log.Error().Err(err).Msg("daily report fetch failed")
			return nil
		}
		return dailyStatsMsg{stats: stats, date: date}
	}
}

// recentActivityLimit is how many history entries the dashboard shows.
const recentActivityLimit = 5

// loadRecentActivity reads the latest history entries for the dashboard.
func (m *Model) loadRecentActivity() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.hist.Recent(context.Background(), recentActivityLimit)
		if err != nil {
			m.log.Warn().Err(err).Msg("history read failed")
			return nil
		}
		return recentMsg{entries: entries}
	}
}

// reportTick schedules the next periodic daily-report refresh.
func (m *Model) reportTick() tea.Cmd {
	interval := time.Duration(m.cfg.ReportRefreshSec) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return reportTickMsg{}
	})
}

// Update handles messages and dispatches to the active view.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.dashboard.SetSize(w, h)
		m.bell.SetSize(w, h)
		m.customer.SetSize(w, h)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case storeChangedMsg:
		m.bell.Refresh()
		return m, tea.Batch(m.waitForEvent(), m.loadRecentActivity())

	case channelStateMsg, queueChangedMsg:
		return m, m.waitForEvent()

	case queueStatsMsg:
		m.tracker.Set(msg.stats)
		return m, nil

	case recentMsg:
		m.dashboard.SetRecentActivity(msg.entries)
		return m, nil

	case dailyStatsMsg:
		m.dashboard.SetDailyStats(msg.stats, msg.date)
		return m, nil

	case reportTickMsg:
		return m, tea.Batch(m.loadDailyStats(), m.reportTick())

	case bell.SelectedMsg:
		return m.openCustomer(msg)

	case customer.StartTransactionMsg:
		// Navigation contract: hand off to the transactions flow.
		m.log.Info().Int64("customer_id", msg.CustomerID).
			Msg("transaction started")
		return m, nil
	}

	return m.updateActiveView(msg)
}

// handleKey routes global keys, then view-local ones.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.release()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Bell):
		if m.currentView == ViewBell {
			m.currentView = ViewDashboard
		} else {
			m.currentView = ViewBell
			m.bell.Refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.currentView = ViewDashboard
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(
			m.loadSnapshot(),
			m.loadQueueStats(),
			m.loadDailyStats(),
			m.loadRecentActivity(),
		)
	}

	return m.updateActiveView(msg)
}

// openCustomer handles acting on a notification: dismiss it everywhere
// and show the customer.
func (m *Model) openCustomer(msg bell.SelectedMsg) (tea.Model, tea.Cmd) {
	m.store.MarkRead(context.Background(), msg.NotificationID)
	if err := m.hist.MarkRead(context.Background(), msg.NotificationID); err != nil {
		m.log.Warn().Err(err).Msg("history update failed")
	}

	m.currentView = ViewCustomer
	return m, m.customer.Show(msg.Customer, msg.StartTransaction)
}

// updateActiveView forwards a message to the currently visible component.
func (m *Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewBell:
		m.bell, cmd = m.bell.Update(msg)
	case ViewCustomer:
		m.customer, cmd = m.customer.Update(msg)
	default:
		m.dashboard, cmd = m.dashboard.Update(msg)
	}
	return m, cmd
}

// View renders the frame around the active view.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := m.layout.RenderHeader("Cashier Console", m.headerRight())

	var content string
	switch m.currentView {
	case ViewBell:
		content = m.bell.View()
	case ViewCustomer:
		content = m.customer.View()
	default:
		content = m.dashboard.View()
	}

	return m.layout.RenderWithFrame(header, content, m.layout.RenderStatusBar(m.hints()))
}
