// Package channel maintains the websocket push channel to the backend:
// it dials, resubscribes to the configured topics on every connect, and
// dispatches named events to handle-based subscriptions.
package channel

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/qmdesk/cashier-console/internal/api"
)

// State is the channel lifecycle state. There is no error state;
// failures land back in StateDisconnected and the run loop redials.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// String returns the lowercase state name for logs and the status bar.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Handler receives the raw JSON payload of a named event. Handlers run on
// the adapter's read-loop goroutine and must not block.
type Handler func(data json.RawMessage)

// Subscription is the handle returned by On. Cancel is idempotent;
// surfaces release exactly the handles they acquired at teardown.
type Subscription struct {
	adapter *Adapter
	event   string
	id      int
	once    sync.Once
}

// Cancel deregisters the handler. Events already in flight may still be
// delivered to other handlers, never to this one after Cancel returns.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.adapter.mu.Lock()
		defer s.adapter.mu.Unlock()
		if hs, ok := s.adapter.handlers[s.event]; ok {
			delete(hs, s.id)
		}
	})
}

// maxBackoff caps the redial delay.
const maxBackoff = 30 * time.Second

// Adapter owns one websocket connection to the push channel. Reconnection
// and resubscription are its job: every successful dial re-emits one
// subscribe frame per topic before any event is processed.
type Adapter struct {
	url    string
	tokens api.TokenProvider
	topics []string
	log    zerolog.Logger

	mu       sync.Mutex
	state    State
	conn     *websocket.Conn
	handlers map[string]map[int]Handler
	nextID   int
	stopCh   chan struct{}
	stopOnce sync.Once
	running  bool

	// baseBackoff is the first redial delay; tests shorten it.
	baseBackoff time.Duration
}

// New creates an adapter for the given websocket URL that will subscribe
// to topics after each connect. Start must be called to begin dialing.
func New(url string, tokens api.TokenProvider, topics []string, log zerolog.Logger) *Adapter {
	return &Adapter{
		url:         url,
		tokens:      tokens,
		topics:      topics,
		log:         log,
		handlers:    make(map[string]map[int]Handler),
		stopCh:      make(chan struct{}),
		baseBackoff: time.Second,
	}
}

// On registers a handler for a named event and returns its handle.
func (a *Adapter) On(event string, h Handler) *Subscription {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.handlers[event] == nil {
		a.handlers[event] = make(map[int]Handler)
	}
	id := a.nextID
	a.nextID++
	a.handlers[event][id] = h

	return &Subscription{adapter: a, event: event, id: id}
}

// State returns the current lifecycle state.
func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Start launches the connection loop. It is a no-op if already running.
func (a *Adapter) Start() {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return
	}
	a.running = true
	a.mu.Unlock()

	go a.run()
}

// Stop shuts the adapter down and severs the connection. No unsubscribe
// frames are sent; the connection is assumed gone.
func (a *Adapter) Stop() {
	a.stopOnce.Do(func() {
		close(a.stopCh)
	})

	a.mu.Lock()
	if a.conn != nil {
		a.conn.Close()
	}
	a.mu.Unlock()
}

// run dials, subscribes, and reads until stopped, redialing with capped
// exponential backoff after each failure.
func (a *Adapter) run() {
	attempt := 0
	for {
		select {
		case <-a.stopCh:
			return
		default:
		}

		a.setState(StateConnecting)

		conn, err := a.dial()
		if err != nil {
			a.setState(StateDisconnected)
			a.log.Warn().Err(err).Str("url", a.url).Msg("channel dial failed")
			if !a.wait(a.backoff(attempt)) {
				return
			}
			attempt++
			continue
		}
		attempt = 0

		if !a.installConn(conn) {
			return
		}

		a.dispatch(EventConnect, nil)
		if err := a.subscribeAll(conn); err != nil {
			a.log.Warn().Err(err).Msg("subscribe failed; reconnecting")
			conn.Close()
			a.markDisconnected()
			continue
		}

		a.readLoop(conn)
		a.markDisconnected()

		select {
		case <-a.stopCh:
			return
		default:
		}
		if !a.wait(a.backoff(0)) {
			return
		}
	}
}

// installConn publishes a freshly dialed connection. Stop can run between
// dial returning and the connection being recorded; installConn re-checks
// stopCh under the lock, closing the connection and reporting false when
// the adapter is already stopped.
func (a *Adapter) installConn(conn *websocket.Conn) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	select {
	case <-a.stopCh:
		conn.Close()
		a.state = StateDisconnected
		return false
	default:
	}

	a.conn = conn
	a.state = StateConnected
	return true
}

// dial opens the websocket with the bearer token attached.
func (a *Adapter) dial() (*websocket.Conn, error) {
	token, err := a.tokens.Token()
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := websocket.DefaultDialer.Dial(a.url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return conn, err
}

// subscribeAll emits one subscribe frame per configured topic.
func (a *Adapter) subscribeAll(conn *websocket.Conn) error {
	for _, topic := range a.topics {
		if err := conn.WriteJSON(envelope{Event: topic}); err != nil {
			return err
		}
	}
	return nil
}

// readLoop decodes frames and dispatches them until the connection drops.
func (a *Adapter) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			a.log.Warn().Err(err).Msg("dropping malformed channel frame")
			continue
		}
		a.dispatch(env.Event, env.Data)
	}
}

// dispatch invokes every handler registered for event, in delivery order,
// outside the adapter lock.
func (a *Adapter) dispatch(event string, data json.RawMessage) {
	a.mu.Lock()
	hs := make([]Handler, 0, len(a.handlers[event]))
	for _, h := range a.handlers[event] {
		hs = append(hs, h)
	}
	a.mu.Unlock()

	for _, h := range hs {
		h(data)
	}
}

// markDisconnected records the drop and notifies disconnect handlers.
func (a *Adapter) markDisconnected() {
	a.mu.Lock()
	a.conn = nil
	a.state = StateDisconnected
	a.mu.Unlock()

	a.dispatch(EventDisconnect, nil)
}

// setState updates the lifecycle state.
func (a *Adapter) setState(s State) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

// backoff computes the redial delay: base, 2x, 4x, ... capped at maxBackoff.
func (a *Adapter) backoff(attempt int) time.Duration {
	d := a.baseBackoff << uint(attempt)
	if d > maxBackoff || d <= 0 {
		d = maxBackoff
	}
	return d
}

// wait sleeps for d unless the adapter is stopped first. It reports
// whether the adapter should keep running.
func (a *Adapter) wait(d time.Duration) bool {
	select {
	case <-a.stopCh:
		return false
	case <-time.After(d):
		return true
	}
}
