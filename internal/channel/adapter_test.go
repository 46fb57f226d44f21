package channel

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qmdesk/cashier-console/internal/api"
)

var upgrader = websocket.Upgrader{}

// channelServer is a test websocket endpoint that records handshakes and
// subscribe frames and hands each accepted connection to the test.
type channelServer struct {
	srv   *httptest.Server
	conns chan *serverConn
}

type serverConn struct {
	conn      *websocket.Conn
	authToken string
	topics    []string
}

func newChannelServer(t *testing.T, topicCount int) *channelServer {
	cs := &channelServer{conns: make(chan *serverConn, 4)}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		sc := &serverConn{conn: conn, authToken: token}
		for i := 0; i < topicCount; i++ {
			var env envelope
			if err := conn.ReadJSON(&env); err != nil {
				conn.Close()
				return
			}
			sc.topics = append(sc.topics, env.Event)
		}
		cs.conns <- sc
	}))
	t.Cleanup(cs.srv.Close)
	return cs
}

func (cs *channelServer) url() string {
	return "ws" + strings.TrimPrefix(cs.srv.URL, "http")
}

func (cs *channelServer) waitConn(t *testing.T) *serverConn {
	select {
	case sc := <-cs.conns:
		return sc
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for channel connection")
		return nil
	}
}

func newTestAdapter(url string, topics ...string) *Adapter {
	a := New(url, api.StaticToken("test-token"), topics, zerolog.Nop())
	a.baseBackoff = 10 * time.Millisecond
	return a
}

func TestAdapterSubscribesOnConnectAndDispatches(t *testing.T) {
	cs := newChannelServer(t, 2)

	a := newTestAdapter(cs.url(), TopicRegistrations, TopicQueueUpdates)
	defer a.Stop()

	received := make(chan json.RawMessage, 1)
	a.On(EventNewRegistration, func(data json.RawMessage) {
		received <- data
	})

	a.Start()
	sc := cs.waitConn(t)

	assert.Equal(t, "Bearer test-token", sc.authToken)
	assert.Equal(t, []string{TopicRegistrations, TopicQueueUpdates}, sc.topics)

	payload := `{"id": "n1", "customer": {"id": 5, "name": "Ana Reyes"}}`
	err := sc.conn.WriteJSON(envelope{
		Event: EventNewRegistration,
		Data:  json.RawMessage(payload),
	})
	require.NoError(t, err)

	select {
	case data := <-received:
		assert.JSONEq(t, payload, string(data))
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for dispatched event")
	}
}

func TestAdapterResubscribesAfterReconnect(t *testing.T) {
	cs := newChannelServer(t, 1)

	a := newTestAdapter(cs.url(), TopicRegistrations)
	defer a.Stop()

	var mu sync.Mutex
	connects, disconnects := 0, 0
	a.On(EventConnect, func(json.RawMessage) {
		mu.Lock()
		connects++
		mu.Unlock()
	})
	a.On(EventDisconnect, func(json.RawMessage) {
		mu.Lock()
		disconnects++
		mu.Unlock()
	})

	a.Start()

	first := cs.waitConn(t)
	assert.Equal(t, []string{TopicRegistrations}, first.topics)
	first.conn.Close()

	second := cs.waitConn(t)
	assert.Equal(t, []string{TopicRegistrations}, second.topics)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return connects == 2 && disconnects >= 1
	}, 3*time.Second, 10*time.Millisecond)
}

func TestAdapterStateTransitions(t *testing.T) {
	cs := newChannelServer(t, 0)

	a := newTestAdapter(cs.url())
	assert.Equal(t, StateDisconnected, a.State())

	a.Start()
	cs.waitConn(t)

	require.Eventually(t, func() bool {
		return a.State() == StateConnected
	}, 3*time.Second, 10*time.Millisecond)

	a.Stop()
	require.Eventually(t, func() bool {
		return a.State() == StateDisconnected
	}, 3*time.Second, 10*time.Millisecond)
}

func TestAdapterRetriesWhenDialIsRejected(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		mu.Unlock()
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := newTestAdapter("ws" + strings.TrimPrefix(srv.URL, "http"))
	a.Start()
	defer a.Stop()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return attempts >= 3
	}, 3*time.Second, 10*time.Millisecond)
}

func TestStopBeforeConnIsInstalledClosesIt(t *testing.T) {
	cs := newChannelServer(t, 0)

	a := newTestAdapter(cs.url())
	conn, err := a.dial()
	require.NoError(t, err)
	sc := cs.waitConn(t)

	// Stop lands after the dial succeeded but before the run loop
	// records the connection.
	a.Stop()
	require.False(t, a.installConn(conn))
	assert.Equal(t, StateDisconnected, a.State())

	sc.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = sc.conn.ReadMessage()
	assert.Error(t, err)
}

func TestSubscriptionCancelStopsDelivery(t *testing.T) {
	a := newTestAdapter("ws://unused.invalid")

	var mu sync.Mutex
	calls := 0
	sub := a.On(EventQueueStatsUpdate, func(json.RawMessage) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	a.dispatch(EventQueueStatsUpdate, nil)
	sub.Cancel()
	sub.Cancel() // idempotent
	a.dispatch(EventQueueStatsUpdate, nil)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestReadReceiptPayload(t *testing.T) {
	var r ReadReceipt
	err := json.Unmarshal([]byte(`{"notificationId": "n42"}`), &r)
	require.NoError(t, err)
	assert.Equal(t, "n42", r.NotificationID)
}
