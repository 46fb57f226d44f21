// Package pushchannel defines the contract for the live event channel.
// The channel package's websocket Adapter is the implementation.
package pushchannel

import "encoding/json"

// Events delivered to the console. connect and disconnect are
// synthesized from the connection lifecycle.
const (
	EventConnect          = "connect"
	EventDisconnect       = "disconnect"
	EventNewRegistration  = "new_customer_registration_notification"
	EventNotificationRead = "customer_notification_marked_read"
	EventQueueStatsUpdate = "queue_stats_update"
)

// Topics the console subscribes to. Subscription is idempotent on the
// backend; the full set is re-emitted after every reconnect.
const (
	TopicRegistrations = "subscribe:customer_registration_notifications"
	TopicQueueUpdates  = "subscribe:queue_updates"
)

// Handler receives the raw payload of one named event. Handlers must not
// block; they run on the channel's delivery goroutine.
type Handler func(data json.RawMessage)

// Subscription is the handle for one registered handler. Surfaces must
// cancel exactly the handles they acquired when they tear down.
type Subscription interface {
	// Cancel deregisters the handler. It is idempotent.
	Cancel()
}

// Channel is the push-channel lifecycle the console depends on.
type Channel interface {
	// On registers a handler for a named event.
	On(event string, h Handler) Subscription

	// Start begins dialing. After every successful connect the channel
	// re-emits one subscribe frame per configured topic.
	Start()

	// Stop severs the connection without unsubscribing; the connection
	// is assumed gone.
	Stop()
}
