package channel

import "encoding/json"

// Event names delivered by the push channel. Connect and Disconnect are
// synthesized locally from the connection lifecycle; the rest arrive as
// named frames from the backend.
const (
	EventConnect          = "connect"
	EventDisconnect       = "disconnect"
	EventNewRegistration  = "new_customer_registration_notification"
	EventNotificationRead = "customer_notification_marked_read"
	EventQueueStatsUpdate = "queue_stats_update"
)

// Subscription topics emitted to the backend. Subscribing is idempotent on
// the backend, so the adapter re-emits the full set on every connect.
const (
	TopicRegistrations = "subscribe:customer_registration_notifications"
	TopicQueueUpdates  = "subscribe:queue_updates"
)

// envelope is the wire format: a named event and its raw JSON payload.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ReadReceipt is the payload of a customer_notification_marked_read event,
// sent when another client handled the notification.
type ReadReceipt struct {
	NotificationID string `json:"notificationId"`
}
