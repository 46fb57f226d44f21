package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/qmdesk/cashier-console/internal/model"
)

// activeNotificationsResponse is the envelope around the active
// notification snapshot.
type activeNotificationsResponse struct {
	Success       bool                 `json:"success"`
	Notifications []model.Notification `json:"notifications"`
}

// ActiveNotifications fetches the current snapshot of active customer
// notifications, most recent first.
func (c *Client) ActiveNotifications(ctx context.Context) ([]model.Notification, error) {
	var resp activeNotificationsResponse
	if err := c.Get(ctx, "/customer-notifications/active", &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("active notifications fetch reported failure")
	}
	return resp.Notifications, nil
}

// MarkNotificationRead tells the backend a notification has been handled.
// Callers treat this as best-effort and never roll back local state when
// it fails.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	path := fmt.Sprintf("/customer-notifications/%s/mark-read", url.PathEscape(id))
	return c.Post(ctx, path, nil, nil)
}

// QueueStats fetches the full current queue statistics record.
func (c *Client) QueueStats(ctx context.Context) (model.QueueStats, error) {
	var stats model.QueueStats
	if err := c.Get(ctx, "/queue/stats", &stats); err != nil {
		return model.QueueStats{}, err
	}
	return stats, nil
}

// DailyReport fetches the transaction report for the given day.
func (c *Client) DailyReport(ctx context.Context, date time.Time) (model.DailyStats, error) {
	path := "/transactions/reports/daily?date=" + date.Format("2006-01-02")

	var stats model.DailyStats
	if err := c.Get(ctx, path, &stats); err != nil {
		return model.DailyStats{}, err
	}
	return stats, nil
}
