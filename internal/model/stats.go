package model

// QueueStats is the current queue snapshot shown on the dashboard.
// It is overwritten wholesale by each successful fetch; push updates
// merge individual fields through QueueStatsPatch.
type QueueStats struct {
	// TotalWaiting is the number of customers currently in the queue.
	TotalWaiting int `json:"totalWaiting"`

	// PriorityCustomers is how many of those hold a priority claim.
	PriorityCustomers int `json:"priorityCustomers"`

	// AverageWaitTime is the rolling average wait in minutes.
	AverageWaitTime float64 `json:"averageWaitTime"`
}

// QueueStatsPatch is a partial queue-stats update as delivered by the
// push channel. Nil fields were not provided and must not overwrite
// the currently held value.
type QueueStatsPatch struct {
	TotalWaiting      *int     `json:"totalWaiting"`
	PriorityCustomers *int     `json:"priorityCustomers"`
	AverageWaitTime   *float64 `json:"averageWaitTime"`
}

// Apply shallow-merges the provided fields into s.
func (p QueueStatsPatch) Apply(s *QueueStats) {
	if p.TotalWaiting != nil {
		s.TotalWaiting = *p.TotalWaiting
	}
	if p.PriorityCustomers != nil {
		s.PriorityCustomers = *p.PriorityCustomers
	}
	if p.AverageWaitTime != nil {
		s.AverageWaitTime = *p.AverageWaitTime
	}
}

// DailyStats is the transaction report for a single day. There is no
// push event for it; the dashboard refetches it on a timer.
type DailyStats struct {
	TotalTransactions   int     `json:"totalTransactions"`
	TotalAmount         float64 `json:"totalAmount"`
	PaidTransactions    int     `json:"paidTransactions"`
	UnpaidTransactions  int     `json:"unpaidTransactions"`
	RegisteredCustomers int     `json:"registeredCustomers"`
}
