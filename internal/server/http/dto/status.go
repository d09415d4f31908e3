package dto

import "time"

// StatusResponse reports generator progress for the ops endpoint.
type StatusResponse struct {
	RunID             string    `json:"run_id"`
	StartedAt         time.Time `json:"started_at"`
	UptimeSeconds     float64   `json:"uptime_seconds"`
	TotalOperations   uint64    `json:"total_operations"`
	OrdersInserted    uint64    `json:"orders_inserted"`
	OrdersUpdated     uint64    `json:"orders_updated"`
	CustomersInserted uint64    `json:"customers_inserted"`
	TicksSkipped      uint64    `json:"ticks_skipped"`
	TicksFailed       uint64    `json:"ticks_failed"`
	WriteInterval     string    `json:"write_interval"`
}
