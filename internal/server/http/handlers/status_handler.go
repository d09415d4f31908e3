package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/datafeed/internal/generator"
	"github.com/polkiloo/datafeed/internal/server/http/dto"
)

// GeneratorStats exposes the subset of the generator the handlers need.
type GeneratorStats interface {
	Snapshot() generator.Stats
}

// StatusHandler serves operational endpoints for the generator.
type StatusHandler struct {
	stats    GeneratorStats
	interval time.Duration
}

// NewStatusHandler constructs status handler.
func NewStatusHandler(stats GeneratorStats, interval time.Duration) *StatusHandler {
	return &StatusHandler{stats: stats, interval: interval}
}

// Status reports run identity and per-operation counters.
func (h *StatusHandler) Status(c *gin.Context) {
	s := h.stats.Snapshot()

	var uptime float64
	if !s.StartedAt.IsZero() {
		uptime = time.Since(s.StartedAt).Seconds()
	}

	c.JSON(http.StatusOK, dto.StatusResponse{
		RunID:             s.RunID,
		StartedAt:         s.StartedAt,
		UptimeSeconds:     uptime,
		TotalOperations:   s.Total,
		OrdersInserted:    s.OrdersCreated,
		OrdersUpdated:     s.OrdersUpdated,
		CustomersInserted: s.CustomersAdded,
		TicksSkipped:      s.Skipped,
		TicksFailed:       s.Failed,
		WriteInterval:     h.interval.String(),
	})
}

// Health is a liveness probe. The generator keeps running through database
// outages, so liveness does not depend on connectivity.
func (h *StatusHandler) Health(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
