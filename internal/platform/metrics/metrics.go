package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps process-local counters. A nil Collector discards everything.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	checkIns    uint64
	checkOuts   uint64
	conflicts   uint64
	exports     uint64
	exportedRow uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) CheckIn() {
	if c != nil {
		atomic.AddUint64(&c.checkIns, 1)
	}
}

func (c *Collector) CheckOut() {
	if c != nil {
		atomic.AddUint64(&c.checkOuts, 1)
	}
}

// Conflict counts a rejected check-in or check-out.
func (c *Collector) Conflict() {
	if c != nil {
		atomic.AddUint64(&c.conflicts, 1)
	}
}

func (c *Collector) Export(rows int) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.exports, 1)
	atomic.AddUint64(&c.exportedRow, uint64(rows))
}

func (c *Collector) Snapshot() map[string]any {
	if c == nil {
		return map[string]any{}
	}
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":     total,
		"errorsTotal":       errs,
		"rateLimitedTotal":  limited,
		"avgDurationMs":     avg,
		"totalDurationMs":   totalMs,
		"checkInsTotal":     atomic.LoadUint64(&c.checkIns),
		"checkOutsTotal":    atomic.LoadUint64(&c.checkOuts),
		"conflictsTotal":    atomic.LoadUint64(&c.conflicts),
		"exportsTotal":      atomic.LoadUint64(&c.exports),
		"exportedRowsTotal": atomic.LoadUint64(&c.exportedRow),
	}
}
