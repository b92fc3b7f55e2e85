package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps process-lifetime counters for requests and spreadsheet batches.
type Collector struct {
	totalRequests   atomic.Uint64
	errorRequests   atomic.Uint64
	rateLimited     atomic.Uint64
	totalDurationMs atomic.Uint64

	importBatches atomic.Uint64
	rowsImported  atomic.Uint64
	rowsUpdated   atomic.Uint64
	rowsFailed    atomic.Uint64
	exports       atomic.Uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.totalRequests.Add(1)
	if status >= 500 {
		c.errorRequests.Add(1)
	}
	if status == 429 {
		c.rateLimited.Add(1)
	}
	c.totalDurationMs.Add(uint64(duration.Milliseconds()))
}

func (c *Collector) RecordImport(imported, updated, failed int) {
	if c == nil {
		return
	}
	c.importBatches.Add(1)
	c.rowsImported.Add(uint64(imported))
	c.rowsUpdated.Add(uint64(updated))
	c.rowsFailed.Add(uint64(failed))
}

func (c *Collector) RecordExport() {
	if c == nil {
		return
	}
	c.exports.Add(1)
}

func (c *Collector) Snapshot() map[string]any {
	total := c.totalRequests.Load()
	totalMs := c.totalDurationMs.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requests_total":      total,
		"errors_total":        c.errorRequests.Load(),
		"rate_limited_total":  c.rateLimited.Load(),
		"avg_duration_ms":     avg,
		"total_duration_ms":   totalMs,
		"import_batches":      c.importBatches.Load(),
		"import_rows_created": c.rowsImported.Load(),
		"import_rows_updated": c.rowsUpdated.Load(),
		"import_rows_failed":  c.rowsFailed.Load(),
		"exports_total":       c.exports.Load(),
	}
}
