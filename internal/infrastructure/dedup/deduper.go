package dedup

import (
	"context"
	"sync"
	"time"

	"sellerconnect/internal/infrastructure/metrics"
	"sellerconnect/pkg/clock"
	"sellerconnect/pkg/logger"
)

// Deduper suppresses a repeated signal that arrives within a window of the
// last accepted one. State is process-local.
type Deduper struct {
	clock    clock.Clock
	accepted map[string]time.Time
	mutex    sync.Mutex
}

func NewDeduper(c clock.Clock) *Deduper {
	if c == nil {
		c = clock.New()
	}
	return &Deduper{
		clock:    c,
		accepted: make(map[string]time.Time),
	}
}

// ShouldProceed returns true and stamps the key when no acceptance happened
// within window, false otherwise. A suppressed call leaves the stamp alone,
// so a steady stream of repeats cannot extend the window.
func (d *Deduper) ShouldProceed(key string, window time.Duration) bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	now := d.clock.Now()
	if last, ok := d.accepted[key]; ok && now.Sub(last) < window {
		return false
	}

	d.accepted[key] = now
	metrics.DedupKeys.Set(float64(len(d.accepted)))
	return true
}

// Gate wraps ShouldProceed and records the decision under scope.
func (d *Deduper) Gate(scope, key string, window time.Duration) bool {
	ok := d.ShouldProceed(key, window)
	outcome := "proceed"
	if !ok {
		outcome = "suppressed"
	}
	metrics.DedupDecisionsTotal.WithLabelValues(scope, outcome).Inc()
	return ok
}

// Forget drops the stamp for key so the next call proceeds. Callers use it
// when the work behind an accepted call failed.
func (d *Deduper) Forget(key string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	delete(d.accepted, key)
	metrics.DedupKeys.Set(float64(len(d.accepted)))
}

func (d *Deduper) Len() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.accepted)
}

// Prune drops keys accepted longer than retention ago. Keeping retention at
// or above the largest window leaves every decision unchanged.
func (d *Deduper) Prune(retention time.Duration) int {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	now := d.clock.Now()
	removed := 0
	for key, last := range d.accepted {
		if now.Sub(last) >= retention {
			delete(d.accepted, key)
			removed++
		}
	}
	metrics.DedupKeys.Set(float64(len(d.accepted)))
	return removed
}

// StartCleanupRoutine prunes periodically until ctx is done.
func (d *Deduper) StartCleanupRoutine(ctx context.Context, interval, retention time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if removed := d.Prune(retention); removed > 0 {
					logger.Debug("Dedup cleanup removed %d keys", removed)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
