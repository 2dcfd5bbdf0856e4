package dedup

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sellerconnect/pkg/clock"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestShouldProceedWindow(t *testing.T) {
	fake := clock.NewFake(t0)
	d := NewDeduper(fake)

	assert.True(t, d.ShouldProceed("k", time.Second))
	assert.False(t, d.ShouldProceed("k", time.Second))

	fake.Advance(999 * time.Millisecond)
	assert.False(t, d.ShouldProceed("k", time.Second))

	fake.Advance(time.Millisecond)
	assert.True(t, d.ShouldProceed("k", time.Second))
}

func TestSuppressedCallDoesNotExtendWindow(t *testing.T) {
	fake := clock.NewFake(t0)
	d := NewDeduper(fake)

	assert.True(t, d.ShouldProceed("k", time.Second))
	fake.Advance(600 * time.Millisecond)
	assert.False(t, d.ShouldProceed("k", time.Second))
	fake.Advance(400 * time.Millisecond)

	// 1s after the accepted call, 400ms after the suppressed one.
	assert.True(t, d.ShouldProceed("k", time.Second))
}

func TestKeysAreIndependent(t *testing.T) {
	d := NewDeduper(clock.NewFake(t0))

	assert.True(t, d.ShouldProceed("a", time.Minute))
	assert.True(t, d.ShouldProceed("b", time.Minute))
	assert.False(t, d.ShouldProceed("a", time.Minute))
	assert.Equal(t, 2, d.Len())
}

func TestWindowIsPerCall(t *testing.T) {
	fake := clock.NewFake(t0)
	d := NewDeduper(fake)

	assert.True(t, d.ShouldProceed("k", 2*time.Second))
	fake.Advance(time.Second)
	assert.False(t, d.ShouldProceed("k", 2*time.Second))
	assert.True(t, d.ShouldProceed("k", time.Second))
}

func TestGateRecordsDecision(t *testing.T) {
	d := NewDeduper(clock.NewFake(t0))

	assert.True(t, d.Gate("test", "k", time.Second))
	assert.False(t, d.Gate("test", "k", time.Second))
}

func TestPrune(t *testing.T) {
	fake := clock.NewFake(t0)
	d := NewDeduper(fake)

	d.ShouldProceed("old", time.Second)
	fake.Advance(10 * time.Minute)
	d.ShouldProceed("new", time.Second)

	removed := d.Prune(5 * time.Minute)

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, d.Len())
	assert.False(t, d.ShouldProceed("new", time.Second))
	assert.True(t, d.ShouldProceed("old", time.Second))
}

func TestConcurrentChecksAcceptOnce(t *testing.T) {
	d := NewDeduper(clock.NewFake(t0))

	var accepted int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d.ShouldProceed("same", time.Second) {
				atomic.AddInt32(&accepted, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted)
}

func TestManyKeys(t *testing.T) {
	d := NewDeduper(clock.NewFake(t0))
	for i := 0; i < 100; i++ {
		assert.True(t, d.ShouldProceed(fmt.Sprintf("key-%d", i), time.Second))
	}
	assert.Equal(t, 100, d.Len())
}

func TestForgetReleasesKey(t *testing.T) {
	d := NewDeduper(clock.NewFake(t0))

	assert.True(t, d.ShouldProceed("k", time.Minute))
	d.Forget("k")

	assert.Equal(t, 0, d.Len())
	assert.True(t, d.ShouldProceed("k", time.Minute))
	d.Forget("missing")
}
