package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestCollectorSnapshot(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(500, 30*time.Millisecond)
	c.Record(429, 2*time.Millisecond)
	c.CheckIn()
	c.CheckOut()
	c.Conflict()
	c.Export(12)

	snap := c.Snapshot()
	want := map[string]uint64{
		"requestsTotal":     3,
		"errorsTotal":       1,
		"rateLimitedTotal":  1,
		"totalDurationMs":   42,
		"checkInsTotal":     1,
		"checkOutsTotal":    1,
		"conflictsTotal":    1,
		"exportsTotal":      1,
		"exportedRowsTotal": 12,
	}
	for key, v := range want {
		if snap[key] != v {
			t.Fatalf("%s = %v, want %d", key, snap[key], v)
		}
	}
	if snap["avgDurationMs"] != float64(14) {
		t.Fatalf("unexpected average %v", snap["avgDurationMs"])
	}
}

func TestCollectorConcurrent(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Record(200, time.Millisecond)
			c.CheckIn()
		}()
	}
	wg.Wait()
	if got := c.Snapshot()["checkInsTotal"]; got != uint64(50) {
		t.Fatalf("expected 50 check-ins, got %v", got)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.Record(200, time.Millisecond)
	c.CheckIn()
	c.CheckOut()
	c.Conflict()
	c.Export(1)
	if len(c.Snapshot()) != 0 {
		t.Fatal("expected empty snapshot")
	}
}
