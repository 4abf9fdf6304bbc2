package watcher

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	var last atomic.Int32
	var calls atomic.Int32
	for i := int32(1); i <= 3; i++ {
		v := i
		d.Trigger(func() {
			last.Store(v)
			calls.Add(1)
		})
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)
	if calls.Load() != 1 {
		t.Errorf("callback called %d times, want 1", calls.Load())
	}
	if last.Load() != 3 {
		t.Errorf("ran callback %d, want the latest (3)", last.Load())
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	d.Trigger(func() { calls.Add(1) })

	time.Sleep(150 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("callback called %d times after Stop", calls.Load())
	}

	// Stop is idempotent.
	d.Stop()
}
