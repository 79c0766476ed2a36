package fs

import (
	"sync"
	"time"
)

// debouncer collapses bursts of events per key into one call after a quiet period.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timers  map[string]debounceTimer
	gen     uint64
	wg      sync.WaitGroup
	stopped bool
}

type debounceTimer struct {
	t   *time.Timer
	gen uint64
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]debounceTimer),
	}
}

// add (re)schedules fn for key. Only the last fn scheduled within the delay runs.
func (d *debouncer) add(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if prev, ok := d.timers[key]; ok && prev.t.Stop() {
		d.wg.Done()
	}

	d.gen++
	gen := d.gen
	d.wg.Add(1)
	d.timers[key] = debounceTimer{
		gen: gen,
		t: time.AfterFunc(d.delay, func() {
			defer d.wg.Done()

			d.mu.Lock()
			if cur, ok := d.timers[key]; ok && cur.gen == gen {
				delete(d.timers, key)
			}
			stopped := d.stopped
			d.mu.Unlock()

			if !stopped {
				fn()
			}
		}),
	}
}

// stopAndWait cancels pending calls and waits for running ones to return.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for key, pending := range d.timers {
		if pending.t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
