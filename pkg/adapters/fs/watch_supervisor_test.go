package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
)

func TestWatcherSupervisorRestarts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(Config{Root: t.TempDir(), Debounce: 10 * time.Millisecond})

	paths := make(chan string)
	created := make(chan *watchWorker, 2)

	spec := supervisor.Spec{
		Name: "fs-watcher",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			ww := newWatchWorker(w, paths)
			created <- ww
			return ww, nil
		},
		Backoff: supervisor.Backoff{
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      1,
			ResetDuration:   50 * time.Millisecond,
			MaxRestarts:     2,
			MaxDuration:     200 * time.Millisecond,
		},
		RestartPolicy: supervisor.RestartOnFailure,
	}

	sup := supervisor.New("test-watcher", supervisor.StrategyOneForOne, spec)
	if err := sup.Start(ctx); err != nil {
		t.Fatalf("failed to start supervisor: %v", err)
	}

	first := waitForWorker(t, created, "first")
	waitForActive(t, w, true)

	waitForWatcherInit(t, first)
	_ = first.watcher.Close()

	second := waitForWorker(t, created, "second")
	if first == second {
		t.Fatalf("expected supervisor to restart watcher with a new instance")
	}
	waitForActive(t, w, true)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	if err := sup.Stop(stopCtx); err != nil {
		t.Fatalf("failed to stop supervisor: %v", err)
	}
}

func TestWatcherReportsMatchingFiles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := t.TempDir()
	w := NewWatcher(Config{Root: root, Debounce: 50 * time.Millisecond})
	paths := make(chan string, 8)

	ww := w.NewWorker(paths)
	if err := ww.Start(ctx); err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer stopCancel()
		_ = ww.Stop(stopCtx)
	}()
	waitForActive(t, w, true)

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(root, "deck.json")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte(`{"notes":[]}`), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case got := <-paths:
		if got != target {
			t.Fatalf("expected %s, got %s", target, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for %s", target)
	}

	select {
	case got := <-paths:
		t.Fatalf("expected a single debounced event, got another for %s", got)
	case <-time.After(150 * time.Millisecond):
	}

	state := w.State().(WatcherState)
	if state.Events != 1 || state.LastEvent == nil {
		t.Errorf("unexpected state %+v", state)
	}
}

func TestWatcherConfigDefaults(t *testing.T) {
	w := NewWatcher(Config{})
	state := w.State().(WatcherState)
	if state.Root != "." || state.Pattern != DefaultPattern || state.Debounce != DefaultDebounce.String() {
		t.Errorf("unexpected defaults %+v", state)
	}
	if w.ComponentType() != "watcher" {
		t.Errorf("unexpected component type %q", w.ComponentType())
	}
}

func waitForWorker(t *testing.T, ch <-chan *watchWorker, label string) *watchWorker {
	t.Helper()

	select {
	case w := <-ch:
		return w
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for %s worker", label)
		return nil
	}
}

func waitForWatcherInit(t *testing.T, w *watchWorker) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		if w.watcher != nil {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for watcher initialization")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func waitForActive(t *testing.T, w *Watcher, expected bool) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		state, ok := w.State().(WatcherState)
		if ok && state.Active == expected {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for watcher active = %v", expected)
		case <-time.After(10 * time.Millisecond):
		}
	}
}
