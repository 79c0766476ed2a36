package lifecycle

import (
	"context"
	"testing"
	"time"
)

func TestSourceBridgesPaths(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paths := make(chan string)
	src := NewSource(paths)
	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	go func() { paths <- "decks/polski.json" }()

	select {
	case e := <-src.Events():
		dc, ok := e.(DocumentChanged)
		if !ok {
			t.Fatalf("unexpected event type %T", e)
		}
		if dc.Path != "decks/polski.json" {
			t.Errorf("unexpected path %q", dc.Path)
		}
		if e.String() != "document changed: decks/polski.json" {
			t.Errorf("unexpected string %q", e.String())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	close(paths)
	select {
	case _, ok := <-src.Events():
		if ok {
			t.Error("expected events channel to close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed")
	}
}
