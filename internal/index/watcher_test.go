package index

import (
	"context"
	"sync"
	"testing"
	"time"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcher_ReloadsOnExternalSwap(t *testing.T) {
	store, idx := openIndex(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	reloads := 0

	go Watch(ctx, idx, testLogger(), func() {
		mu.Lock()
		reloads++
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	// Swap the document in from outside the Index handle, the way a sync
	// client would (atomic temp-file + rename).
	swapped := []byte(`{"notes":[{"id":"ext","title":"External","createdAt":"2026-08-01T00:00:00Z","updatedAt":"2026-08-01T00:00:00Z","important":false,"filename":"ext.txt","images":[],"tags":[],"linksTo":[],"isDaily":false}],"notebooks":[],"templates":[]}`)
	if err := store.Write(FilePath, swapped); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, err := idx.GetNote("ext")
		return err == nil
	}, "swapped-in note not visible after watcher reload")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return reloads >= 1
	}, "reload callback never fired")
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	store, idx := openIndex(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	reloads := 0

	go Watch(ctx, idx, testLogger(), func() {
		mu.Lock()
		reloads++
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	if err := store.Write("meta/scratch.json", []byte("{}")); err != nil {
		t.Fatal(err)
	}

	time.Sleep(500 * time.Millisecond)
	mu.Lock()
	got := reloads
	mu.Unlock()
	if got != 0 {
		t.Errorf("reloads = %d, want 0 for unrelated file", got)
	}
}
