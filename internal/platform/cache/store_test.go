package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_SetGetAndDeletePrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)

	store.Set(ctx, "leaderboard:season:2026", "season")
	store.Set(ctx, "leaderboard:race:r1", "race")
	store.Set(ctx, "other", "keep")

	if v, ok := store.Get(ctx, "leaderboard:season:2026"); !ok || v.(string) != "season" {
		t.Fatalf("expected cached season entry, got %v %v", v, ok)
	}

	store.DeletePrefix(ctx, "leaderboard:")

	if _, ok := store.Get(ctx, "leaderboard:season:2026"); ok {
		t.Fatalf("expected season entry dropped")
	}
	if _, ok := store.Get(ctx, "leaderboard:race:r1"); ok {
		t.Fatalf("expected race entry dropped")
	}
	if _, ok := store.Get(ctx, "other"); !ok {
		t.Fatalf("expected unrelated entry kept")
	}
}

func TestStore_ExpiredEntryIsMiss(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(10 * time.Millisecond)
	store.Set(ctx, "key", "value")

	time.Sleep(25 * time.Millisecond)

	if _, ok := store.Get(ctx, "key"); ok {
		t.Fatalf("expected entry to have expired")
	}
}

func TestStore_GetOrLoad_SingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(15 * time.Millisecond)
		return "loaded", nil
	}

	const workers = 24
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same", loader)
			if err != nil {
				t.Errorf("load: %v", err)
				return
			}
			if v.(string) != "loaded" {
				t.Errorf("unexpected value %v", v)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 loader call, got %d", got)
	}
}

func TestStore_GetOrLoad_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	boom := errors.New("boom")
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return "ok", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if v.(string) != "ok" {
		t.Fatalf("unexpected value %v", v)
	}
}
