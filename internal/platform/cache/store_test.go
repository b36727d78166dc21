package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStore_GetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)

	if _, ok := store.Get(ctx, "league:l1"); ok {
		t.Fatal("expected miss on empty store")
	}

	store.Set(ctx, "league:l1", "value")
	got, ok := store.Get(ctx, "league:l1")
	if !ok || got != "value" {
		t.Fatalf("unexpected cached value: %v ok=%v", got, ok)
	}

	store.Invalidate(ctx, "league:l1")
	if _, ok := store.Get(ctx, "league:l1"); ok {
		t.Fatal("expected miss after invalidation")
	}
}

func TestStore_GetOrLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)

	loads := 0
	load := func() (any, error) {
		loads++
		return 7, nil
	}

	for i := 0; i < 3; i++ {
		got, err := store.GetOrLoad(ctx, "season:s1", load)
		if err != nil {
			t.Fatalf("GetOrLoad: %v", err)
		}
		if got != 7 {
			t.Fatalf("unexpected value: %v", got)
		}
	}
	if loads != 1 {
		t.Fatalf("expected a single load, got %d", loads)
	}

	_, err := store.GetOrLoad(ctx, "season:missing", func() (any, error) {
		return nil, errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected load error to propagate")
	}
	if _, ok := store.Get(ctx, "season:missing"); ok {
		t.Fatal("failed load must not be cached")
	}
}
