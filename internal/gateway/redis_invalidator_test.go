package gateway

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisInvalidatorDeletesNamespacedKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	inv := NewRedisInvalidator(&redis.Options{Addr: mr.Addr()})
	defer inv.Close()

	ctx := context.Background()
	if err := inv.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	if err := mr.Set("guildcore:view:wallets/w1", "cached"); err != nil {
		t.Fatalf("seed key: %v", err)
	}
	if err := mr.Set("guildcore:view:cycles/c1/pitches", "cached"); err != nil {
		t.Fatalf("seed key: %v", err)
	}
	if err := mr.Set("guildcore:view:wallets/w2", "untouched"); err != nil {
		t.Fatalf("seed key: %v", err)
	}

	if err := inv.Invalidate(ctx, []string{"wallets/w1", "cycles/c1/pitches"}); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	if mr.Exists("guildcore:view:wallets/w1") || mr.Exists("guildcore:view:cycles/c1/pitches") {
		t.Fatalf("expected keys evicted")
	}
	if !mr.Exists("guildcore:view:wallets/w2") {
		t.Fatalf("unrelated key must survive")
	}
}

func TestRedisInvalidatorIgnoresEmptyKeySet(t *testing.T) {
	mr := miniredis.RunT(t)
	inv := NewRedisInvalidator(&redis.Options{Addr: mr.Addr()})
	defer inv.Close()

	if err := inv.Invalidate(context.Background(), nil); err != nil {
		t.Fatalf("empty invalidation should be a no-op: %v", err)
	}
}
