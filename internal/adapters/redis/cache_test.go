package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	redisad "yacht_automate/internal/adapters/redis"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

type payload struct {
	Name   string `json:"name"`
	Guests int    `json:"guests"`
}

func TestCache_SetGetDel(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	var out payload
	if ok, err := c.Get(ctx, "k", &out); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, "k", payload{Name: "SPECTRE", Guests: 10}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ok, err := c.Get(ctx, "k", &out); !ok || err != nil || out.Name != "SPECTRE" {
		t.Fatalf("expected hit, got ok=%v err=%v out=%+v", ok, err, out)
	}

	mr.FastForward(61 * time.Second)
	if ok, _ := c.Get(ctx, "k", &out); ok {
		t.Fatalf("expected key to expire")
	}

	_ = c.Set(ctx, "k2", payload{}, 60)
	if err := c.Del(ctx, "k2"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("k2") {
		t.Fatalf("k2 should be gone")
	}
}

func TestCache_DelPrefix(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	for _, k := range []string{"yachts:t1:a", "yachts:t1:b", "yachts:t2:a"} {
		if err := c.Set(ctx, k, payload{}, 60); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	if err := c.DelPrefix(ctx, "yachts:t1:"); err != nil {
		t.Fatalf("DelPrefix: %v", err)
	}
	if mr.Exists("yachts:t1:a") || mr.Exists("yachts:t1:b") {
		t.Fatalf("tenant t1 keys should be gone")
	}
	if !mr.Exists("yachts:t2:a") {
		t.Fatalf("tenant t2 key should survive")
	}
}

func TestIdempotency_FirstWriterWins(t *testing.T) {
	c, _ := newCache(t)
	idem := redisad.NewIdempotency(c)
	ctx := context.Background()

	var out payload
	if ok, _ := idem.Lookup(ctx, "t1", "key-1", &out); ok {
		t.Fatalf("expected miss")
	}
	if err := idem.Remember(ctx, "t1", "key-1", payload{Name: "first"}, time.Hour); err != nil {
		t.Fatalf("remember: %v", err)
	}
	if err := idem.Remember(ctx, "t1", "key-1", payload{Name: "second"}, time.Hour); err != nil {
		t.Fatalf("remember: %v", err)
	}
	if ok, err := idem.Lookup(ctx, "t1", "key-1", &out); !ok || err != nil || out.Name != "first" {
		t.Fatalf("expected first response, got ok=%v err=%v out=%+v", ok, err, out)
	}
	if ok, _ := idem.Lookup(ctx, "t2", "key-1", &out); ok {
		t.Fatalf("keys must be tenant scoped")
	}
}
