package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemory_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, ok, _ := m.Get(ctx, TraceKey("LOT-1")); ok {
		t.Fatal("expected miss on empty cache")
	}
	if err := m.Set(ctx, TraceKey("LOT-1"), []byte(`{"nodes":[]}`), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	data, ok, err := m.Get(ctx, TraceKey("LOT-1"))
	if err != nil || !ok || string(data) != `{"nodes":[]}` {
		t.Fatalf("expected hit, got %q %v %v", data, ok, err)
	}
	if err := m.Delete(ctx, TraceKey("LOT-1")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := m.Get(ctx, TraceKey("LOT-1")); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	_ = m.Set(ctx, "k", []byte("v"), time.Second)
	now = now.Add(2 * time.Second)
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestNull_NeverHits(t *testing.T) {
	ctx := context.Background()
	var c Cache = Null{}
	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected silent miss, got %v %v", ok, err)
	}
}

func TestTraceKey(t *testing.T) {
	if got := TraceKey("LOT-2024-0001"); got != "trace:LOT-2024-0001" {
		t.Fatalf("unexpected key %q", got)
	}
}

var (
	_ Cache = Null{}
	_ Cache = (*Memory)(nil)
	_ Cache = (*Redis)(nil)
)

func TestNewRedis_Errors(t *testing.T) {
	if _, err := NewRedis(context.Background(), RedisOptions{}); err == nil {
		t.Fatalf("expected error for empty address")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := NewRedis(ctx, RedisOptions{Addr: "127.0.0.1:1"}); err == nil {
		t.Fatalf("expected ping failure for unreachable server")
	}
}

func TestRedis_KeyPrefix(t *testing.T) {
	r := &Redis{prefix: "lottrace:"}
	if got := r.key(TraceKey("LOT-1")); got != "lottrace:trace:LOT-1" {
		t.Fatalf("unexpected key %q", got)
	}
}
