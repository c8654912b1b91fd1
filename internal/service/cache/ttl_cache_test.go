package cache

import (
	"context"
	"testing"
	"time"
)

func TestTTLCacheRoundTrip(t *testing.T) {
	c := NewTTLCache()
	ctx := context.Background()

	if _, ok, err := c.GetBytes(ctx, "missing"); ok || err != nil {
		t.Fatalf("miss expected, got ok=%v err=%v", ok, err)
	}

	if err := c.SetBytes(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	b, ok, err := c.GetBytes(ctx, "k")
	if err != nil || !ok || string(b) != "v" {
		t.Fatalf("get: %q ok=%v err=%v", b, ok, err)
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache()
	ctx := context.Background()

	if err := c.SetBytes(ctx, "k", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := c.GetBytes(ctx, "k"); ok {
		t.Fatalf("expired entry still served")
	}
}

func TestTTLCacheZeroTTLNeverExpires(t *testing.T) {
	c := NewTTLCache()
	ctx := context.Background()

	if err := c.SetBytes(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, ok, _ := c.GetBytes(ctx, "k"); !ok {
		t.Fatalf("zero ttl entry should persist")
	}
}
