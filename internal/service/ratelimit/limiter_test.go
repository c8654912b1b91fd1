package ratelimit

import "testing"

func TestLimiterConsumesCapacity(t *testing.T) {
	l := New(2, 0)
	if !l.Allow("a") || !l.Allow("a") {
		t.Fatalf("first two calls should pass")
	}
	if l.Allow("a") {
		t.Fatalf("capacity exhausted, third call should fail")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := New(1, 0)
	if !l.Allow("a") {
		t.Fatalf("fresh key should pass")
	}
	if !l.Allow("b") {
		t.Fatalf("different key should have its own bucket")
	}
	if l.Allow("a") {
		t.Fatalf("drained key should fail")
	}
}

func TestLimiterRefills(t *testing.T) {
	// Large refill rate so one drained token comes back within the test.
	l := New(1, 1e6)
	if !l.Allow("a") {
		t.Fatalf("first call should pass")
	}
	// Any measurable elapsed time refills at this rate.
	ok := false
	for i := 0; i < 1000 && !ok; i++ {
		ok = l.Allow("a")
	}
	if !ok {
		t.Fatalf("bucket never refilled")
	}
}
