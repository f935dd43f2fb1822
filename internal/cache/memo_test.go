package cache

import (
	"errors"
	"testing"
)

func TestMemoComputesOnce(t *testing.T) {
	m := New[string, int]()
	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}
	for i := 0; i < 3; i++ {
		v, err := m.Get("data/merge.csv", load)
		if err != nil || v != 42 {
			t.Fatalf("Get = %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Fatalf("fn ran %d times, want 1", calls)
	}
	if hits, misses := m.Stats(); hits != 2 || misses != 1 {
		t.Fatalf("stats = %d hits, %d misses", hits, misses)
	}
}

func TestMemoDoesNotCacheErrors(t *testing.T) {
	m := New[string, int]()
	boom := errors.New("boom")
	if _, err := m.Get("k", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if m.Len() != 0 {
		t.Fatal("error result was cached")
	}
	v, err := m.Get("k", func() (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Fatalf("retry Get = %v, %v", v, err)
	}
}

func TestMemoInvalidate(t *testing.T) {
	m := New[*struct{ n int }, string]()
	a, b := &struct{ n int }{1}, &struct{ n int }{1}
	calls := 0
	fn := func() (string, error) { calls++; return "x", nil }
	m.Get(a, fn)
	m.Get(b, fn)
	if calls != 2 {
		t.Fatalf("keys by identity: calls = %d, want 2", calls)
	}
	m.Invalidate(a)
	if _, ok := m.Peek(a); ok {
		t.Fatal("Peek after Invalidate found a value")
	}
	m.Get(a, fn)
	if calls != 3 {
		t.Fatalf("calls after invalidate = %d, want 3", calls)
	}
	m.Reset()
	if m.Len() != 0 {
		t.Fatalf("Len after Reset = %d", m.Len())
	}
}
