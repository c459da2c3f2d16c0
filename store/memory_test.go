package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/movierec/core"
)

func TestMemoryStore_GetSetTTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	if err := m.Set(ctx, "k", []byte("v"), 10); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	now = now.Add(11 * time.Second)
	if _, err := m.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Fatalf("expired Get err = %v, want not found", err)
	}
	if _, err := m.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Fatalf("missing Get err = %v, want not found", err)
	}
}

func TestMemoryStore_ZRange(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	_ = m.ZAdd(ctx, "z", 1, "a")
	_ = m.ZAdd(ctx, "z", 3, "c")
	_ = m.ZAdd(ctx, "z", 2, "b")

	tests := []struct {
		name        string
		start, stop int64
		want        []string
	}{
		{name: "all", start: 0, stop: -1, want: []string{"c", "b", "a"}},
		{name: "top two", start: 0, stop: 1, want: []string{"c", "b"}},
		{name: "stop beyond end", start: 1, stop: 10, want: []string{"b", "a"}},
		{name: "start after stop", start: 2, stop: 1, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.ZRange(ctx, "z", tt.start, tt.stop)
			if err != nil {
				t.Fatalf("ZRange: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ZRange = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("ZRange = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestMemoryStore_Hash(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	_ = m.HSet(ctx, "h", "f1", []byte("1"))
	_ = m.HSet(ctx, "h", "f2", []byte("2"))
	_ = m.HDel(ctx, "h", "f1")

	all, err := m.HGetAll(ctx, "h")
	if err != nil {
		t.Fatalf("HGetAll: %v", err)
	}
	if len(all) != 1 || string(all["f2"]) != "2" {
		t.Fatalf("HGetAll = %v", all)
	}
	if _, err := m.HGet(ctx, "h", "f1"); !core.IsStoreNotFound(err) {
		t.Fatalf("HGet deleted field err = %v", err)
	}
	empty, err := m.HGetAll(ctx, "nope")
	if err != nil || len(empty) != 0 {
		t.Fatalf("HGetAll missing = %v, %v", empty, err)
	}
}
