package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/movierec/core"
)

func TestPreferenceStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	ps := NewPreferenceStore(NewMemoryStore(), "test")
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	steps := []core.PreferenceSignal{
		{UserID: 1, ItemID: 10, Value: core.SignalLike, Timestamp: t0},
		{UserID: 1, ItemID: 20, Value: core.SignalDislike, Timestamp: t0.Add(time.Minute)},
		{UserID: 1, ItemID: 10, Value: core.SignalDislike, Timestamp: t0.Add(2 * time.Minute)},
	}
	for _, s := range steps {
		if err := ps.Upsert(ctx, s); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	got, err := ps.Signals(ctx, 1)
	if err != nil {
		t.Fatalf("Signals: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Signals len = %d, want 2: %+v", len(got), got)
	}
	if got[0].ItemID != 20 || got[1].ItemID != 10 || got[1].Value != core.SignalDislike {
		t.Fatalf("Signals = %+v", got)
	}
}

func TestPreferenceStore_Remove(t *testing.T) {
	ctx := context.Background()
	ps := NewPreferenceStore(NewMemoryStore(), "")
	_ = ps.Upsert(ctx, core.PreferenceSignal{UserID: 7, ItemID: 1, Value: core.SignalLike})
	if err := ps.Remove(ctx, 7, 1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := ps.Remove(ctx, 7, 99); err != nil {
		t.Fatalf("Remove missing: %v", err)
	}
	got, err := ps.Signals(ctx, 7)
	if err != nil || len(got) != 0 {
		t.Fatalf("Signals after remove = %+v, %v", got, err)
	}
}

func TestPreferenceStore_RejectsInvalidSignal(t *testing.T) {
	ps := NewPreferenceStore(NewMemoryStore(), "")
	err := ps.Upsert(context.Background(), core.PreferenceSignal{UserID: 1, ItemID: 1, Value: 0})
	if !core.IsInvalidInput(err) {
		t.Fatalf("Upsert err = %v, want invalid input", err)
	}
}

func TestPreferenceStore_Settings(t *testing.T) {
	ctx := context.Background()
	ps := NewPreferenceStore(NewMemoryStore(), "")

	if _, err := ps.Settings(ctx, 3); !core.IsStoreNotFound(err) {
		t.Fatalf("Settings missing err = %v", err)
	}

	in := core.UserSettings{UserID: 3, Strategy: "bogus", ContentWeight: 1, CollaborativeWeight: 2}
	if err := ps.SaveSettings(ctx, in); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	got, err := ps.Settings(ctx, 3)
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if got.Strategy != core.StrategyHybrid || got.ContentWeight != 1 || got.CollaborativeWeight != 2 {
		t.Fatalf("Settings = %+v", got)
	}
}

func TestPopularityRanking_PublishTop(t *testing.T) {
	ctx := context.Background()
	p := NewPopularityRanking(NewMemoryStore(), "")
	if err := p.Publish(ctx, []int64{5, 3, 9, 1}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	got, err := p.Top(ctx, 3)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	want := []int64{5, 3, 9}
	if len(got) != len(want) {
		t.Fatalf("Top = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Top = %v, want %v", got, want)
		}
	}
	if got, _ := p.Top(ctx, 0); len(got) != 0 {
		t.Fatalf("Top(0) = %v", got)
	}
}
