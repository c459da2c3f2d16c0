package strategy

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/rushteam/movierec/catalog"
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/recall"
	"github.com/rushteam/movierec/store"
)

// 目录：100..1200，模型 ID = 电影 ID / 100。
func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	movies := make([]core.Movie, 0, 12)
	for i := int64(1); i <= 12; i++ {
		movies = append(movies, core.Movie{
			ID:       i * 100,
			ModelIDs: []int64{i},
			Title:    fmt.Sprintf("m%d", i*100),
			Genres:   []string{"Drama"},
		})
	}
	c, skipped := catalog.New(movies)
	if skipped != 0 {
		t.Fatalf("skipped = %d", skipped)
	}
	return c
}

func newTestIndex() *recall.SimilarityIndex {
	return recall.NewSimilarityIndex(map[int64][]core.ScoredID{
		100: {{ID: 200, Score: 0.9}, {ID: 300, Score: 0.8}, {ID: 400, Score: 0.7}},
		500: {{ID: 600, Score: 0.9}, {ID: 200, Score: 0.5}},
	})
}

// svdStub 的估计值随模型 ID 递减，模型 ID 3 没有估计值。
type svdStub struct{}

func (svdStub) Predict(_ int64, mid int64) (float64, error) {
	if mid == 3 {
		return 0, core.ErrNoEstimate
	}
	return 5 - float64(mid)*0.1, nil
}

func (svdStub) ItemDomain() []int64 {
	return []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
}

func (svdStub) RatedItems(int64) []int64 { return nil }

var testPopularity = recall.StaticRanking{1200, 1100, 100, 900, 800, 700}

func newTestResolver(t *testing.T, mutate func(*Deps)) *Resolver {
	t.Helper()
	deps := Deps{
		Catalog:    newTestCatalog(t),
		Similarity: newTestIndex(),
		Model:      svdStub{},
		Popularity: testPopularity,
	}
	if mutate != nil {
		mutate(&deps)
	}
	r, err := NewResolver(deps, WithRequestID(func() string { return "req-1" }))
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}

func signal(item int64, v core.Signal, minute int) core.PreferenceSignal {
	return core.PreferenceSignal{
		UserID:    1,
		ItemID:    item,
		Value:     v,
		Timestamp: time.Date(2024, 1, 1, 0, minute, 0, 0, time.UTC),
	}
}

func settingsFor(s core.Strategy) *core.UserSettings {
	us := core.DefaultUserSettings(1)
	us.Strategy = s
	return &us
}

func TestResolver_Strategies(t *testing.T) {
	likes := []core.PreferenceSignal{
		signal(100, core.SignalLike, 1),
		signal(500, core.SignalLike, 2),
		signal(300, core.SignalDislike, 3),
	}

	tests := []struct {
		name     string
		strategy core.Strategy
		count    int
		want     []int64
		used     core.Strategy
	}{
		{
			name:     "content walks most recent likes first",
			strategy: core.StrategyContent,
			want:     []int64{600, 200, 400},
			used:     core.StrategyContent,
		},
		{
			name:     "collaborative skips missing estimates",
			strategy: core.StrategyCollaborative,
			count:    3,
			want:     []int64{200, 400, 600},
			used:     core.StrategyCollaborative,
		},
		{
			name:     "popularity filters rated after limit",
			strategy: core.StrategyPopularity,
			count:    3,
			want:     []int64{1200, 1100},
			used:     core.StrategyPopularity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(t, nil)
			resp, err := r.Resolve(context.Background(), Request{
				UserID:   1,
				Count:    tt.count,
				Settings: settingsFor(tt.strategy),
				Signals:  likes,
			})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got := resp.IDs(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
			if resp.UsedStrategy != tt.used {
				t.Errorf("used = %s, want %s", resp.UsedStrategy, tt.used)
			}
			if resp.RequestID != "req-1" {
				t.Errorf("request id = %q", resp.RequestID)
			}
		})
	}
}

func TestResolver_NoRatedLeakageAndNoDuplicates(t *testing.T) {
	signals := []core.PreferenceSignal{
		signal(100, core.SignalLike, 1),
		signal(500, core.SignalLike, 2),
		signal(200, core.SignalDislike, 3),
		signal(1200, core.SignalDislike, 4),
	}
	strategies := []core.Strategy{
		core.StrategyContent, core.StrategyCollaborative, core.StrategyHybrid, core.StrategyPopularity,
	}
	r := newTestResolver(t, nil)
	for _, s := range strategies {
		t.Run(string(s), func(t *testing.T) {
			resp, err := r.Resolve(context.Background(), Request{UserID: 1, Settings: settingsFor(s), Signals: signals})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			seen := map[int64]bool{}
			for _, id := range resp.IDs() {
				switch id {
				case 100, 500, 200, 1200:
					t.Errorf("rated item %d leaked", id)
				}
				if seen[id] {
					t.Errorf("duplicate item %d", id)
				}
				seen[id] = true
			}
			if len(resp.Items) == 0 {
				t.Error("expected recommendations")
			}
		})
	}
}

func TestResolver_FallbackToPopularity(t *testing.T) {
	// 点赞 100，并且已经反馈过它的全部近邻：召回非空，收尾后为空
	ratedNeighbors := []core.PreferenceSignal{
		signal(100, core.SignalLike, 1),
		signal(200, core.SignalDislike, 2),
		signal(300, core.SignalDislike, 3),
		signal(400, core.SignalDislike, 4),
	}

	tests := []struct {
		name     string
		strategy core.Strategy
		mutate   func(*Deps)
		signals  []core.PreferenceSignal

		// hasCandidates 表示召回阶段本身有结果，降级由收尾过滤触发
		hasCandidates bool
	}{
		{name: "content without likes", strategy: core.StrategyContent},
		{name: "hybrid without likes", strategy: core.StrategyHybrid, signals: []core.PreferenceSignal{signal(100, core.SignalDislike, 1)}},
		{
			name:     "content with unknown seed",
			strategy: core.StrategyContent,
			signals:  []core.PreferenceSignal{signal(900, core.SignalLike, 1)},
		},
		{
			name:     "collaborative without model",
			strategy: core.StrategyCollaborative,
			mutate:   func(d *Deps) { d.Model = nil },
			signals:  []core.PreferenceSignal{signal(100, core.SignalLike, 1)},
		},
		{
			name:     "content without similarity index",
			strategy: core.StrategyContent,
			mutate:   func(d *Deps) { d.Similarity = nil },
			signals:  []core.PreferenceSignal{signal(100, core.SignalLike, 1)},
		},
		{
			name:          "content neighbors all rated",
			strategy:      core.StrategyContent,
			mutate:        func(d *Deps) { d.Model = nil },
			signals:       ratedNeighbors,
			hasCandidates: true,
		},
		{
			name:          "hybrid candidates all rated",
			strategy:      core.StrategyHybrid,
			mutate:        func(d *Deps) { d.Model = nil },
			signals:       ratedNeighbors,
			hasCandidates: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(t, tt.mutate)
			signals := tt.signals
			if signals == nil {
				signals = []core.PreferenceSignal{}
			}
			if tt.hasCandidates {
				rctx := &core.RecommendContext{
					UserID: 1, Count: 4, Settings: *settingsFor(tt.strategy), Signals: signals,
				}
				candidates, err := r.sources[tt.strategy].Recall(context.Background(), rctx)
				if err != nil || len(candidates) == 0 {
					t.Fatalf("recall before finalization = %v, %v; want candidates", core.IDs(candidates), err)
				}
			}
			resp, err := r.Resolve(context.Background(), Request{
				UserID: 1, Count: 4, Settings: settingsFor(tt.strategy), Signals: signals,
			})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if !resp.FellBack || resp.UsedStrategy != core.StrategyPopularity {
				t.Fatalf("fell back = %v used = %s", resp.FellBack, resp.UsedStrategy)
			}
			if resp.RequestedStrategy != tt.strategy {
				t.Errorf("requested = %s, want %s", resp.RequestedStrategy, tt.strategy)
			}

			rctx := &core.RecommendContext{Signals: signals}
			var want []int64
			for _, id := range testPopularity[:4] {
				if !rctx.HasRated(id) {
					want = append(want, id)
				}
			}
			if got := resp.IDs(); !reflect.DeepEqual(got, want) {
				t.Errorf("ids = %v, want %v", got, want)
			}
		})
	}
}

func TestResolver_CountContract(t *testing.T) {
	r := newTestResolver(t, nil)
	signals := []core.PreferenceSignal{signal(100, core.SignalLike, 1)}

	for _, count := range []int{1, 2, 5, 50} {
		resp, err := r.Resolve(context.Background(), Request{
			UserID: 1, Count: count, Settings: settingsFor(core.StrategyCollaborative), Signals: signals,
		})
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if len(resp.Items) > count {
			t.Errorf("count %d: got %d items", count, len(resp.Items))
		}
	}

	resp, err := r.Resolve(context.Background(), Request{
		UserID: 1, Settings: settingsFor(core.StrategyCollaborative), Signals: signals,
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// 12 部电影，去掉已点赞的 100 和没有估计值的 300
	if len(resp.Items) != 10 {
		t.Errorf("default count: got %d items, want 10", len(resp.Items))
	}
}

func TestResolver_DefaultsToHybrid(t *testing.T) {
	kv := store.NewMemoryStore()
	prefs := store.NewPreferenceStore(kv, "test")
	ctx := context.Background()
	if err := prefs.Upsert(ctx, signal(100, core.SignalLike, 1)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	r := newTestResolver(t, func(d *Deps) {
		d.Preferences = prefs
		d.Settings = prefs
	})
	resp, err := r.Resolve(ctx, Request{UserID: 1, Count: 5})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resp.RequestedStrategy != core.StrategyHybrid || resp.UsedStrategy != core.StrategyHybrid {
		t.Errorf("strategy = %s/%s, want hybrid", resp.RequestedStrategy, resp.UsedStrategy)
	}
	for _, id := range resp.IDs() {
		if id == 100 {
			t.Error("liked item leaked")
		}
	}

	unknown := core.UserSettings{UserID: 1, Strategy: "deep-learning", ContentWeight: 0.6, CollaborativeWeight: 0.4}
	if err := prefs.SaveSettings(ctx, unknown); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	resp, err = r.Resolve(ctx, Request{UserID: 1, Count: 5})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resp.RequestedStrategy != core.StrategyHybrid {
		t.Errorf("unknown strategy resolved to %s", resp.RequestedStrategy)
	}
}

func TestResolver_Deterministic(t *testing.T) {
	r := newTestResolver(t, nil)
	req := Request{
		UserID:   1,
		Settings: settingsFor(core.StrategyHybrid),
		Signals:  []core.PreferenceSignal{signal(100, core.SignalLike, 1), signal(500, core.SignalLike, 2)},
	}
	first, err := r.Resolve(context.Background(), req)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := r.Resolve(context.Background(), req)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if !reflect.DeepEqual(first.Items, again.Items) {
			t.Fatalf("run %d differs: %v vs %v", i, first.IDs(), again.IDs())
		}
	}
}

type brokenStore struct{}

func (brokenStore) Signals(context.Context, int64) ([]core.PreferenceSignal, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) Upsert(context.Context, core.PreferenceSignal) error { return nil }

func (brokenStore) Remove(context.Context, int64, int64) error { return nil }

func (brokenStore) Settings(context.Context, int64) (core.UserSettings, error) {
	return core.UserSettings{}, errors.New("connection refused")
}

func (brokenStore) SaveSettings(context.Context, core.UserSettings) error { return nil }

func TestResolver_StoreUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Deps)
		req    Request
	}{
		{
			name:   "settings",
			mutate: func(d *Deps) { d.Settings = brokenStore{} },
			req:    Request{UserID: 1, Signals: []core.PreferenceSignal{}},
		},
		{
			name:   "preferences",
			mutate: func(d *Deps) { d.Preferences = brokenStore{} },
			req:    Request{UserID: 1, Settings: settingsFor(core.StrategyContent)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(t, tt.mutate)
			_, err := r.Resolve(context.Background(), tt.req)
			if !errors.Is(err, core.ErrUpstreamUnavailable) {
				t.Fatalf("err = %v, want upstream unavailable", err)
			}
			if !core.IsUnavailable(err) {
				t.Errorf("IsUnavailable(%v) = false", err)
			}
		})
	}
}

func TestResolver_Canceled(t *testing.T) {
	r := newTestResolver(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Resolve(ctx, Request{
		UserID: 1, Settings: settingsFor(core.StrategyCollaborative),
		Signals: []core.PreferenceSignal{signal(100, core.SignalLike, 1)},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestResolver_Presentation(t *testing.T) {
	r := newTestResolver(t, nil)
	resp, err := r.Resolve(context.Background(), Request{
		UserID: 1, Count: 1, Settings: settingsFor(core.StrategyContent),
		Signals: []core.PreferenceSignal{signal(100, core.SignalLike, 1)},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("got %d items", len(resp.Items))
	}
	got := resp.Items[0]
	if got.ItemID != 200 || got.Title != "m200" || got.Source != "content" {
		t.Errorf("item = %+v", got)
	}
	if got.PosterRef == "" {
		t.Error("poster ref should fall back to a placeholder")
	}
}

func TestNewResolver_RequiresCatalog(t *testing.T) {
	if _, err := NewResolver(Deps{}); !core.IsInvalidInput(err) {
		t.Fatalf("err = %v, want invalid input", err)
	}
}
