package builders

import (
	"context"
	"testing"

	"github.com/rushteam/movierec/config"
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
)

type setCatalog map[int64]*core.Movie

func (c setCatalog) Lookup(id int64) (*core.Movie, bool) {
	m, ok := c[id]
	return m, ok
}
func (c setCatalog) LookupByModelID(int64) (*core.Movie, bool) { return nil, false }
func (c setCatalog) Contains(id int64) bool {
	_, ok := c[id]
	return ok
}

const chain = `
pipeline:
  name: finalize
  nodes:
    - type: filter
      config:
        filters:
          - type: rated
          - type: catalog
          - type: blacklist
            item_ids: [4]
    - type: filter.expr
      config:
        expr: '"Horror" in movie.genres'
    - type: rerank.dedup
    - type: rerank.topn
      config:
        n: 2
`

func TestBuildFromYAML(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(chain))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		t.Fatalf("ValidatePipelineConfig: %v", err)
	}
	cat := setCatalog{
		1: {ID: 1, Title: "a", Genres: []string{"Drama"}},
		2: {ID: 2, Title: "b", Genres: []string{"Horror"}},
		3: {ID: 3, Title: "c"},
		4: {ID: 4, Title: "d"},
		5: {ID: 5, Title: "e"},
		6: {ID: 6, Title: "f"},
	}
	p, err := cfg.BuildPipeline(config.DefaultFactory(), pipeline.Resources{Catalog: cat})
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}

	rctx := &core.RecommendContext{
		UserID:  1,
		Count:   20,
		Signals: []core.PreferenceSignal{{UserID: 1, ItemID: 3, Value: core.SignalDislike}},
	}
	var in []*core.Item
	for _, id := range []int64{9, 2, 3, 4, 1, 1, 5, 6} {
		in = append(in, core.NewItem(id))
	}
	out, err := p.Run(context.Background(), rctx, in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := core.IDs(out)
	want := []int64{1, 5}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Run = %v, want %v", got, want)
	}
}

func TestValidatePipelineConfig_UnknownType(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte("pipeline:\n  nodes:\n    - type: rank.lr\n"))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if err := config.ValidatePipelineConfig(cfg); err == nil {
		t.Fatal("expected unsupported node type error")
	}
}

func TestBuildExprFilter_RequiresExpr(t *testing.T) {
	if _, err := config.DefaultFactory().Build("filter.expr", nil, pipeline.Resources{}); err == nil {
		t.Fatal("expected error for missing expr")
	}
}
