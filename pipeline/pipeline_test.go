package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rushteam/movierec/core"
)

type funcNode struct {
	name string
	fn   func([]*core.Item) ([]*core.Item, error)
}

func (n *funcNode) Name() string { return n.name }
func (n *funcNode) Kind() Kind   { return KindFilter }
func (n *funcNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	return n.fn(items)
}

func items(ids ...int64) []*core.Item {
	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.NewItem(id))
	}
	return out
}

func TestPipeline_Run(t *testing.T) {
	dropFirst := &funcNode{name: "drop", fn: func(in []*core.Item) ([]*core.Item, error) { return in[1:], nil }}
	boom := errors.New("boom")
	failing := &funcNode{name: "failing", fn: func([]*core.Item) ([]*core.Item, error) { return nil, boom }}

	p := &Pipeline{Nodes: []Node{dropFirst, dropFirst}}
	got, err := p.Run(context.Background(), &core.RecommendContext{}, items(1, 2, 3))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ids := core.IDs(got); !reflect.DeepEqual(ids, []int64{3}) {
		t.Errorf("ids = %v", ids)
	}
	if names := p.Names(); !reflect.DeepEqual(names, []string{"drop", "drop"}) {
		t.Errorf("names = %v", names)
	}

	p = &Pipeline{Nodes: []Node{dropFirst, failing}}
	if _, err := p.Run(context.Background(), nil, items(1, 2)); !errors.Is(err, boom) || err.Error() != "failing: boom" {
		t.Errorf("err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Run(ctx, nil, items(1)); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want canceled", err)
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
pipeline:
  name: finalize
  nodes:
    - type: filter.expr
      config:
        expr: '"Horror" in movie.genres'
    - type: rerank.topn
      config:
        n: 10
`)
	cfg, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if cfg.Pipeline.Name != "finalize" || len(cfg.Pipeline.Nodes) != 2 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if got := cfg.Pipeline.Nodes[1].Config["n"]; got != 10 {
		t.Errorf("n = %#v", got)
	}

	if _, err := ParseYAML([]byte("pipeline:\n  nodez: []\n")); err == nil {
		t.Error("unknown field should fail")
	}
}

func TestNodeFactory(t *testing.T) {
	f := NewNodeFactory()
	var gotCfg map[string]any
	f.Register("noop", func(cfg map[string]any, _ Resources) (Node, error) {
		gotCfg = cfg
		return &funcNode{name: "noop", fn: func(in []*core.Item) ([]*core.Item, error) { return in, nil }}, nil
	})

	cfg := &Config{}
	cfg.Pipeline.Nodes = []NodeConfig{{Type: "noop"}}
	p, err := cfg.BuildPipeline(f, Resources{})
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	if len(p.Nodes) != 1 || gotCfg == nil {
		t.Errorf("nodes = %d, cfg = %v", len(p.Nodes), gotCfg)
	}

	cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, NodeConfig{Type: "missing"})
	if _, err := cfg.BuildPipeline(f, Resources{}); err == nil {
		t.Error("unknown type should fail")
	}
}
