package rerank

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
)

// DedupNode 按 ID 去重，保留第一次出现的物品，不改变顺序。
type DedupNode struct{}

func (n *DedupNode) Name() string        { return "rerank.dedup" }
func (n *DedupNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *DedupNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	seen := make(map[int64]struct{}, len(items))
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out, nil
}
