package recall

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/rank"
)

// HybridRecall 融合内容与协同两路信号。
//
// 取最近的 Seeds 个点赞作为种子。协同列表每次请求只计算一次，取前 2N。
// 对每个种子：内容近邻取前 2N，两路分别按名次归一化，用用户权重融合后保留前 N；
// 各种子的结果按种子顺序拼接、去重，截断到 limit。
type HybridRecall struct {
	Index         core.SimilarityIndex
	Collaborative *CollaborativeRecall

	// Seeds 使用的最近点赞数，默认 2
	Seeds int

	// PerSeed 每个种子保留的条数 N，默认 15
	PerSeed int
}

var _ Source = (*HybridRecall)(nil)

func (r *HybridRecall) Name() string { return "recall.hybrid" }

func (r *HybridRecall) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if rctx == nil {
		return []*core.Item{}, nil
	}
	seeds := rctx.LikedItems(orDefault(r.Seeds, 2))
	if len(seeds) == 0 {
		return []*core.Item{}, nil
	}

	n := orDefault(r.PerSeed, 15)

	var cf []*core.Item
	if r.Collaborative != nil {
		ranked, err := r.Collaborative.Rank(ctx, rctx)
		if err != nil {
			return nil, err
		}
		cf = rank.Normalize(Truncate(ranked, 2*n))
	}

	wcb, wcf := rctx.Settings.ContentWeight, rctx.Settings.CollaborativeWeight
	all := make([]*core.Item, 0, len(seeds)*n)
	for _, seed := range seeds {
		var cb []*core.Item
		if r.Index != nil {
			cb = rank.Normalize(SeedNeighbors(ctx, r.Index, seed, 2*n))
		}
		blended := rank.Blend(cb, cf, wcb, wcf)
		all = append(all, rank.TopN(blended, n)...)
	}
	return Truncate(ConcatDedup(all), limitOf(rctx, 20)), nil
}
