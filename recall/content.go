package recall

import (
	"context"
	"strconv"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/utils"
)

// ContentRecall 是基于内容的召回源（Content-Based Recommendation）。
//
// 核心思想："用户喜欢某部电影，推荐与它内容相似的其他电影"。
// 取最近的 Seeds 个点赞作为种子，每个种子取 Neighbors 个近邻，按种子顺序拼接、去重，截断到 limit。
type ContentRecall struct {
	Index core.SimilarityIndex

	// Seeds 使用的最近点赞数，默认 3
	Seeds int

	// Neighbors 每个种子的近邻数，默认 10
	Neighbors int
}

var _ Source = (*ContentRecall)(nil)

func (r *ContentRecall) Name() string { return "recall.content" }

func (r *ContentRecall) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if r.Index == nil || rctx == nil {
		return []*core.Item{}, nil
	}
	seeds := rctx.LikedItems(orDefault(r.Seeds, 3))
	if len(seeds) == 0 {
		return []*core.Item{}, nil
	}

	k := orDefault(r.Neighbors, 10)
	all := make([]*core.Item, 0, len(seeds)*k)
	for _, seed := range seeds {
		all = append(all, SeedNeighbors(ctx, r.Index, seed, k)...)
	}
	return Truncate(ConcatDedup(all), limitOf(rctx, 20)), nil
}

// SeedNeighbors 把单个种子的近邻封装为 Item，分数为相似度。
func SeedNeighbors(ctx context.Context, index core.SimilarityIndex, seed int64, k int) []*core.Item {
	neighbors := index.Neighbors(ctx, seed, k)
	out := make([]*core.Item, 0, len(neighbors))
	seedLabel := strconv.FormatInt(seed, 10)
	for _, n := range neighbors {
		it := core.NewItem(n.ID)
		it.Score = n.Score
		it.RawScore = n.Score
		it.PutLabel(utils.LabelRecallSource, utils.RecallLabel("content"))
		it.PutLabel(utils.LabelRecallSeed, utils.RecallLabel(seedLabel))
		out = append(out, it)
	}
	return out
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
