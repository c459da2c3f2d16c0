package rank

import (
	"sort"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/utils"
)

// Feature keys written by Blend for explain.
const (
	FeatureContentScore       = "score_cb"
	FeatureCollaborativeScore = "score_cf"
)

// Blend 融合内容与协同两路已归一化的列表（按 ID 全外连接）。
//
//   - 只在一路出现的物品，另一路按 0 计
//   - 融合分 = cb*wcb + cf*wcf，权重不要求和为 1
//   - 按融合分降序稳定排序：同分时内容列表中的物品在前（按其顺序），
//     其后是仅出现在协同列表中的物品（按其顺序）
//
// 两路都为空时返回空列表。输入不被修改。
func Blend(cb, cf []*core.Item, wcb, wcf float64) []*core.Item {
	byID := make(map[int64]*core.Item, len(cb)+len(cf))
	out := make([]*core.Item, 0, len(cb)+len(cf))

	for _, it := range cb {
		if it == nil {
			continue
		}
		if _, ok := byID[it.ID]; ok {
			continue
		}
		merged := it.Clone()
		merged.PutFeature(FeatureContentScore, it.Score)
		merged.PutFeature(FeatureCollaborativeScore, 0)
		merged.PutLabel(utils.LabelRankModel, utils.Label{Value: "blend", Source: "rank"})
		byID[it.ID] = merged
		out = append(out, merged)
	}
	seenCF := make(map[int64]struct{}, len(cf))
	for _, it := range cf {
		if it == nil {
			continue
		}
		if _, ok := seenCF[it.ID]; ok {
			continue
		}
		seenCF[it.ID] = struct{}{}
		if merged, ok := byID[it.ID]; ok {
			merged.PutFeature(FeatureCollaborativeScore, it.Score)
			continue
		}
		merged := it.Clone()
		merged.PutFeature(FeatureContentScore, 0)
		merged.PutFeature(FeatureCollaborativeScore, it.Score)
		merged.PutLabel(utils.LabelRankModel, utils.Label{Value: "blend", Source: "rank"})
		byID[it.ID] = merged
		out = append(out, merged)
	}

	for _, it := range out {
		it.Score = it.Features[FeatureContentScore]*wcb + it.Features[FeatureCollaborativeScore]*wcf
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// TopN 返回前 n 个元素（n <= 0 返回空）。
func TopN(items []*core.Item, n int) []*core.Item {
	if n <= 0 {
		return []*core.Item{}
	}
	if len(items) <= n {
		return items
	}
	return items[:n]
}
