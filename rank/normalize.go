// Package rank 提供多路信号的分数对齐与融合。
//
// 相似度与预测评分量纲不同，融合前先按名次归一化到 [0.1, 1.0]，再加权求和。
package rank

import (
	"github.com/rushteam/movierec/core"
)

// MinNormalizedScore 是名次归一化后最后一名的分数。
const MinNormalizedScore = 0.1

// Normalize 按名次给已排序列表打分：第 i 名（0 起）得 1 - 0.9*i/(L-1)。
// L == 1 时唯一元素得 1.0；空列表返回空列表。
// 返回新切片与新物品，原生分值保留在 RawScore，输入不被修改。
func Normalize(items []*core.Item) []*core.Item {
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, it.Clone())
		}
	}
	n := len(out)
	if n == 0 {
		return out
	}
	if n == 1 {
		out[0].Score = 1.0
		return out
	}
	span := 1.0 - MinNormalizedScore
	for i, it := range out {
		it.Score = 1.0 - span*float64(i)/float64(n-1)
	}
	return out
}
