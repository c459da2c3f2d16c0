package core

import "github.com/rushteam/movierec/pkg/utils"

// Item 是推荐链路中的统一承载结构：候选物品 ID、原始分、归一化分、标签。
// RawScore 保留召回源的原生分值（相似度 / 预测评分），Score 用于排序决策。
type Item struct {
	ID       int64
	Score    float64
	RawScore float64
	Features map[string]float64
	Labels   map[string]utils.Label
}

func NewItem(id int64) *Item {
	return &Item{
		ID:       id,
		Features: make(map[string]float64),
		Labels:   make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// PutFeature 写入特征值（用于 explain，例如 score_cb / score_cf）。
func (it *Item) PutFeature(key string, v float64) {
	if it.Features == nil {
		it.Features = make(map[string]float64)
	}
	it.Features[key] = v
}

// LabelValue 返回 Label 的值，不存在时返回空串。
func (it *Item) LabelValue(key string) string {
	if it.Labels == nil {
		return ""
	}
	return it.Labels[key].Value
}

// IDs 按顺序提取物品 ID。
func IDs(items []*Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, it.ID)
	}
	return out
}

// Clone 复制物品（Features / Labels 深拷贝一层）。
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	out := &Item{
		ID:       it.ID,
		Score:    it.Score,
		RawScore: it.RawScore,
		Features: make(map[string]float64, len(it.Features)),
		Labels:   make(map[string]utils.Label, len(it.Labels)),
	}
	for k, v := range it.Features {
		out.Features[k] = v
	}
	for k, v := range it.Labels {
		out.Labels[k] = v
	}
	return out
}
