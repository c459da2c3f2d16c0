package utils

// 链路中使用的 Label key。
const (
	LabelRecallSource = "recall_source" // content / collaborative / hot
	LabelRecallSeed   = "recall_seed"   // 产生该候选的点赞电影 ID
	LabelModelItem    = "model_item"    // 协同模型中的物品 ID
	LabelRankModel    = "rank_model"    // 融合方式
	LabelFiltered     = "filtered"      // 被哪个过滤器移除
)

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / rank / filter ...
}

// RecallLabel 返回召回阶段打的 Label。
func RecallLabel(value string) Label {
	return Label{Value: value, Source: "recall"}
}

// MergeLabel 合并同名 Label，保留历史：Value 以 '|' 累积，Source 以 ',' 累积。
// 值相同的 Label 不重复累积（同一候选被多个种子召回时 recall_source 保持 "content"）。
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" || existing == incoming {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	if existing.Value != incoming.Value {
		merged.Value = existing.Value + "|" + incoming.Value
	}
	switch {
	case existing.Source == "" || existing.Source == incoming.Source:
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
