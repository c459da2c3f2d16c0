package recall

import "github.com/rushteam/movierec/core"

// Candidate 是协同过滤候选：目录中的电影及其在模型中的物品 ID。
type Candidate struct {
	MovieID int64
	ModelID int64
}

// CandidatePool 构建协同过滤的候选池：
// 同时存在于目录与模型物品域中、且用户未反馈过的电影。
//
// 模型域按产物顺序遍历；多个模型 ID 映射到同一部电影时取第一个。
// "已反馈" 包括偏好存储中的信号以及模型训练数据中该用户评过分的物品。
type CandidatePool struct {
	Catalog core.Catalog
	Model   core.AffinityPredictor
}

func (p *CandidatePool) Build(rctx *core.RecommendContext) []Candidate {
	if p.Catalog == nil || p.Model == nil || rctx == nil {
		return nil
	}

	rated := make(map[int64]struct{}, len(rctx.Signals))
	for id := range rctx.RatedSet() {
		rated[id] = struct{}{}
	}
	for _, mid := range p.Model.RatedItems(rctx.UserID) {
		if m, ok := p.Catalog.LookupByModelID(mid); ok {
			rated[m.ID] = struct{}{}
		}
	}

	domain := p.Model.ItemDomain()
	seen := make(map[int64]struct{}, len(domain))
	out := make([]Candidate, 0, len(domain))
	for _, mid := range domain {
		m, ok := p.Catalog.LookupByModelID(mid)
		if !ok {
			continue
		}
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		if _, ok := rated[m.ID]; ok {
			continue
		}
		out = append(out, Candidate{MovieID: m.ID, ModelID: mid})
	}
	return out
}
