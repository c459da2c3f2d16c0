package core

import "context"

// 以下接口是推荐引擎依赖的外部协作方，由 catalog / model / recall / store 实现。

// Catalog 是电影目录（只读）。
type Catalog interface {
	// Lookup 按规范 ID 查找电影
	Lookup(id int64) (*Movie, bool)

	// LookupByModelID 按模型物品 ID 查找电影
	LookupByModelID(modelID int64) (*Movie, bool)

	// Contains 判断规范 ID 是否在目录中
	Contains(id int64) bool
}

// SimilarityIndex 是内容相似度索引。
type SimilarityIndex interface {
	// Neighbors 返回至多 k 个与 seed 最相似的物品（不含 seed 本身，相似度降序）。
	// seed 不在索引中时返回空切片。
	Neighbors(ctx context.Context, seed int64, k int) []ScoredID
}

// ScoredID 是带分数的物品 ID。
type ScoredID struct {
	ID    int64
	Score float64
}

// AffinityPredictor 是协同过滤预测器。
type AffinityPredictor interface {
	// Predict 估计用户对模型物品的评分；无法估计时返回 ErrNoEstimate。
	Predict(userID, modelItemID int64) (float64, error)

	// ItemDomain 返回模型认识的全部物品（训练产物中的顺序）
	ItemDomain() []int64

	// RatedItems 返回训练数据中该用户评过分的模型物品
	RatedItems(userID int64) []int64
}

// PopularityRanking 是全局热门榜单。
type PopularityRanking interface {
	// Top 返回前 n 个物品 ID（按热度降序）
	Top(ctx context.Context, n int) ([]int64, error)
}

// PreferenceStore 是用户偏好信号存储。
type PreferenceStore interface {
	Signals(ctx context.Context, userID int64) ([]PreferenceSignal, error)
	Upsert(ctx context.Context, signal PreferenceSignal) error
	Remove(ctx context.Context, userID, itemID int64) error
}

// SettingsStore 是用户设置存储。不存在时返回 ErrStoreNotFound。
type SettingsStore interface {
	Settings(ctx context.Context, userID int64) (UserSettings, error)
	SaveSettings(ctx context.Context, settings UserSettings) error
}
