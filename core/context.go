package core

import (
	"sort"

	"github.com/rushteam/movierec/pkg/utils"
)

// RecommendContext 承载一次推荐请求的用户信息，贯穿整个 Pipeline 透传。
//
// Signals 是请求开始时读取的偏好快照，本次请求内不再变化。
type RecommendContext struct {
	RequestID string
	UserID    int64
	Settings  UserSettings
	Signals   []PreferenceSignal

	// Count 是本次请求需要返回的条数（也是各召回源的 limit）
	Count int

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级上下文参数
	Params map[string]any

	rated map[int64]struct{}
}

// LikedItems 返回点赞过的物品，按时间倒序（最新在前），同一时间戳保持原顺序。
// n <= 0 表示不限制。
func (rctx *RecommendContext) LikedItems(n int) []int64 {
	likes := make([]PreferenceSignal, 0, len(rctx.Signals))
	for _, s := range rctx.Signals {
		if s.Value == SignalLike {
			likes = append(likes, s)
		}
	}
	sort.SliceStable(likes, func(i, j int) bool {
		return likes[i].Timestamp.After(likes[j].Timestamp)
	})
	if n > 0 && len(likes) > n {
		likes = likes[:n]
	}
	out := make([]int64, 0, len(likes))
	for _, s := range likes {
		out = append(out, s.ItemID)
	}
	return out
}

// HasLikes 是否存在至少一个点赞。
func (rctx *RecommendContext) HasLikes() bool {
	for _, s := range rctx.Signals {
		if s.Value == SignalLike {
			return true
		}
	}
	return false
}

// RatedSet 返回用户已反馈（喜欢或不喜欢）的物品集合。
func (rctx *RecommendContext) RatedSet() map[int64]struct{} {
	if rctx.rated != nil {
		return rctx.rated
	}
	rated := make(map[int64]struct{}, len(rctx.Signals))
	for _, s := range rctx.Signals {
		rated[s.ItemID] = struct{}{}
	}
	rctx.rated = rated
	return rated
}

// HasRated 判断用户是否对该物品给过反馈。
func (rctx *RecommendContext) HasRated(itemID int64) bool {
	_, ok := rctx.RatedSet()[itemID]
	return ok
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
