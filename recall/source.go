package recall

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// Source 表示一个可复用的召回源（内容/协同/混合/热门）。
// 返回的列表已按召回源自身的分数排序，长度不超过 rctx.Count。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// limitOf 返回本次请求的 limit。
func limitOf(rctx *core.RecommendContext, fallback int) int {
	if rctx != nil && rctx.Count > 0 {
		return rctx.Count
	}
	return fallback
}
