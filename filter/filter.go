// Package filter 提供收尾阶段的过滤器：已反馈、目录外、黑名单、CEL 规则。
package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// Filter 判断一个候选是否应被移除，返回 true 表示移除。
// 返回 error 时 FilterNode 保留该候选。
type Filter interface {
	Name() string
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error)
}
