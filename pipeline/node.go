package pipeline

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// Kind 标记 Node 所处的阶段，用于日志与打点。
type Kind string

const (
	KindFilter Kind = "filter" // 剔除已反馈、目录外、黑名单等候选
	KindReRank Kind = "rerank" // 去重、截断；只删除不重排
)

// Node 是收尾链的最小单元：输入 items，输出 items。
// Node 不应修改 rctx；返回的切片可以复用输入的底层数组。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
