package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// RatedFilter 过滤用户已经反馈过的物品（喜欢或不喜欢）。
type RatedFilter struct{}

func (f *RatedFilter) Name() string { return "filter.rated" }

func (f *RatedFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if rctx == nil {
		return false, nil
	}
	return rctx.HasRated(item.ID), nil
}

// CatalogFilter 过滤目录中不存在的物品。
type CatalogFilter struct {
	Catalog core.Catalog
}

func (f *CatalogFilter) Name() string { return "filter.catalog" }

func (f *CatalogFilter) ShouldFilter(_ context.Context, _ *core.RecommendContext, item *core.Item) (bool, error) {
	if f.Catalog == nil {
		return false, nil
	}
	return !f.Catalog.Contains(item.ID), nil
}
