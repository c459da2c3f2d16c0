package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/dsl"
)

// ExprFilter 用 CEL 表达式过滤物品，表达式为 true 的物品被移除。
//
// 示例：
//   - `"Horror" in movie.genres`
//   - `has(movie.vote_count) && movie.vote_count < 50`
//
// 表达式求值出错时保留物品。
type ExprFilter struct {
	Expr    *dsl.Expr
	Catalog core.Catalog
}

// NewExprFilter 编译表达式。
func NewExprFilter(expr string, catalog core.Catalog) (*ExprFilter, error) {
	e, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{Expr: e, Catalog: catalog}, nil
}

func (f *ExprFilter) Name() string { return "filter.expr" }

func (f *ExprFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if f.Expr == nil {
		return false, nil
	}
	var movie *core.Movie
	if f.Catalog != nil {
		movie, _ = f.Catalog.Lookup(item.ID)
	}
	return f.Expr.Eval(item, movie, rctx)
}
