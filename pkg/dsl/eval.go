package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/movierec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("movie", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Expr 是编译好的 CEL 表达式，可在多个请求间并发复用。
//
// 表达式语法（CEL 标准语法）：
//   - 物品：item.id == 550 / item.score > 0.7
//   - 标签：label.recall_source == "content"
//   - 元数据："Horror" in movie.genres / movie.vote_average < 5.0
//   - 请求：rctx.strategy == "hybrid"
//
// movie 在目录中找不到时为空 map，访问字段前可用 has(movie.title) 检查。
type Expr struct {
	src string
	prg cel.Program
}

// Compile 编译表达式，要求返回 bool。
func Compile(expr string) (*Expr, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression must return boolean, got %v", out)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Expr{src: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (e *Expr) String() string { return e.src }

// Eval 对单个物品求值。
func (e *Expr) Eval(item *core.Item, movie *core.Movie, rctx *core.RecommendContext) (bool, error) {
	out, _, err := e.prg.Eval(buildInput(item, movie, rctx))
	if err != nil {
		// 访问不存在的 key 会报错，应先用 has() 判断
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// Evaluate 编译并执行一次表达式，空表达式视为 true。
func Evaluate(expr string, item *core.Item, movie *core.Movie, rctx *core.RecommendContext) (bool, error) {
	if expr == "" {
		return true, nil
	}
	e, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return e.Eval(item, movie, rctx)
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(item *core.Item, movie *core.Movie, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any)
	itemMap := map[string]any{}
	if item != nil {
		for k, v := range item.Labels {
			labels[k] = v.Value
		}
		features := make(map[string]any, len(item.Features))
		for k, v := range item.Features {
			features[k] = v
		}
		itemMap = map[string]any{
			"id":        item.ID,
			"score":     item.Score,
			"raw_score": item.RawScore,
			"features":  features,
		}
	}

	movieMap := map[string]any{}
	if movie != nil {
		genres := make([]any, 0, len(movie.Genres))
		for _, g := range movie.Genres {
			genres = append(genres, g)
		}
		movieMap = map[string]any{
			"id":           movie.ID,
			"title":        movie.Title,
			"genres":       genres,
			"release_date": movie.ReleaseDate,
			"vote_average": movie.VoteAverage,
			"vote_count":   movie.VoteCount,
		}
	}

	rctxMap := map[string]any{}
	if rctx != nil {
		rctxMap = map[string]any{
			"user_id":  rctx.UserID,
			"strategy": string(rctx.Settings.Strategy),
			"count":    int64(rctx.Count),
		}
	}

	return map[string]any{
		"item":  itemMap,
		"label": labels,
		"movie": movieMap,
		"rctx":  rctxMap,
	}
}
