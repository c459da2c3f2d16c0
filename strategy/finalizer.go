package strategy

import (
	"context"
	"fmt"

	"github.com/rushteam/movierec/config"
	_ "github.com/rushteam/movierec/config/builders"
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/filter"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/rerank"
)

// Finalizer 是结果收尾：过滤已反馈与目录外的物品、可选规则过滤、去重、截断到 Count。
// 只删除与截断，不重新排序。
//
// 节点链固定为 [rated+catalog 过滤] → 可配置节点 → [去重] → [截断]，
// 可配置节点来自 YAML（pipeline.LoadFromYAML）或黑名单 / CEL 表达式配置。
type Finalizer struct {
	pipeline *pipeline.Pipeline
}

// FinalizeOptions 描述可配置的收尾规则。
type FinalizeOptions struct {
	Blacklist    []int64
	BlacklistKey string
	ExcludeExpr  string

	// Extra 是额外的节点配置（通常来自 YAML），追加在黑名单与表达式之后
	Extra []pipeline.NodeConfig

	// OnFiltered 在物品被过滤时回调，可为空
	OnFiltered func(filter string, item *core.Item)
}

// NewFinalizer 构建收尾节点链。
func NewFinalizer(res pipeline.Resources, opts FinalizeOptions) (*Finalizer, error) {
	var cfg pipeline.Config
	cfg.Pipeline.Name = "finalize"
	if len(opts.Blacklist) > 0 || opts.BlacklistKey != "" {
		ids := make([]any, 0, len(opts.Blacklist))
		for _, id := range opts.Blacklist {
			ids = append(ids, id)
		}
		cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, pipeline.NodeConfig{
			Type:   "filter.blacklist",
			Config: map[string]any{"item_ids": ids, "key": opts.BlacklistKey},
		})
	}
	if opts.ExcludeExpr != "" {
		cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, pipeline.NodeConfig{
			Type:   "filter.expr",
			Config: map[string]any{"expr": opts.ExcludeExpr},
		})
	}
	cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, opts.Extra...)

	if err := config.ValidatePipelineConfig(&cfg); err != nil {
		return nil, err
	}
	extra, err := cfg.BuildPipeline(config.DefaultFactory(), res)
	if err != nil {
		return nil, fmt.Errorf("build finalize pipeline: %w", err)
	}

	nodes := make([]pipeline.Node, 0, len(extra.Nodes)+3)
	nodes = append(nodes, &filter.FilterNode{Filters: []filter.Filter{
		&filter.RatedFilter{},
		&filter.CatalogFilter{Catalog: res.Catalog},
	}})
	nodes = append(nodes, extra.Nodes...)
	nodes = append(nodes, &rerank.DedupNode{}, &rerank.TopNNode{})

	if opts.OnFiltered != nil {
		for _, n := range nodes {
			if fn, ok := n.(*filter.FilterNode); ok {
				fn.OnFiltered = opts.OnFiltered
			}
		}
	}
	return &Finalizer{pipeline: &pipeline.Pipeline{Nodes: nodes}}, nil
}

// Finalize 对候选列表执行收尾节点链。
func (f *Finalizer) Finalize(ctx context.Context, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	return f.pipeline.Run(ctx, rctx, items)
}

// Nodes 返回节点名称，用于日志。
func (f *Finalizer) Nodes() []string { return f.pipeline.Names() }
