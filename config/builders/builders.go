// Package builders 在 init 中注册内置 Node 的构建逻辑。
//
//	import _ "github.com/rushteam/movierec/config/builders"
package builders

import (
	"fmt"

	"github.com/rushteam/movierec/config"
	"github.com/rushteam/movierec/filter"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/conv"
	"github.com/rushteam/movierec/rerank"
)

func init() {
	config.Register("filter", buildFilterNode)
	config.Register("filter.rated", single(buildRatedFilter))
	config.Register("filter.catalog", single(buildCatalogFilter))
	config.Register("filter.blacklist", single(buildBlacklistFilter))
	config.Register("filter.expr", single(buildExprFilter))
	config.Register("rerank.dedup", buildDedupNode)
	config.Register("rerank.topn", buildTopNNode)
}

type filterBuilder func(cfg map[string]any, res pipeline.Resources) (filter.Filter, error)

var filterBuilders = map[string]filterBuilder{
	"rated":     buildRatedFilter,
	"catalog":   buildCatalogFilter,
	"blacklist": buildBlacklistFilter,
	"expr":      buildExprFilter,
}

// single 把单个过滤器包装成 FilterNode。
func single(b filterBuilder) pipeline.NodeBuilder {
	return func(cfg map[string]any, res pipeline.Resources) (pipeline.Node, error) {
		f, err := b(cfg, res)
		if err != nil {
			return nil, err
		}
		return &filter.FilterNode{Filters: []filter.Filter{f}}, nil
	}
}

// buildFilterNode 组合多个过滤器：
//
//	- type: filter
//	  config:
//	    filters:
//	      - type: rated
//	      - type: blacklist
//	        item_ids: [1, 2]
func buildFilterNode(cfg map[string]any, res pipeline.Resources) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		filterType := conv.ConfigGet[string](filterMap, "type", "")
		b, ok := filterBuilders[filterType]
		if !ok {
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
		f, err := b(filterMap, res)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", filterType, err)
		}
		filters = append(filters, f)
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func buildRatedFilter(map[string]any, pipeline.Resources) (filter.Filter, error) {
	return &filter.RatedFilter{}, nil
}

func buildCatalogFilter(_ map[string]any, res pipeline.Resources) (filter.Filter, error) {
	if res.Catalog == nil {
		return nil, fmt.Errorf("catalog filter requires a catalog")
	}
	return &filter.CatalogFilter{Catalog: res.Catalog}, nil
}

func buildBlacklistFilter(cfg map[string]any, res pipeline.Resources) (filter.Filter, error) {
	ids := conv.SliceAnyToInt64(cfg["item_ids"])
	key := conv.ConfigGet[string](cfg, "key", "")
	var adapter *filter.StoreAdapter
	if key != "" && res.Store != nil {
		adapter = filter.NewStoreAdapter(res.Store)
	}
	return filter.NewBlacklistFilter(ids, adapter, key), nil
}

func buildExprFilter(cfg map[string]any, res pipeline.Resources) (filter.Filter, error) {
	expr := conv.ConfigGet[string](cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("expr is required")
	}
	return filter.NewExprFilter(expr, res.Catalog)
}

func buildDedupNode(map[string]any, pipeline.Resources) (pipeline.Node, error) {
	return &rerank.DedupNode{}, nil
}

func buildTopNNode(cfg map[string]any, _ pipeline.Resources) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}
