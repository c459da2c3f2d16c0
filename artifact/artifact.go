// Package artifact 在启动时加载离线产物（目录、相似度、协同模型、热门榜单）。
// 加载完成后所有结构只读，注入到推荐引擎中，请求期间不再修改。
package artifact

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/movierec/catalog"
	"github.com/rushteam/movierec/config"
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/metrics"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/recall"
)

// Set 是加载好的产物集合。Similarity 与 Model 可以为空（对应策略会降级到热门）。
type Set struct {
	Catalog    *catalog.Catalog
	Similarity *recall.SimilarityIndex
	Model      *model.SVD
	Popularity recall.StaticRanking
}

// Load 并发加载全部产物；任一产物加载失败都返回包装了 core.ErrUpstreamUnavailable 的错误。
// ctx 只在开始前检查，文件读取本身不可取消，所有加载都会跑完后再返回第一个错误。
func Load(ctx context.Context, paths config.ArtifactsConfig, logger zerolog.Logger) (*Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var set Set
	var g errgroup.Group

	g.Go(func() error {
		c, skipped, err := catalog.LoadFile(paths.Catalog)
		if err != nil {
			return unavailable("catalog", paths.Catalog, err)
		}
		if skipped > 0 {
			logger.Warn().Int("skipped", skipped).Str("path", paths.Catalog).Msg("invalid catalog records skipped")
		}
		set.Catalog = c
		return nil
	})

	g.Go(func() error {
		p, err := recall.LoadPopularity(paths.Popularity)
		if err != nil {
			return unavailable("popularity", paths.Popularity, err)
		}
		set.Popularity = p
		return nil
	})

	if paths.Similarity != "" {
		g.Go(func() error {
			idx, err := recall.LoadSimilarity(paths.Similarity)
			if err != nil {
				return unavailable("similarity", paths.Similarity, err)
			}
			set.Similarity = idx
			return nil
		})
	}

	if paths.Model != "" {
		g.Go(func() error {
			m, err := model.LoadSVD(paths.Model)
			if err != nil {
				return unavailable("model", paths.Model, err)
			}
			set.Model = m
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	set.report(logger)
	return &set, nil
}

func unavailable(name, path string, err error) error {
	return fmt.Errorf("load %s artifact %q: %v: %w", name, path, err, core.ErrUpstreamUnavailable)
}

func (s *Set) report(logger zerolog.Logger) {
	metrics.ArtifactSize.WithLabelValues("catalog").Set(float64(s.Catalog.Len()))
	metrics.ArtifactSize.WithLabelValues("popularity").Set(float64(len(s.Popularity)))

	ev := logger.Info().Int("movies", s.Catalog.Len()).Int("popular", len(s.Popularity))
	if s.Similarity != nil {
		metrics.ArtifactSize.WithLabelValues("similarity").Set(float64(s.Similarity.Len()))
		ev = ev.Int("similarity_seeds", s.Similarity.Len())
	} else {
		logger.Warn().Msg("no similarity artifact configured, content strategies will fall back to popularity")
	}
	if s.Model != nil {
		metrics.ArtifactSize.WithLabelValues("model_items").Set(float64(len(s.Model.ItemDomain())))
		ev = ev.Int("model_items", len(s.Model.ItemDomain()))
	} else {
		logger.Warn().Msg("no collaborative model configured, collaborative strategies will fall back to popularity")
	}

	missing := 0
	for _, id := range s.Popularity {
		if !s.Catalog.Contains(id) {
			missing++
		}
	}
	if missing > 0 {
		logger.Warn().Int("missing", missing).Msg("popular items absent from catalog")
	}
	ev.Msg("artifacts loaded")
}
