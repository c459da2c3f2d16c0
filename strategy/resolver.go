// Package strategy 是推荐解析引擎：按用户策略召回、融合、收尾，空结果时降级到热门。
package strategy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rushteam/movierec/catalog"
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/logging"
	"github.com/rushteam/movierec/metrics"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/utils"
	"github.com/rushteam/movierec/recall"
)

// Deps 是引擎依赖的外部协作方。Catalog 必填，Similarity / Model 可以为空。
type Deps struct {
	Catalog     core.Catalog
	Similarity  core.SimilarityIndex
	Model       core.AffinityPredictor
	Popularity  recall.StaticRanking
	Ranking     core.PopularityRanking
	Preferences core.PreferenceStore
	Settings    core.SettingsStore

	// Store 供收尾节点读取黑名单等运行时数据，可为空
	Store core.Store
}

// Resolver 是推荐解析状态机：
//
//	content / collaborative / hybrid --(收尾后为空)--> popularity（终态，不失败）
//
// 每个请求最多降级一次，不重试。Resolver 构建后只读，可并发使用。
type Resolver struct {
	catalog     core.Catalog
	preferences core.PreferenceStore
	settings    core.SettingsStore

	sources    map[core.Strategy]recall.Source
	popularity recall.Source
	finalizer  *Finalizer
	posters    *catalog.PosterResolver

	recallCfg       core.RecallConfig
	defaultSettings func(userID int64) core.UserSettings
	logger          zerolog.Logger
	newID           func() string
}

// Option 配置 Resolver。
type Option func(*Resolver)

func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) { r.logger = logging.Component(l, "resolver") }
}

func WithRecallConfig(c core.RecallConfig) Option {
	return func(r *Resolver) { r.recallCfg = c }
}

// WithDefaultSettings 设置没有设置记录的用户使用的默认值。
func WithDefaultSettings(fn func(userID int64) core.UserSettings) Option {
	return func(r *Resolver) { r.defaultSettings = fn }
}

func WithFinalizer(f *Finalizer) Option {
	return func(r *Resolver) { r.finalizer = f }
}

func WithPosterResolver(p *catalog.PosterResolver) Option {
	return func(r *Resolver) { r.posters = p }
}

// WithRequestID 替换请求 ID 生成函数（测试用）。
func WithRequestID(fn func() string) Option {
	return func(r *Resolver) { r.newID = fn }
}

// NewResolver 组装召回源与收尾节点链。
func NewResolver(deps Deps, opts ...Option) (*Resolver, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("resolver: catalog is required: %w", core.ErrInvalidInput)
	}
	r := &Resolver{
		catalog:         deps.Catalog,
		preferences:     deps.Preferences,
		settings:        deps.Settings,
		posters:         catalog.NewPosterResolver(),
		recallCfg:       &core.DefaultRecallConfig{},
		defaultSettings: core.DefaultUserSettings,
		logger:          zerolog.Nop(),
		newID:           uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.finalizer == nil {
		f, err := NewFinalizer(pipeline.Resources{Catalog: deps.Catalog, Store: deps.Store}, FinalizeOptions{OnFiltered: CountFiltered})
		if err != nil {
			return nil, err
		}
		r.finalizer = f
	}

	var collaborative *recall.CollaborativeRecall
	if deps.Model != nil {
		collaborative = &recall.CollaborativeRecall{
			Pool:           &recall.CandidatePool{Catalog: deps.Catalog, Model: deps.Model},
			Model:          deps.Model,
			OnPredictError: r.predictionDropped,
		}
	}

	r.sources = map[core.Strategy]recall.Source{
		core.StrategyHybrid: &recall.HybridRecall{
			Index:         deps.Similarity,
			Collaborative: collaborative,
			Seeds:         r.recallCfg.HybridSeeds(),
			PerSeed:       r.recallCfg.HybridPerSeed(),
		},
	}
	if deps.Similarity != nil {
		r.sources[core.StrategyContent] = &recall.ContentRecall{
			Index:     deps.Similarity,
			Seeds:     r.recallCfg.ContentSeeds(),
			Neighbors: r.recallCfg.ContentNeighbors(),
		}
	}
	if collaborative != nil {
		r.sources[core.StrategyCollaborative] = collaborative
	}
	r.popularity = &recall.Hot{
		Ranking:  deps.Ranking,
		Fallback: deps.Popularity,
		OnRankingError: func(err error) {
			r.logger.Warn().Err(err).Msg("popularity ranking unavailable, using static ranking")
		},
	}
	return r, nil
}

func (r *Resolver) predictionDropped(modelItemID int64, err error) {
	metrics.PredictionsDropped.Inc()
	r.logger.Trace().Int64(utils.LabelModelItem, modelItemID).Err(err).Msg("prediction dropped")
}

// CountFiltered 按过滤器名称累计被过滤的物品数，可作为 FinalizeOptions.OnFiltered。
func CountFiltered(name string, _ *core.Item) {
	metrics.ItemsFiltered.WithLabelValues(name).Inc()
}

// Resolve 解析一次推荐。
//
// 错误只来自偏好 / 设置存储不可用（core.ErrUpstreamUnavailable）或 ctx 取消；
// 策略本身没有结果时降级到热门，不返回错误。
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	rctx, err := r.newContext(ctx, req)
	if err != nil {
		metrics.ResolveErrors.WithLabelValues("upstream").Inc()
		return nil, err
	}
	log := r.logger.With().Str("request_id", rctx.RequestID).Int64("user_id", rctx.UserID).Logger()

	requested := rctx.Settings.Strategy
	used := requested
	items, err := r.run(ctx, used, rctx)
	if err != nil {
		metrics.ResolveErrors.WithLabelValues("canceled").Inc()
		return nil, err
	}

	fellBack := false
	if len(items) == 0 && used != core.StrategyPopularity {
		log.Debug().Str("strategy", string(used)).Msg("strategy produced no candidates, falling back to popularity")
		used = core.StrategyPopularity
		fellBack = true
		items, err = r.run(ctx, used, rctx)
		if err != nil {
			metrics.ResolveErrors.WithLabelValues("canceled").Inc()
			return nil, err
		}
	}

	resp := &Response{
		RequestID:         rctx.RequestID,
		UserID:            rctx.UserID,
		RequestedStrategy: requested,
		UsedStrategy:      used,
		FellBack:          fellBack,
		Items:             r.present(items),
	}

	elapsed := time.Since(start)
	metrics.RecordResolve(string(requested), string(used), fellBack, elapsed)
	log.Debug().
		Str("requested", string(requested)).
		Str("used", string(used)).
		Bool("fell_back", fellBack).
		Int("count", rctx.Count).
		Int("returned", len(resp.Items)).
		Dur("elapsed", elapsed).
		Msg("resolved")
	return resp, nil
}

// newContext 读取设置与偏好快照，本次请求内不再读取存储。
func (r *Resolver) newContext(ctx context.Context, req Request) (*core.RecommendContext, error) {
	count := req.Count
	if count <= 0 {
		count = r.recallCfg.DefaultCount()
	}

	var settings core.UserSettings
	switch {
	case req.Settings != nil:
		settings = *req.Settings
	case r.settings != nil:
		s, err := r.settings.Settings(ctx, req.UserID)
		switch {
		case err == nil:
			settings = s
		case core.IsNotFound(err):
			settings = r.defaultSettings(req.UserID)
		default:
			return nil, fmt.Errorf("read settings for user %d: %v: %w", req.UserID, err, core.ErrUpstreamUnavailable)
		}
	default:
		settings = r.defaultSettings(req.UserID)
	}
	settings.UserID = req.UserID
	settings = settings.Normalized()

	signals := req.Signals
	if signals == nil && r.preferences != nil {
		s, err := r.preferences.Signals(ctx, req.UserID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("read preferences for user %d: %v: %w", req.UserID, err, core.ErrUpstreamUnavailable)
		}
		signals = s
	}

	return &core.RecommendContext{
		RequestID: r.newID(),
		UserID:    req.UserID,
		Settings:  settings,
		Signals:   signals,
		Count:     count,
	}, nil
}

// run 执行一个策略分支：召回 → 收尾。召回源出错（ctx 取消除外）按空结果处理。
func (r *Resolver) run(ctx context.Context, s core.Strategy, rctx *core.RecommendContext) ([]*core.Item, error) {
	src := r.popularity
	if s != core.StrategyPopularity {
		var ok bool
		if src, ok = r.sources[s]; !ok {
			r.logger.Debug().Str("strategy", string(s)).Msg("signal source not loaded")
			return nil, nil
		}
	}

	candidates, err := src.Recall(ctx, rctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		r.logger.Warn().Err(err).Str("source", src.Name()).Msg("recall failed")
		return nil, nil
	}
	return r.finalizer.Finalize(ctx, rctx, candidates)
}

// present 把物品映射为带元数据的推荐结果。
func (r *Resolver) present(items []*core.Item) []Recommendation {
	out := make([]Recommendation, 0, len(items))
	for _, it := range items {
		m, ok := r.catalog.Lookup(it.ID)
		if !ok {
			continue
		}
		out = append(out, Recommendation{
			ItemID:      m.ID,
			Title:       m.Title,
			PosterRef:   r.posters.Resolve(m),
			Overview:    m.Overview,
			Genres:      m.Genres,
			ReleaseDate: m.ReleaseDate,
			VoteAverage: m.VoteAverage,
			Score:       it.Score,
			Source:      it.LabelValue(utils.LabelRecallSource),
		})
	}
	return out
}
