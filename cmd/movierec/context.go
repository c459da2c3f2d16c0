package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rushteam/movierec/artifact"
	"github.com/rushteam/movierec/catalog"
	"github.com/rushteam/movierec/config"
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/logging"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/store"
	"github.com/rushteam/movierec/strategy"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	logger     zerolog.Logger
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.TrimSpace(*c.logLevelFlag)
		}
		c.config = cfg
		c.logger = logging.New(logging.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Caller: cfg.Logging.Caller,
		})
	})
	return c.config, c.configErr
}

// openStore 打开配置的存储后端，返回偏好存储与底层 KV。
func (c *commandContext) openStore(ctx context.Context) (*store.PreferenceStore, core.KeyValueStore, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	kv, err := store.Open(ctx, store.Options{
		Backend:  cfg.Store.Backend,
		Addr:     cfg.Store.Addr,
		Password: cfg.Store.Password,
		DB:       cfg.Store.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	return store.NewPreferenceStore(kv, cfg.Store.KeyPrefix), kv, nil
}

// runtime 是一次命令执行所需的全部依赖。
type runtime struct {
	cfg       *config.Config
	artifacts *artifact.Set
	prefs     *store.PreferenceStore
	kv        core.KeyValueStore
	resolver  *strategy.Resolver
}

func (r *runtime) Close() error {
	if r.kv == nil {
		return nil
	}
	return r.kv.Close()
}

// bootstrap 加载产物、打开存储并组装推荐引擎。产物加载失败时拒绝继续。
func (c *commandContext) bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := c.logger

	set, err := artifact.Load(ctx, cfg.Artifacts, logging.Component(logger, "artifact"))
	if err != nil {
		return nil, err
	}

	prefs, kv, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, artifacts: set, prefs: prefs, kv: kv}

	deps := strategy.Deps{
		Catalog:     set.Catalog,
		Popularity:  set.Popularity,
		Preferences: prefs,
		Settings:    prefs,
		Store:       kv,
	}
	if set.Similarity != nil {
		deps.Similarity = set.Similarity
	}
	if set.Model != nil {
		deps.Model = set.Model
	}
	if cfg.Store.PublishPopularity {
		ranking := store.NewPopularityRanking(kv, cfg.Store.KeyPrefix)
		if err := ranking.Publish(ctx, set.Popularity); err != nil {
			rt.Close()
			return nil, fmt.Errorf("publish popularity: %w", err)
		}
		deps.Ranking = ranking
	}

	finalizer, err := newFinalizer(cfg, deps)
	if err != nil {
		rt.Close()
		return nil, err
	}

	posters := catalog.NewPosterResolver()
	if cfg.Poster.ImageBaseURL != "" {
		posters.ImageBaseURL = cfg.Poster.ImageBaseURL
	}
	if cfg.Poster.StaticPrefix != "" {
		posters.StaticPrefix = cfg.Poster.StaticPrefix
	}
	if cfg.Poster.PlaceholderURL != "" {
		posters.PlaceholderURL = cfg.Poster.PlaceholderURL
	}

	resolver, err := strategy.NewResolver(deps,
		strategy.WithLogger(logger),
		strategy.WithRecallConfig(cfg.Recommend),
		strategy.WithDefaultSettings(cfg.Recommend.DefaultSettings),
		strategy.WithFinalizer(finalizer),
		strategy.WithPosterResolver(posters),
	)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.resolver = resolver
	return rt, nil
}

func newFinalizer(cfg *config.Config, deps strategy.Deps) (*strategy.Finalizer, error) {
	opts := strategy.FinalizeOptions{
		Blacklist:    cfg.Finalize.Blacklist,
		BlacklistKey: cfg.Finalize.BlacklistKey,
		ExcludeExpr:  cfg.Finalize.ExcludeExpr,
		OnFiltered:   strategy.CountFiltered,
	}
	if cfg.Finalize.Pipeline != "" {
		pc, err := pipeline.LoadFromYAML(cfg.Finalize.Pipeline)
		if err != nil {
			return nil, fmt.Errorf("load finalize pipeline: %w", err)
		}
		opts.Extra = pc.Pipeline.Nodes
	}
	return strategy.NewFinalizer(pipeline.Resources{Catalog: deps.Catalog, Store: deps.Store}, opts)
}
