package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/movierec/core"
)

// EnvPrefix 是环境变量前缀。MOVIEREC_STORE__BACKEND=redis 对应 store.backend。
const EnvPrefix = "MOVIEREC_"

// ConfigPathEnvVar 可以覆盖配置文件路径。
const ConfigPathEnvVar = "MOVIEREC_CONFIG"

// DefaultConfigPaths 按优先级查找配置文件，使用第一个存在的。
var DefaultConfigPaths = []string{
	"movierec.yaml",
	"movierec.yml",
	"/etc/movierec/movierec.yaml",
}

// Config 是进程级配置。
type Config struct {
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Recommend RecommendConfig `koanf:"recommend"`
	Store     StoreConfig     `koanf:"store"`
	Finalize  FinalizeConfig  `koanf:"finalize"`
	Poster    PosterConfig    `koanf:"poster"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ArtifactsConfig 是离线产物路径。
type ArtifactsConfig struct {
	Catalog    string `koanf:"catalog"`
	Similarity string `koanf:"similarity"`
	Model      string `koanf:"model"`
	Popularity string `koanf:"popularity"`
}

// RecommendConfig 是推荐默认值，实现 core.RecallConfig。
type RecommendConfig struct {
	Count               int     `koanf:"count"`
	ContentSeedCount    int     `koanf:"content_seeds"`
	ContentNeighborK    int     `koanf:"content_neighbors"`
	HybridSeedCount     int     `koanf:"hybrid_seeds"`
	HybridPerSeedN      int     `koanf:"hybrid_per_seed"`
	Strategy            string  `koanf:"strategy"`
	ContentWeight       float64 `koanf:"content_weight"`
	CollaborativeWeight float64 `koanf:"collaborative_weight"`
}

var _ core.RecallConfig = RecommendConfig{}

func (c RecommendConfig) DefaultCount() int     { return c.Count }
func (c RecommendConfig) ContentSeeds() int     { return c.ContentSeedCount }
func (c RecommendConfig) ContentNeighbors() int { return c.ContentNeighborK }
func (c RecommendConfig) HybridSeeds() int      { return c.HybridSeedCount }
func (c RecommendConfig) HybridPerSeed() int    { return c.HybridPerSeedN }

// DefaultSettings 返回没有设置记录的用户使用的设置。
func (c RecommendConfig) DefaultSettings(userID int64) core.UserSettings {
	return core.UserSettings{
		UserID:              userID,
		Strategy:            core.ParseStrategy(c.Strategy),
		ContentWeight:       c.ContentWeight,
		CollaborativeWeight: c.CollaborativeWeight,
	}
}

// StoreConfig 是偏好 / 设置 / 热门榜单的存储后端。
type StoreConfig struct {
	Backend   string `koanf:"backend"` // memory | redis
	Addr      string `koanf:"addr"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db"`
	KeyPrefix string `koanf:"key_prefix"`

	// PublishPopularity 启动时把静态热门榜单写入存储的有序集合
	PublishPopularity bool `koanf:"publish_popularity"`
}

// FinalizeConfig 是结果收尾阶段的可选规则。
type FinalizeConfig struct {
	Blacklist    []int64 `koanf:"blacklist"`
	BlacklistKey string  `koanf:"blacklist_key"`
	ExcludeExpr  string  `koanf:"exclude_expr"`

	// Pipeline 是收尾 Node 链的 YAML 文件，为空时使用默认链
	Pipeline string `koanf:"pipeline"`
}

// PosterConfig 是海报地址。
type PosterConfig struct {
	ImageBaseURL   string `koanf:"image_base_url"`
	StaticPrefix   string `koanf:"static_prefix"`
	PlaceholderURL string `koanf:"placeholder_url"`
}

// LoggingConfig 是日志配置。
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json | console
	Caller bool   `koanf:"caller"`
}

// Default 返回默认配置：先于配置文件与环境变量加载。
func Default() *Config {
	def := &core.DefaultRecallConfig{}
	return &Config{
		Artifacts: ArtifactsConfig{
			Catalog:    "data/catalog.json",
			Similarity: "data/similarity.json",
			Model:      "data/svd.json",
			Popularity: "data/popular.json",
		},
		Recommend: RecommendConfig{
			Count:               def.DefaultCount(),
			ContentSeedCount:    def.ContentSeeds(),
			ContentNeighborK:    def.ContentNeighbors(),
			HybridSeedCount:     def.HybridSeeds(),
			HybridPerSeedN:      def.HybridPerSeed(),
			Strategy:            string(core.StrategyHybrid),
			ContentWeight:       core.DefaultContentWeight,
			CollaborativeWeight: core.DefaultCollaborativeWeight,
		},
		Store: StoreConfig{
			Backend:   "memory",
			Addr:      "127.0.0.1:6379",
			KeyPrefix: "movierec",
		},
		Finalize: FinalizeConfig{
			Blacklist: []int64{},
		},
		Poster: PosterConfig{
			ImageBaseURL:   "https://image.tmdb.org/t/p/w500",
			StaticPrefix:   "/static/",
			PlaceholderURL: "https://emoji.beeimg.com/",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load 按 默认值 → 配置文件 → 环境变量 的顺序加载配置并校验。
// path 为空时依次查找 MOVIEREC_CONFIG 与 DefaultConfigPaths，找不到配置文件不是错误。
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransformFunc: MOVIEREC_RECOMMEND__CONTENT_WEIGHT -> recommend.content_weight
func envTransformFunc(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	if key == "CONFIG" {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}

// processSliceFields 把环境变量中逗号分隔的列表展开。
func processSliceFields(k *koanf.Koanf) error {
	raw, ok := k.Get("finalize.blacklist").(string)
	if !ok {
		return nil
	}
	ids := []int64{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return fmt.Errorf("finalize.blacklist: %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return k.Set("finalize.blacklist", ids)
}

// Validate 校验配置。
func (c *Config) Validate() error {
	var errs []error
	r := c.Recommend
	if r.Count <= 0 {
		errs = append(errs, fmt.Errorf("recommend.count must be positive, got %d", r.Count))
	}
	for name, v := range map[string]int{
		"recommend.content_seeds":     r.ContentSeedCount,
		"recommend.content_neighbors": r.ContentNeighborK,
		"recommend.hybrid_seeds":      r.HybridSeedCount,
		"recommend.hybrid_per_seed":   r.HybridPerSeedN,
	} {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}
	for name, w := range map[string]float64{
		"recommend.content_weight":       r.ContentWeight,
		"recommend.collaborative_weight": r.CollaborativeWeight,
	} {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			errs = append(errs, fmt.Errorf("%s must be finite", name))
		}
	}

	switch c.Store.Backend {
	case "memory":
	case "redis":
		if c.Store.Addr == "" {
			errs = append(errs, errors.New("store.addr is required for redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend must be memory or redis, got %q", c.Store.Backend))
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}

	if c.Artifacts.Catalog == "" || c.Artifacts.Popularity == "" {
		errs = append(errs, errors.New("artifacts.catalog and artifacts.popularity are required"))
	}
	return errors.Join(errs...)
}
