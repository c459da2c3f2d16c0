package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rushteam/movierec/core"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Recommend.Count != 20 {
		t.Errorf("count = %d, want 20", cfg.Recommend.Count)
	}
	s := cfg.Recommend.DefaultSettings(9)
	if s.Strategy != core.StrategyHybrid || s.ContentWeight != 0.6 || s.CollaborativeWeight != 0.4 {
		t.Errorf("DefaultSettings = %+v", s)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("backend = %q", cfg.Store.Backend)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movierec.yaml")
	content := `
recommend:
  count: 7
  content_weight: 1.5
store:
  backend: redis
  addr: redis:6379
finalize:
  blacklist: [11, 12]
  exclude_expr: '"Horror" in movie.genres'
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MOVIEREC_RECOMMEND__COUNT", "5")
	t.Setenv("MOVIEREC_LOGGING__FORMAT", "json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Recommend.Count != 5 {
		t.Errorf("count = %d, env should win", cfg.Recommend.Count)
	}
	if cfg.Recommend.ContentWeight != 1.5 || cfg.Recommend.CollaborativeWeight != 0.4 {
		t.Errorf("weights = %v/%v", cfg.Recommend.ContentWeight, cfg.Recommend.CollaborativeWeight)
	}
	if cfg.Store.Backend != "redis" || cfg.Store.Addr != "redis:6379" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if len(cfg.Finalize.Blacklist) != 2 || cfg.Finalize.Blacklist[1] != 12 {
		t.Errorf("blacklist = %v", cfg.Finalize.Blacklist)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("logging.format = %q", cfg.Logging.Format)
	}
}

func TestLoad_EnvBlacklist(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("MOVIEREC_FINALIZE__BLACKLIST", "3, 4,5")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []int64{3, 4, 5}
	if len(cfg.Finalize.Blacklist) != len(want) {
		t.Fatalf("blacklist = %v", cfg.Finalize.Blacklist)
	}
	for i := range want {
		if cfg.Finalize.Blacklist[i] != want[i] {
			t.Fatalf("blacklist = %v", cfg.Finalize.Blacklist)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults ok", mutate: func(*Config) {}},
		{name: "zero count", mutate: func(c *Config) { c.Recommend.Count = 0 }, wantErr: "recommend.count"},
		{name: "negative seeds", mutate: func(c *Config) { c.Recommend.HybridSeedCount = -1 }, wantErr: "recommend.hybrid_seeds"},
		{name: "unknown backend", mutate: func(c *Config) { c.Store.Backend = "mysql" }, wantErr: "store.backend"},
		{name: "redis without addr", mutate: func(c *Config) { c.Store.Backend = "redis"; c.Store.Addr = "" }, wantErr: "store.addr"},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
