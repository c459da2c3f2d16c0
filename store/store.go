// Package store 提供 core.Store / core.KeyValueStore 的实现以及领域适配器。
//
// 接口定义在 core 包，此包只包含实现：
//
//	var kv core.KeyValueStore = store.NewMemoryStore()
//	prefs := store.NewPreferenceStore(kv, "movierec")
package store

import (
	"context"
	"fmt"

	"github.com/rushteam/movierec/core"
)

// Options 描述存储后端。
type Options struct {
	Backend  string // memory | redis
	Addr     string
	Password string
	DB       int
}

// Open 按 Backend 创建 KeyValueStore。
func Open(ctx context.Context, opts Options) (core.KeyValueStore, error) {
	switch opts.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(ctx, opts.Addr, opts.Password, opts.DB)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", opts.Backend)
	}
}
