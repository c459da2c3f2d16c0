// Package movierec 是电影推荐解析引擎。
//
// 设计要点：
// - 三路信号：内容相似度（recall.ContentRecall）、协同过滤（model.SVD + recall.CollaborativeRecall）、热门榜单（recall.Hot）
// - 策略状态机：content / collaborative / hybrid 收尾后为空时降级到 popularity，每个请求最多降级一次
// - 收尾走 Pipeline：已反馈过滤、目录过滤、可选黑名单 / CEL 规则、去重、截断，只删除不重排
// - 产物启动时加载，之后只读注入（artifact.Load → strategy.NewResolver）
package movierec

import (
	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/strategy"
)

// 轻量 facade：便于直接 import "movierec" 使用核心抽象。
type (
	Resolver       = strategy.Resolver
	Request        = strategy.Request
	Response       = strategy.Response
	Recommendation = strategy.Recommendation
	Strategy       = core.Strategy
	Pipeline       = pipeline.Pipeline
	Node           = pipeline.Node
)

const (
	StrategyContent       = core.StrategyContent
	StrategyCollaborative = core.StrategyCollaborative
	StrategyHybrid        = core.StrategyHybrid
	StrategyPopularity    = core.StrategyPopularity
)

// NewResolver 见 strategy.NewResolver。
var NewResolver = strategy.NewResolver
