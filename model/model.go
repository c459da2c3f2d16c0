// Package model 提供协同过滤阶段使用的评分模型。
package model

import "github.com/rushteam/movierec/core"

// AffinityModel 是协同过滤预测的最小抽象：输入 (用户, 模型物品)，输出估计评分。
// 具体实现可以是本地隐因子模型（SVD），也可以是远程服务。
type AffinityModel interface {
	core.AffinityPredictor
	Name() string
}
