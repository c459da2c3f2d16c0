package core

import (
	"strings"
	"time"
)

// Signal 是用户对物品的显式反馈：+1 喜欢，-1 不喜欢。
type Signal int8

const (
	SignalDislike Signal = -1
	SignalLike    Signal = 1
)

// Valid 只接受 +1 / -1。
func (s Signal) Valid() bool {
	return s == SignalLike || s == SignalDislike
}

// PreferenceSignal 是一条 (user, item) 反馈。同一 (user, item) 最多一条，重复写入覆盖。
type PreferenceSignal struct {
	UserID    int64     `json:"user_id"`
	ItemID    int64     `json:"item_id"`
	Value     Signal    `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Strategy 是推荐策略。
type Strategy string

const (
	StrategyContent       Strategy = "content"
	StrategyCollaborative Strategy = "collaborative"
	StrategyHybrid        Strategy = "hybrid"
	StrategyPopularity    Strategy = "popularity"
)

// ParseStrategy 解析策略名；无法识别的值一律视为 hybrid，不报错。
// "popular" 作为 popularity 的别名保留。
func ParseStrategy(s string) Strategy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "content":
		return StrategyContent
	case "collaborative":
		return StrategyCollaborative
	case "popularity", "popular":
		return StrategyPopularity
	default:
		return StrategyHybrid
	}
}

func (s Strategy) String() string { return string(s) }

// 用户没有设置时使用的默认值
const (
	DefaultContentWeight       = 0.6
	DefaultCollaborativeWeight = 0.4
)

// UserSettings 是用户的算法选择与融合权重。
// 权重不要求和为 1：融合分数 = cb*ContentWeight + cf*CollaborativeWeight。
type UserSettings struct {
	UserID              int64    `json:"user_id"`
	Strategy            Strategy `json:"recommendation_algorithm"`
	ContentWeight       float64  `json:"content_weight"`
	CollaborativeWeight float64  `json:"collaborative_weight"`
}

// DefaultUserSettings 返回默认设置：hybrid, 0.6, 0.4。
func DefaultUserSettings(userID int64) UserSettings {
	return UserSettings{
		UserID:              userID,
		Strategy:            StrategyHybrid,
		ContentWeight:       DefaultContentWeight,
		CollaborativeWeight: DefaultCollaborativeWeight,
	}
}

// Normalized 把策略名规整为已知值（未知值 → hybrid），权重原样保留。
func (s UserSettings) Normalized() UserSettings {
	s.Strategy = ParseStrategy(string(s.Strategy))
	return s
}
