package core

// RecallConfig 是召回相关的配置接口，用于提供默认值。
type RecallConfig interface {
	// DefaultCount 返回默认的返回条数
	DefaultCount() int

	// ContentSeeds 返回 content 策略使用的最近点赞数
	ContentSeeds() int

	// ContentNeighbors 返回 content 策略每个种子的近邻数
	ContentNeighbors() int

	// HybridSeeds 返回 hybrid 策略使用的最近点赞数
	HybridSeeds() int

	// HybridPerSeed 返回 hybrid 策略每个种子保留的条数 N（各召回源取 2N）
	HybridPerSeed() int
}

// DefaultRecallConfig 是默认的召回配置实现。
type DefaultRecallConfig struct{}

func (c *DefaultRecallConfig) DefaultCount() int { return 20 }

func (c *DefaultRecallConfig) ContentSeeds() int { return 3 }

func (c *DefaultRecallConfig) ContentNeighbors() int { return 10 }

func (c *DefaultRecallConfig) HybridSeeds() int { return 2 }

func (c *DefaultRecallConfig) HybridPerSeed() int { return 15 }
