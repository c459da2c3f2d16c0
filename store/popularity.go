package store

import (
	"context"
	"strconv"

	"github.com/rushteam/movierec/core"
)

// PopularityRanking 是基于有序集合的热门榜单：{KeyPrefix}:popular，score 为热度。
type PopularityRanking struct {
	kv        core.KeyValueStore
	KeyPrefix string
}

func NewPopularityRanking(kv core.KeyValueStore, keyPrefix string) *PopularityRanking {
	if keyPrefix == "" {
		keyPrefix = "movierec"
	}
	return &PopularityRanking{kv: kv, KeyPrefix: keyPrefix}
}

var _ core.PopularityRanking = (*PopularityRanking)(nil)

func (p *PopularityRanking) key() string { return p.KeyPrefix + ":popular" }

// Top 返回热度最高的 n 个物品，无法解析的成员被跳过。
func (p *PopularityRanking) Top(ctx context.Context, n int) ([]int64, error) {
	if n <= 0 {
		return []int64{}, nil
	}
	members, err := p.kv.ZRange(ctx, p.key(), 0, int64(n-1))
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		if id, err := strconv.ParseInt(m, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Publish 把有序榜单写入存储，第 i 名的 score 为 len-i，保证读取顺序与写入一致。
func (p *PopularityRanking) Publish(ctx context.Context, ids []int64) error {
	for i, id := range ids {
		if err := p.kv.ZAdd(ctx, p.key(), float64(len(ids)-i), strconv.FormatInt(id, 10)); err != nil {
			return err
		}
	}
	return nil
}
