package recall

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/utils"
	"github.com/rushteam/movierec/rank"
)

// StaticRanking 是启动时加载的热门榜单（按热度降序的电影 ID）。
type StaticRanking []int64

var _ core.PopularityRanking = StaticRanking(nil)

func (s StaticRanking) Top(_ context.Context, n int) ([]int64, error) {
	if n <= 0 {
		return []int64{}, nil
	}
	if len(s) < n {
		n = len(s)
	}
	out := make([]int64, n)
	copy(out, s[:n])
	return out, nil
}

// DecodePopularity 解析热门产物：ID 数组，或带 id 字段的对象数组。
func DecodePopularity(r io.Reader) (StaticRanking, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode popularity: %w", err)
	}
	out := make(StaticRanking, 0, len(raw))
	for i, msg := range raw {
		var id int64
		if err := json.Unmarshal(msg, &id); err == nil {
			out = append(out, id)
			continue
		}
		var obj struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(msg, &obj); err != nil || obj.ID == 0 {
			return nil, fmt.Errorf("decode popularity: entry %d: invalid id", i)
		}
		out = append(out, obj.ID)
	}
	return out, nil
}

// LoadPopularity 从文件加载热门榜单。
func LoadPopularity(path string) (StaticRanking, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open popularity: %w", err)
	}
	defer f.Close()
	return DecodePopularity(f)
}

// Hot 是热门召回源，是所有降级路径的终点，不返回错误。
//   - 优先读取 Ranking（例如存放在 Redis 有序集合中的榜单）
//   - Ranking 为空、出错或没有数据时使用 Fallback（启动时加载的静态榜单）
type Hot struct {
	Ranking  core.PopularityRanking
	Fallback StaticRanking

	// OnRankingError 在 Ranking 读取失败时回调，可为空
	OnRankingError func(err error)
}

var _ Source = (*Hot)(nil)

func (r *Hot) Name() string { return "recall.hot" }

func (r *Hot) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	limit := limitOf(rctx, 20)

	var ids []int64
	if r.Ranking != nil {
		got, err := r.Ranking.Top(ctx, limit)
		if err != nil && r.OnRankingError != nil {
			r.OnRankingError(err)
		}
		if err == nil {
			ids = got
		}
	}
	if len(ids) == 0 {
		ids, _ = r.Fallback.Top(ctx, limit)
	}

	out := make([]*core.Item, 0, len(ids))
	for i, id := range ids {
		it := core.NewItem(id)
		it.RawScore = float64(len(ids) - i)
		it.PutLabel(utils.LabelRecallSource, utils.RecallLabel("hot"))
		out = append(out, it)
	}
	return rank.Normalize(ConcatDedup(out)), nil
}
