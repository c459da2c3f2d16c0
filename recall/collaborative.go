package recall

import (
	"context"
	"sort"
	"strconv"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/utils"
)

// CollaborativeRecall 是协同过滤召回源：对候选池中每个 (用户, 候选) 调用一次预测器，
// 按估计评分降序取 limit 个。
//
// 单个候选预测失败（例如用户不在训练集）只丢弃该候选，不影响其他候选；
// 所有候选都失败时返回空列表。
type CollaborativeRecall struct {
	Pool  *CandidatePool
	Model core.AffinityPredictor

	// OnPredictError 在单个候选预测失败时回调（日志/打点），可为空
	OnPredictError func(modelItemID int64, err error)
}

var _ Source = (*CollaborativeRecall)(nil)

func (r *CollaborativeRecall) Name() string { return "recall.collaborative" }

func (r *CollaborativeRecall) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	all, err := r.Rank(ctx, rctx)
	if err != nil {
		return nil, err
	}
	return Truncate(all, limitOf(rctx, 20)), nil
}

// Rank 返回候选池中全部可估计的候选，按估计评分降序（同分保持候选池顺序）。
func (r *CollaborativeRecall) Rank(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if r.Pool == nil || r.Model == nil || rctx == nil {
		return []*core.Item{}, nil
	}

	candidates := r.Pool.Build(rctx)
	out := make([]*core.Item, 0, len(candidates))
	for i, c := range candidates {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		est, err := r.Model.Predict(rctx.UserID, c.ModelID)
		if err != nil {
			if r.OnPredictError != nil {
				r.OnPredictError(c.ModelID, err)
			}
			continue
		}
		it := core.NewItem(c.MovieID)
		it.Score = est
		it.RawScore = est
		it.PutLabel(utils.LabelRecallSource, utils.RecallLabel("collaborative"))
		it.PutLabel(utils.LabelModelItem, utils.RecallLabel(strconv.FormatInt(c.ModelID, 10)))
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}
