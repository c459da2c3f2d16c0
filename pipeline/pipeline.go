package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/movierec/core"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链，上一个 Node 的输出是下一个 Node 的输入。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}

// Names 返回各 Node 名称，用于日志。
func (p *Pipeline) Names() []string {
	out := make([]string, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		out = append(out, n.Name())
	}
	return out
}
