package recall

import "github.com/rushteam/movierec/core"

// ConcatDedup 按 ID 去重，保留第一个出现的，后出现的同 ID 物品的 Label 合并到第一个上。
func ConcatDedup(all []*core.Item) []*core.Item {
	seen := make(map[int64]*core.Item, len(all))
	out := make([]*core.Item, 0, len(all))
	for _, it := range all {
		if it == nil {
			continue
		}
		if old, ok := seen[it.ID]; ok {
			for k, v := range it.Labels {
				if old.Labels[k].Value != v.Value {
					old.PutLabel(k, v)
				}
			}
			continue
		}
		seen[it.ID] = it
		out = append(out, it)
	}
	return out
}

// Truncate 截断到 n 个（n <= 0 不截断）。
func Truncate(items []*core.Item, n int) []*core.Item {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
