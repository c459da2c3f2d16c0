package recall

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/goccy/go-json"

	"github.com/rushteam/movierec/core"
)

// SimilarityIndex 是离线计算好的物品相似度近邻表，实现 core.SimilarityIndex。
// 加载时按相似度降序排好（同分保持产物顺序），查询时只做截断。
type SimilarityIndex struct {
	neighbors map[int64][]core.ScoredID
}

var _ core.SimilarityIndex = (*SimilarityIndex)(nil)

type similarityRecord struct {
	ID        int64 `json:"id"`
	Neighbors []struct {
		ID    int64   `json:"id"`
		Score float64 `json:"score"`
	} `json:"neighbors"`
}

// NewSimilarityIndex 从近邻表构建索引。物品自身与重复近邻被去掉。
func NewSimilarityIndex(neighbors map[int64][]core.ScoredID) *SimilarityIndex {
	idx := &SimilarityIndex{neighbors: make(map[int64][]core.ScoredID, len(neighbors))}
	for seed, list := range neighbors {
		seen := make(map[int64]struct{}, len(list))
		clean := make([]core.ScoredID, 0, len(list))
		for _, n := range list {
			if n.ID == seed {
				continue
			}
			if _, dup := seen[n.ID]; dup {
				continue
			}
			seen[n.ID] = struct{}{}
			clean = append(clean, n)
		}
		sort.SliceStable(clean, func(i, j int) bool {
			return clean[i].Score > clean[j].Score
		})
		idx.neighbors[seed] = clean
	}
	return idx
}

// DecodeSimilarity 解析相似度产物：[{"id": 1, "neighbors": [{"id": 2, "score": 0.9}, ...]}, ...]
func DecodeSimilarity(r io.Reader) (*SimilarityIndex, error) {
	var records []similarityRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode similarity: %w", err)
	}
	m := make(map[int64][]core.ScoredID, len(records))
	for _, rec := range records {
		list := make([]core.ScoredID, 0, len(rec.Neighbors))
		for _, n := range rec.Neighbors {
			list = append(list, core.ScoredID{ID: n.ID, Score: n.Score})
		}
		m[rec.ID] = append(m[rec.ID], list...)
	}
	return NewSimilarityIndex(m), nil
}

// LoadSimilarity 从文件加载相似度索引。
func LoadSimilarity(path string) (*SimilarityIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open similarity: %w", err)
	}
	defer f.Close()
	return DecodeSimilarity(f)
}

// Neighbors 返回至多 k 个最相似物品；seed 不在索引中或 k <= 0 时返回空切片。
func (s *SimilarityIndex) Neighbors(_ context.Context, seed int64, k int) []core.ScoredID {
	list := s.neighbors[seed]
	if k <= 0 || len(list) == 0 {
		return []core.ScoredID{}
	}
	if len(list) > k {
		list = list[:k]
	}
	out := make([]core.ScoredID, len(list))
	copy(out, list)
	return out
}

// Len 返回索引中的种子数量。
func (s *SimilarityIndex) Len() int { return len(s.neighbors) }
