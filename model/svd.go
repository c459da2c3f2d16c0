package model

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/rushteam/movierec/core"
)

// SVD 实现了带偏置的矩阵分解 (biased MF / Funk SVD) 的预测部分。
//
// 预测原理：
//
//	r̂(u,i) = mu + b_u + b_i + p_u · q_i
//
// 结果裁剪到评分区间 [MinRating, MaxRating]。用户或物品未出现在训练集中时无法估计，
// 返回 core.ErrNoEstimate。模型训练在离线完成，这里只加载产物，加载后只读。
type SVD struct {
	GlobalMean float64
	MinRating  float64
	MaxRating  float64

	users  map[int64]*latent
	items  map[int64]*latent
	domain []int64
	rated  map[int64][]int64
}

type latent struct {
	bias    float64
	factors []float64
}

var _ AffinityModel = (*SVD)(nil)

// svdArtifact 是离线训练导出的模型文件格式。
type svdArtifact struct {
	GlobalMean  float64      `json:"global_mean"`
	RatingScale [2]float64   `json:"rating_scale"`
	Users       []svdFactors `json:"users"`
	Items       []svdFactors `json:"items"`
}

type svdFactors struct {
	ID      int64     `json:"id"`
	Bias    float64   `json:"bias"`
	Factors []float64 `json:"factors"`
	Rated   []int64   `json:"rated,omitempty"`
}

// DecodeSVD 解析模型产物并校验隐向量维度一致。
func DecodeSVD(r io.Reader) (*SVD, error) {
	var a svdArtifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode svd: %w", err)
	}
	lo, hi := a.RatingScale[0], a.RatingScale[1]
	if lo == 0 && hi == 0 {
		lo, hi = 0.5, 5.0
	}
	if lo > hi {
		return nil, fmt.Errorf("svd: invalid rating scale [%v, %v]", lo, hi)
	}

	m := &SVD{
		GlobalMean: a.GlobalMean,
		MinRating:  lo,
		MaxRating:  hi,
		users:      make(map[int64]*latent, len(a.Users)),
		items:      make(map[int64]*latent, len(a.Items)),
		domain:     make([]int64, 0, len(a.Items)),
		rated:      make(map[int64][]int64, len(a.Users)),
	}

	dim := -1
	check := func(kind string, f svdFactors) error {
		if dim < 0 {
			dim = len(f.Factors)
			return nil
		}
		if len(f.Factors) != dim {
			return fmt.Errorf("svd: %s %d has %d factors, want %d", kind, f.ID, len(f.Factors), dim)
		}
		return nil
	}

	for _, u := range a.Users {
		if err := check("user", u); err != nil {
			return nil, err
		}
		m.users[u.ID] = &latent{bias: u.Bias, factors: u.Factors}
		if len(u.Rated) > 0 {
			m.rated[u.ID] = u.Rated
		}
	}
	for _, it := range a.Items {
		if err := check("item", it); err != nil {
			return nil, err
		}
		if _, dup := m.items[it.ID]; dup {
			continue
		}
		m.items[it.ID] = &latent{bias: it.Bias, factors: it.Factors}
		m.domain = append(m.domain, it.ID)
	}
	return m, nil
}

// LoadSVD 从文件加载模型。
func LoadSVD(path string) (*SVD, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open svd: %w", err)
	}
	defer f.Close()
	return DecodeSVD(f)
}

func (m *SVD) Name() string { return "svd" }

func (m *SVD) Predict(userID, modelItemID int64) (float64, error) {
	u, ok := m.users[userID]
	if !ok {
		return 0, fmt.Errorf("user %d: %w", userID, core.ErrNoEstimate)
	}
	i, ok := m.items[modelItemID]
	if !ok {
		return 0, fmt.Errorf("item %d: %w", modelItemID, core.ErrNoEstimate)
	}
	est := m.GlobalMean + u.bias + i.bias
	for k := range u.factors {
		est += u.factors[k] * i.factors[k]
	}
	switch {
	case est < m.MinRating:
		est = m.MinRating
	case est > m.MaxRating:
		est = m.MaxRating
	}
	return est, nil
}

// ItemDomain 返回训练集中的全部物品，顺序与产物一致（只读）。
func (m *SVD) ItemDomain() []int64 { return m.domain }

// RatedItems 返回训练集中该用户评过分的物品。
func (m *SVD) RatedItems(userID int64) []int64 { return m.rated[userID] }
