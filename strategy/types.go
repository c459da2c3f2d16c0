package strategy

import (
	"github.com/rushteam/movierec/core"
)

// Request 是一次推荐请求。
//
// Settings 为空时从设置存储读取（没有记录时使用默认设置）；
// Signals 为 nil 时从偏好存储读取，非 nil 的空切片表示用户没有任何反馈。
type Request struct {
	UserID   int64
	Count    int
	Settings *core.UserSettings
	Signals  []core.PreferenceSignal
}

// Recommendation 是返回给调用方的一条推荐。
type Recommendation struct {
	ItemID      int64    `json:"item_id"`
	Title       string   `json:"title"`
	PosterRef   string   `json:"poster_url"`
	Overview    string   `json:"overview"`
	Genres      []string `json:"genres"`
	ReleaseDate string   `json:"release_date,omitempty"`
	VoteAverage float64  `json:"vote_average"`
	Score       float64  `json:"score"`
	Source      string   `json:"source,omitempty"`
}

// Response 是推荐结果。UsedStrategy 与 RequestedStrategy 不同时表示发生了降级。
type Response struct {
	RequestID         string           `json:"request_id"`
	UserID            int64            `json:"user_id"`
	RequestedStrategy core.Strategy    `json:"requested_strategy"`
	UsedStrategy      core.Strategy    `json:"algorithm_used"`
	FellBack          bool             `json:"fell_back"`
	Items             []Recommendation `json:"recommendations"`
}

// IDs 返回推荐结果的物品 ID。
func (r *Response) IDs() []int64 {
	out := make([]int64, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, it.ItemID)
	}
	return out
}
