package core

// Movie 是目录中的电影元数据，进程启动时加载，之后只读。
//
// ID 是规范 ID（TMDB id）。ModelIDs 是协同过滤模型里的物品 ID（MovieLens id），
// 多个模型 ID 可以映射到同一部电影。
type Movie struct {
	ID          int64
	ModelIDs    []int64
	Title       string
	Genres      []string
	Overview    string
	PosterPath  string
	LocalPoster string
	ReleaseDate string
	VoteAverage float64
	VoteCount   int64
}

// PrimaryGenre 返回第一个类型，没有时返回空串。
func (m *Movie) PrimaryGenre() string {
	if m == nil || len(m.Genres) == 0 {
		return ""
	}
	return m.Genres[0]
}
