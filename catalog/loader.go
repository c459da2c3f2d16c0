package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/rushteam/movierec/core"
)

// movieRecord 是目录产物中的一行。
type movieRecord struct {
	ID          int64    `json:"id"`
	MovieIDs    []int64  `json:"movie_ids"`
	MovieID     int64    `json:"movieId"`
	Title       string   `json:"title"`
	Genres      []string `json:"genres"`
	Overview    string   `json:"overview"`
	PosterPath  string   `json:"poster_path"`
	LocalPoster string   `json:"local_poster"`
	ReleaseDate string   `json:"release_date"`
	VoteAverage float64  `json:"vote_average"`
	VoteCount   int64    `json:"vote_count"`
}

func (r movieRecord) toMovie() core.Movie {
	modelIDs := append([]int64(nil), r.MovieIDs...)
	if r.MovieID > 0 {
		modelIDs = append(modelIDs, r.MovieID)
	}
	return core.Movie{
		ID:          r.ID,
		ModelIDs:    modelIDs,
		Title:       r.Title,
		Genres:      r.Genres,
		Overview:    r.Overview,
		PosterPath:  r.PosterPath,
		LocalPoster: r.LocalPoster,
		ReleaseDate: r.ReleaseDate,
		VoteAverage: r.VoteAverage,
		VoteCount:   r.VoteCount,
	}
}

// Decode 从 JSON 数组解析目录。
func Decode(r io.Reader) (*Catalog, int, error) {
	var records []movieRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, 0, fmt.Errorf("decode catalog: %w", err)
	}
	movies := make([]core.Movie, 0, len(records))
	for _, rec := range records {
		movies = append(movies, rec.toMovie())
	}
	c, skipped := New(movies)
	return c, skipped, nil
}

// LoadFile 从文件加载目录。
func LoadFile(path string) (*Catalog, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
