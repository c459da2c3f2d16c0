package catalog

import (
	"strings"

	"github.com/rushteam/movierec/core"
)

const (
	DefaultImageBaseURL   = "https://image.tmdb.org/t/p/w500"
	DefaultStaticPrefix   = "/static/"
	DefaultPlaceholderURL = "https://emoji.beeimg.com/"
)

// genreEmojis 是没有海报时按首个类型选择的占位图。
var genreEmojis = map[string]string{
	"Action":          "💥",
	"Adventure":       "🗺️",
	"Animation":       "🎨",
	"Comedy":          "😂",
	"Crime":           "🕵️",
	"Documentary":     "📄",
	"Drama":           "🎭",
	"Family":          "👨‍👩‍👧‍👦",
	"Fantasy":         "🧙",
	"History":         "📜",
	"Horror":          "👻",
	"Music":           "🎵",
	"Mystery":         "❓",
	"Romance":         "💕",
	"Science Fiction": "🚀",
	"Sci-Fi":          "🚀",
	"TV Movie":        "📺",
	"Thriller":        "🔪",
	"War":             "⚔️",
	"Western":         "🤠",
}

const defaultEmoji = "🎬"

// PosterResolver 把电影元数据解析为海报引用。
//
// 优先级：本地海报 → 绝对 URL 的 poster_path → TMDB 相对路径 → 按类型的占位图。
type PosterResolver struct {
	ImageBaseURL   string
	StaticPrefix   string
	PlaceholderURL string
}

// NewPosterResolver 返回使用默认地址的解析器。
func NewPosterResolver() *PosterResolver {
	return &PosterResolver{
		ImageBaseURL:   DefaultImageBaseURL,
		StaticPrefix:   DefaultStaticPrefix,
		PlaceholderURL: DefaultPlaceholderURL,
	}
}

func (p *PosterResolver) Resolve(m *core.Movie) string {
	if m == nil {
		return p.placeholder("")
	}
	if m.LocalPoster != "" {
		return p.orDefault(p.StaticPrefix, DefaultStaticPrefix) + strings.TrimPrefix(m.LocalPoster, "/")
	}
	if m.PosterPath != "" {
		if strings.HasPrefix(m.PosterPath, "http") {
			return m.PosterPath
		}
		return strings.TrimSuffix(p.orDefault(p.ImageBaseURL, DefaultImageBaseURL), "/") + "/" + strings.TrimPrefix(m.PosterPath, "/")
	}
	return p.placeholder(strings.TrimSpace(m.PrimaryGenre()))
}

func (p *PosterResolver) placeholder(genre string) string {
	emoji, ok := genreEmojis[genre]
	if !ok {
		emoji = defaultEmoji
	}
	return p.orDefault(p.PlaceholderURL, DefaultPlaceholderURL) + emoji
}

func (p *PosterResolver) orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
