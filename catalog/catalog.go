// Package catalog 是电影目录：启动时一次性加载，之后只读，可被多个请求并发读取。
package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/rushteam/movierec/core"
)

// releaseLayouts 是可接受的上映日期格式，加载时统一规整为 2006-01-02。
var releaseLayouts = []string{"2006-01-02", "2006-1-2", "2006/01/02", "2006/1/2"}

// parseReleaseDate 解析上映日期，空值或无法解析时返回 false。
func parseReleaseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range releaseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Catalog 是 core.Catalog 的内存实现。
type Catalog struct {
	movies    []*core.Movie
	byID      map[int64]*core.Movie
	byModelID map[int64]*core.Movie
	released  map[int64]time.Time
}

var _ core.Catalog = (*Catalog)(nil)

// New 从电影列表构建目录。
// ID 非正数或标题为空的记录被跳过；重复 ID 保留第一条；一个模型 ID 只映射到第一部声明它的电影。
// 返回跳过的记录数，便于上层记录日志。
func New(movies []core.Movie) (*Catalog, int) {
	c := &Catalog{
		movies:    make([]*core.Movie, 0, len(movies)),
		byID:      make(map[int64]*core.Movie, len(movies)),
		byModelID: make(map[int64]*core.Movie, len(movies)),
		released:  make(map[int64]time.Time, len(movies)),
	}
	skipped := 0
	for i := range movies {
		m := movies[i]
		if m.ID <= 0 || m.Title == "" {
			skipped++
			continue
		}
		if _, dup := c.byID[m.ID]; dup {
			skipped++
			continue
		}
		if t, ok := parseReleaseDate(m.ReleaseDate); ok {
			m.ReleaseDate = t.Format("2006-01-02")
			c.released[m.ID] = t
		}
		mp := &m
		c.movies = append(c.movies, mp)
		c.byID[m.ID] = mp
		for _, mid := range m.ModelIDs {
			if _, taken := c.byModelID[mid]; !taken {
				c.byModelID[mid] = mp
			}
		}
	}
	return c, skipped
}

func (c *Catalog) Lookup(id int64) (*core.Movie, bool) {
	m, ok := c.byID[id]
	return m, ok
}

func (c *Catalog) LookupByModelID(modelID int64) (*core.Movie, bool) {
	m, ok := c.byModelID[modelID]
	return m, ok
}

func (c *Catalog) Contains(id int64) bool {
	_, ok := c.byID[id]
	return ok
}

// Len 返回电影数量。
func (c *Catalog) Len() int { return len(c.movies) }

// All 按加载顺序返回全部电影（只读，不要修改）。
func (c *Catalog) All() []*core.Movie { return c.movies }

// Newest 返回按上映日期倒序的前 n 部电影，同日期保持加载顺序。
// 没有上映日期或日期无法解析的电影不参与排序。
func (c *Catalog) Newest(n int) []*core.Movie {
	out := make([]*core.Movie, 0, len(c.released))
	for _, m := range c.movies {
		if _, ok := c.released[m.ID]; ok {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return c.released[out[i].ID].After(c.released[out[j].ID])
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
