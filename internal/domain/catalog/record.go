package catalog

import (
	"strings"
)

// 数据源缺失字段时使用的默认值
const (
	DefaultTitle       = "Untitled"
	DefaultAuthor      = "Unknown Author"
	DefaultDescription = "No description available"
)

// Record 数据源返回的图书记录
// 只有描述性字段:价格与库存不由数据源提供
type Record struct {
	ExternalID    string
	Title         string
	Authors       []string
	Description   string
	Thumbnail     string
	Categories    []string
	PageCount     int
	PublishedDate string
	Publisher     string
}

// Normalize 补齐缺失字段
// 1. title/description缺失使用默认文案
// 2. authors为空时为["Unknown Author"]
// 3. http缩略图升级为https
// 4. categories去掉空值
func (r Record) Normalize() Record {
	r.ExternalID = strings.TrimSpace(r.ExternalID)

	if strings.TrimSpace(r.Title) == "" {
		r.Title = DefaultTitle
	}
	if strings.TrimSpace(r.Description) == "" {
		r.Description = DefaultDescription
	}

	authors := compact(r.Authors)
	if len(authors) == 0 {
		authors = []string{DefaultAuthor}
	}
	r.Authors = authors
	r.Categories = compact(r.Categories)
	r.Thumbnail = secureURL(r.Thumbnail)

	if r.PageCount < 0 {
		r.PageCount = 0
	}
	return r
}

// Validate 记录必须携带ExternalID
func (r Record) Validate() error {
	if strings.TrimSpace(r.ExternalID) == "" {
		return ErrInvalidRecord
	}
	return nil
}

func secureURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "http://") {
		return "https://" + strings.TrimPrefix(raw, "http://")
	}
	return raw
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
