package googlebooks

import "github.com/xiebiao/bookshop/internal/domain/catalog"

type volumesResponse struct {
	TotalItems int          `json:"totalItems"`
	Items      []volumeItem `json:"items"`
}

type volumeItem struct {
	ID         string      `json:"id"`
	VolumeInfo *volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Description   string   `json:"description"`
	Categories    []string `json:"categories"`
	PageCount     int      `json:"pageCount"`
	PublishedDate string   `json:"publishedDate"`
	Publisher     string   `json:"publisher"`
	ImageLinks    *struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"imageLinks"`
}

// toRecord 缺失字段的默认值由Record.Normalize统一补齐
func (v volumeItem) toRecord() catalog.Record {
	info := v.VolumeInfo
	r := catalog.Record{
		ExternalID:    v.ID,
		Title:         info.Title,
		Authors:       info.Authors,
		Description:   info.Description,
		Categories:    info.Categories,
		PageCount:     info.PageCount,
		PublishedDate: info.PublishedDate,
		Publisher:     info.Publisher,
	}
	if info.ImageLinks != nil {
		r.Thumbnail = info.ImageLinks.Thumbnail
	}
	return r.Normalize()
}
