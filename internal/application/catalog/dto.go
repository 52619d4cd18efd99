package catalog

import (
	"fmt"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
)

// BookDTO 图书信息
type BookDTO struct {
	ID            uint     `json:"id"`
	ExternalID    string   `json:"external_id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Description   string   `json:"description"`
	Thumbnail     string   `json:"thumbnail"`
	Price         int64    `json:"price"`      // 分
	PriceYuan     string   `json:"price_yuan"` // 元(展示用)
	Stock         int      `json:"stock"`
	Categories    []string `json:"categories"`
	PageCount     int      `json:"page_count"`
	PublishedDate string   `json:"published_date"`
	Publisher     string   `json:"publisher"`
	CreatedAt     string   `json:"created_at"`
}

func toBookDTO(b *catalog.Book) BookDTO {
	return BookDTO{
		ID:            b.ID,
		ExternalID:    b.ExternalID,
		Title:         b.Title,
		Authors:       nonNil(b.Authors),
		Description:   b.Description,
		Thumbnail:     b.Thumbnail,
		Price:         b.Price,
		PriceYuan:     formatPrice(b.Price),
		Stock:         b.Stock,
		Categories:    nonNil(b.Categories),
		PageCount:     b.PageCount,
		PublishedDate: b.PublishedDate,
		Publisher:     b.Publisher,
		CreatedAt:     b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toBookDTOs(books []*catalog.Book) []BookDTO {
	list := make([]BookDTO, len(books))
	for i, b := range books {
		list[i] = toBookDTO(b)
	}
	return list
}

// formatPrice 分 → 元
func formatPrice(fen int64) string {
	sign := ""
	if fen < 0 {
		sign, fen = "-", -fen
	}
	return fmt.Sprintf("%s%d.%02d", sign, fen/100, fen%100)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
