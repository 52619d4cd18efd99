package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
)

// BookRepository 图书仓储内存实现
type BookRepository struct {
	s *Store
}

// NewBookRepository 创建图书仓储
func NewBookRepository(s *Store) catalog.Repository {
	return &BookRepository{s: s}
}

func (r *BookRepository) FindByID(ctx context.Context, id uint) (*catalog.Book, error) {
	defer r.s.lock(ctx)()

	b, ok := r.s.state.books[id]
	if !ok {
		return nil, catalog.ErrBookNotFound
	}
	out := copyBook(b)
	return &out, nil
}

func (r *BookRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]*catalog.Book, error) {
	defer r.s.lock(ctx)()

	result := make(map[uint]*catalog.Book, len(ids))
	for _, id := range ids {
		if b, ok := r.s.state.books[id]; ok {
			out := copyBook(b)
			result[id] = &out
		}
	}
	return result, nil
}

func (r *BookRepository) FindByExternalID(ctx context.Context, externalID string) (*catalog.Book, error) {
	defer r.s.lock(ctx)()

	id, ok := r.s.state.byExternalID[externalID]
	if !ok {
		return nil, catalog.ErrBookNotFound
	}
	out := copyBook(r.s.state.books[id])
	return &out, nil
}

func (r *BookRepository) Upsert(ctx context.Context, book *catalog.Book, mode catalog.UpsertMode) (*catalog.Book, error) {
	defer r.s.lock(ctx)()
	st := r.s.state
	now := time.Now()

	if id, ok := st.byExternalID[book.ExternalID]; ok {
		existing := st.books[id]
		existing.ApplyRecord(catalog.Record{
			ExternalID:    existing.ExternalID,
			Title:         book.Title,
			Authors:       book.Authors,
			Description:   book.Description,
			Thumbnail:     book.Thumbnail,
			Categories:    book.Categories,
			PageCount:     book.PageCount,
			PublishedDate: book.PublishedDate,
			Publisher:     book.Publisher,
		})
		if mode == catalog.UpsertAuthoritative {
			existing.Price = book.Price
			existing.Stock = book.Stock
		}
		existing.UpdatedAt = now
		st.books[id] = existing

		out := copyBook(existing)
		return &out, nil
	}

	st.nextBookID++
	created := copyBook(*book)
	created.ID = st.nextBookID
	created.CreatedAt = now
	created.UpdatedAt = now
	st.books[created.ID] = created
	st.byExternalID[created.ExternalID] = created.ID

	out := copyBook(created)
	return &out, nil
}

func (r *BookRepository) List(ctx context.Context, filter catalog.ListFilter) ([]*catalog.Book, int64, error) {
	defer r.s.lock(ctx)()
	filter = filter.Normalize()

	matched := make([]catalog.Book, 0)
	for _, b := range r.s.state.books {
		if matches(b, filter) {
			matched = append(matched, b)
		}
	}
	sortBooks(matched, filter.Sort)

	total := int64(len(matched))
	start := filter.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]*catalog.Book, 0, end-start)
	for _, b := range matched[start:end] {
		out := copyBook(b)
		page = append(page, &out)
	}
	return page, total, nil
}

func (r *BookRepository) Facets(ctx context.Context) (*catalog.Facets, error) {
	defer r.s.lock(ctx)()

	facets := &catalog.Facets{
		Categories: []string{},
		Authors:    []string{},
		MinPrice:   catalog.FallbackMinPrice,
		MaxPrice:   catalog.FallbackMaxPrice,
	}
	if len(r.s.state.books) == 0 {
		return facets, nil
	}

	categories := map[string]bool{}
	authors := map[string]bool{}
	first := true
	for _, b := range r.s.state.books {
		for _, c := range b.Categories {
			categories[c] = true
		}
		for _, a := range b.Authors {
			authors[a] = true
		}
		if first || b.Price < facets.MinPrice {
			facets.MinPrice = b.Price
		}
		if first || b.Price > facets.MaxPrice {
			facets.MaxPrice = b.Price
		}
		first = false
	}
	facets.Categories = sortedKeys(categories)
	facets.Authors = sortedKeys(authors)
	return facets, nil
}

func (r *BookRepository) LockByID(ctx context.Context, id uint) (*catalog.Book, error) {
	// 事务内已独占存储
	return r.FindByID(ctx, id)
}

func (r *BookRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	defer r.s.lock(ctx)()

	b, ok := r.s.state.books[id]
	if !ok {
		return catalog.ErrBookNotFound
	}
	if b.Stock+delta < 0 {
		return catalog.ErrInsufficientStock
	}
	b.Stock += delta
	b.UpdatedAt = time.Now()
	r.s.state.books[id] = b
	return nil
}

func matches(b catalog.Book, f catalog.ListFilter) bool {
	if f.MinPrice != nil && b.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && b.Price > *f.MaxPrice {
		return false
	}
	if f.InStock && b.Stock <= 0 {
		return false
	}
	if f.Category != "" && !contains(b.Categories, f.Category) {
		return false
	}
	if f.Author != "" && !contains(b.Authors, f.Author) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		text := strings.ToLower(b.Title + "\n" + strings.Join(b.Authors, "\n") + "\n" + b.Description)
		if !strings.Contains(text, q) {
			return false
		}
	}
	return true
}

func sortBooks(books []catalog.Book, key catalog.SortKey) {
	sort.SliceStable(books, func(i, j int) bool {
		a, b := books[i], books[j]
		switch key {
		case catalog.SortOldest:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		case catalog.SortPriceAsc:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		case catalog.SortPriceDesc:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
		case catalog.SortTitleAsc:
			if ta, tb := strings.ToLower(a.Title), strings.ToLower(b.Title); ta != tb {
				return ta < tb
			}
		case catalog.SortTitleDesc:
			if ta, tb := strings.ToLower(a.Title), strings.ToLower(b.Title); ta != tb {
				return ta > tb
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.ID > b.ID
	})
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
