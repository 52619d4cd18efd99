package mysql

import (
	"context"
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 数据源重新入库时覆盖的列
var descriptiveColumns = []string{
	"title", "authors", "description", "thumbnail", "categories",
	"page_count", "published_date", "publisher", "updated_at",
}

// bookRepository 图书仓储实现(MySQL)
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) catalog.Repository {
	return &bookRepository{db: db}
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*catalog.Book, error) {
	var model BookModel
	if err := dbFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrBookNotFound
		}
		return nil, apperrors.WrapDB(err, "查询图书失败")
	}
	return model.toEntity(), nil
}

// FindByIDs 批量查询
func (r *bookRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]*catalog.Book, error) {
	result := make(map[uint]*catalog.Book, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var models []BookModel
	if err := dbFromContext(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.WrapDB(err, "批量查询图书失败")
	}
	for i := range models {
		result[models[i].ID] = models[i].toEntity()
	}
	return result, nil
}

// FindByExternalID 根据数据源ID查找图书
func (r *bookRepository) FindByExternalID(ctx context.Context, externalID string) (*catalog.Book, error) {
	var model BookModel
	err := dbFromContext(ctx, r.db).Where("external_id = ?", externalID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrBookNotFound
		}
		return nil, apperrors.WrapDB(err, "查询图书失败")
	}
	return model.toEntity(), nil
}

// Upsert 按external_id插入或更新
// INSERT ... ON DUPLICATE KEY UPDATE 只更新指定列，保证并发入库时只有一行
// 更新时LastInsertId不可靠，写入后按external_id重新查询
func (r *bookRepository) Upsert(ctx context.Context, b *catalog.Book, mode catalog.UpsertMode) (*catalog.Book, error) {
	db := dbFromContext(ctx, r.db)

	columns := append([]string(nil), descriptiveColumns...)
	if mode == catalog.UpsertAuthoritative {
		columns = append(columns, "price", "stock")
	}

	model := toBookModel(b)
	model.ID = 0
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(model).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "保存图书失败")
	}

	return r.FindByExternalID(ctx, b.ExternalID)
}

// List 按条件分页查询
func (r *bookRepository) List(ctx context.Context, filter catalog.ListFilter) ([]*catalog.Book, int64, error) {
	filter = filter.Normalize()
	query := applyFilter(dbFromContext(ctx, r.db).Model(&BookModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询图书总数失败")
	}

	var models []BookModel
	err := query.Order(orderBy(filter.Sort)).
		Limit(filter.Limit).
		Offset(filter.Offset()).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.WrapDB(err, "查询图书列表失败")
	}

	books := make([]*catalog.Book, len(models))
	for i := range models {
		books[i] = models[i].toEntity()
	}
	return books, total, nil
}

// Facets 全部图书的分类、作者与价格区间
func (r *bookRepository) Facets(ctx context.Context) (*catalog.Facets, error) {
	var models []BookModel
	err := dbFromContext(ctx, r.db).Model(&BookModel{}).
		Select("authors", "categories", "price").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapDB(err, "查询筛选项失败")
	}

	facets := &catalog.Facets{
		Categories: []string{},
		Authors:    []string{},
		MinPrice:   catalog.FallbackMinPrice,
		MaxPrice:   catalog.FallbackMaxPrice,
	}
	if len(models) == 0 {
		return facets, nil
	}

	categories := map[string]struct{}{}
	authors := map[string]struct{}{}
	facets.MinPrice, facets.MaxPrice = models[0].Price, models[0].Price
	for _, m := range models {
		for _, c := range m.Categories {
			if c != "" {
				categories[c] = struct{}{}
			}
		}
		for _, a := range m.Authors {
			if a != "" {
				authors[a] = struct{}{}
			}
		}
		if m.Price < facets.MinPrice {
			facets.MinPrice = m.Price
		}
		if m.Price > facets.MaxPrice {
			facets.MaxPrice = m.Price
		}
	}
	facets.Categories = sortedSet(categories)
	facets.Authors = sortedSet(authors)
	return facets, nil
}

// LockByID 悲观锁查询图书(SELECT ... FOR UPDATE)，必须在事务中调用
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*catalog.Book, error) {
	var model BookModel
	err := dbFromContext(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrBookNotFound
		}
		return nil, apperrors.WrapDB(err, "锁定图书失败")
	}
	return model.toEntity(), nil
}

// UpdateStock 原子更新库存
// UPDATE books SET stock = stock + ? WHERE id = ? AND stock + ? >= 0
func (r *bookRepository) UpdateStock(ctx context.Context, id uint, delta int) error {
	db := dbFromContext(ctx, r.db)
	result := db.Model(&BookModel{}).
		Where("id = ?", id).
		Where("stock + ? >= 0", delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return apperrors.WrapDB(result.Error, "更新库存失败")
	}

	if result.RowsAffected == 0 {
		// 图书不存在或库存不足，再查一次确定原因
		var model BookModel
		if err := db.Select("id").First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return catalog.ErrBookNotFound
			}
			return apperrors.WrapDB(err, "查询图书失败")
		}
		return catalog.ErrInsufficientStock
	}
	return nil
}

func applyFilter(query *gorm.DB, f catalog.ListFilter) *gorm.DB {
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}
	if f.InStock {
		query = query.Where("stock > 0")
	}
	if f.Category != "" {
		query = query.Where("JSON_CONTAINS(categories, JSON_QUOTE(?))", f.Category)
	}
	if f.Author != "" {
		query = query.Where("JSON_CONTAINS(authors, JSON_QUOTE(?))", f.Author)
	}
	if f.Search != "" {
		like := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(CAST(authors AS CHAR)) LIKE ? OR LOWER(description) LIKE ?)",
			like, like, like)
	}
	return query
}

// orderBy 排序相同时按id兜底，保证分页稳定
func orderBy(key catalog.SortKey) string {
	switch key {
	case catalog.SortOldest:
		return "created_at ASC, id ASC"
	case catalog.SortPriceAsc:
		return "price ASC, id DESC"
	case catalog.SortPriceDesc:
		return "price DESC, id DESC"
	case catalog.SortTitleAsc:
		return "title ASC, id DESC"
	case catalog.SortTitleDesc:
		return "title DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
