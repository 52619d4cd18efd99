package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

func TestRecord_Normalize(t *testing.T) {
	got := catalog.Record{
		ExternalID: " abc ",
		Authors:    []string{"", "  "},
		Categories: []string{"Fiction", " "},
		Thumbnail:  "http://books.google.com/x.jpg",
		PageCount:  -1,
	}.Normalize()

	assert.Equal(t, "abc", got.ExternalID)
	assert.Equal(t, catalog.DefaultTitle, got.Title)
	assert.Equal(t, []string{catalog.DefaultAuthor}, got.Authors)
	assert.Equal(t, catalog.DefaultDescription, got.Description)
	assert.Equal(t, "https://books.google.com/x.jpg", got.Thumbnail)
	assert.Equal(t, []string{"Fiction"}, got.Categories)
	assert.Equal(t, 0, got.PageCount)

	empty := catalog.Record{ExternalID: "x"}.Normalize()
	assert.Equal(t, "", empty.Thumbnail)
	assert.Empty(t, empty.Categories)
	assert.Equal(t, "", empty.Publisher)
}

func TestRecord_Validate(t *testing.T) {
	assert.True(t, errors.Is(catalog.Record{ExternalID: "  "}.Validate(), catalog.ErrInvalidRecord))
	assert.NoError(t, catalog.Record{ExternalID: "x"}.Validate())
}

func newService() (catalog.Service, catalog.Repository) {
	repo := memory.NewBookRepository(memory.NewStore())
	return catalog.NewService(repo, catalog.Defaults{Price: 999, Stock: 10}), repo
}

func TestService_UpsertIdempotent(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	first, err := svc.Upsert(ctx, catalog.Record{ExternalID: "g1", Title: "Go"})
	require.NoError(t, err)
	assert.Equal(t, int64(999), first.Price)
	assert.Equal(t, 10, first.Stock)

	// 本地改价、扣库存后重新入库
	require.NoError(t, repo.UpdateStock(ctx, first.ID, -4))
	_, err = repo.Upsert(ctx, &catalog.Book{ExternalID: "g1", Title: "Go", Price: 1500, Stock: 6}, catalog.UpsertAuthoritative)
	require.NoError(t, err)

	second, err := svc.Upsert(ctx, catalog.Record{ExternalID: "g1", Title: "Go 2nd Edition"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Go 2nd Edition", second.Title)
	assert.Equal(t, int64(1500), second.Price)
	assert.Equal(t, 6, second.Stock)

	_, total, err := repo.List(ctx, catalog.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestService_UpsertWithInventory(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	b, err := svc.UpsertWithInventory(ctx, catalog.Record{ExternalID: "g1"}, 2500, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), b.Price)
	assert.Equal(t, 3, b.Stock)
	assert.Equal(t, catalog.DefaultTitle, b.Title)

	_, err = svc.UpsertWithInventory(ctx, catalog.Record{ExternalID: "g1"}, 0, 3)
	assert.True(t, errors.Is(err, catalog.ErrInvalidPrice))
	_, err = svc.UpsertWithInventory(ctx, catalog.Record{ExternalID: "g1"}, 100, -1)
	assert.True(t, errors.Is(err, catalog.ErrInvalidStock))
	_, err = svc.UpsertWithInventory(ctx, catalog.Record{}, 100, 1)
	assert.True(t, errors.Is(err, catalog.ErrInvalidRecord))
}

func TestService_IngestPartialFailure(t *testing.T) {
	svc, _ := newService()

	result := svc.Ingest(context.Background(), []catalog.Record{
		{ExternalID: "a", Title: "A"},
		{Title: "missing id"},
		{ExternalID: "b", Title: "B"},
		{ExternalID: "a", Title: "A again"},
	})

	require.Len(t, result.Books, 2)
	assert.Equal(t, "A", result.Books[0].Title)
	assert.Equal(t, "B", result.Books[1].Title)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, 1, result.Failures[0].Index)
	assert.True(t, apperrors.HasCode(result.Failures[0].Err, apperrors.ErrCodeInvalidRecord))
	assert.NoError(t, result.StoreFailure(), "缺少外部ID不算存储故障")
}

func TestIngestResult_StoreFailure(t *testing.T) {
	dbErr := apperrors.WrapDB(errors.New("connection refused"), "保存图书失败")
	result := &catalog.IngestResult{Failures: []catalog.IngestFailure{
		{Index: 0, Err: catalog.ErrInvalidRecord},
		{Index: 1, ExternalID: "b", Err: dbErr},
	}}
	assert.True(t, apperrors.HasCode(result.StoreFailure(), apperrors.ErrCodeDatabaseError))
}

func TestSortKey(t *testing.T) {
	k, err := catalog.ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, catalog.SortNewest, k)

	k, err = catalog.ParseSortKey("price-desc")
	require.NoError(t, err)
	assert.Equal(t, catalog.SortPriceDesc, k)

	_, err = catalog.ParseSortKey("random")
	assert.True(t, errors.Is(err, catalog.ErrInvalidSortKey))
}

func TestListFilter_Normalize(t *testing.T) {
	f := catalog.ListFilter{Page: 0, Limit: 1000}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, catalog.MaxLimit, f.Limit)
	assert.Equal(t, catalog.SortNewest, f.Sort)

	f = catalog.ListFilter{Page: 3, Limit: 10}.Normalize()
	assert.Equal(t, 20, f.Offset())
}

func TestNewProviderError(t *testing.T) {
	err := catalog.NewProviderError(403, "quota exceeded", nil)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeProviderError, appErr.Code)
	assert.Equal(t, 403, appErr.Details["status"])
	assert.True(t, errors.Is(err, apperrors.ErrProviderError))
}
