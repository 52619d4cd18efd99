package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/infrastructure/cache"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/mq"
)

type fakeProvider struct {
	mu      sync.Mutex
	calls   int32
	records []catalog.Record
	err     error
	release chan struct{}
	ctxErrs []error
}

func (p *fakeProvider) Search(ctx context.Context, query string) ([]catalog.Record, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.release != nil {
		<-p.release
	}
	p.mu.Lock()
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return p.records, nil
}

// countingCache 统计Get次数
type countingCache struct {
	catalog.SearchCache
	gets int32
}

func (c *countingCache) Get(ctx context.Context, key string) ([]*catalog.Book, bool, error) {
	atomic.AddInt32(&c.gets, 1)
	return c.SearchCache.Get(ctx, key)
}

type fixture struct {
	repo     catalog.Repository
	service  catalog.Service
	provider *fakeProvider
	cache    *countingCache
	search   *SearchBooksUseCase
}

func newFixture(t *testing.T, records ...catalog.Record) *fixture {
	t.Helper()
	store := memory.NewStore()
	repo := memory.NewBookRepository(store)
	service := catalog.NewService(repo, catalog.Defaults{Price: 999, Stock: 10})
	provider := &fakeProvider{records: records}
	searchCache, err := cache.NewSearchCache(16)
	require.NoError(t, err)
	counting := &countingCache{SearchCache: searchCache}

	return &fixture{
		repo:     repo,
		service:  service,
		provider: provider,
		cache:    counting,
		search:   NewSearchBooksUseCase(provider, counting, service, mq.NopPublisher{}, zap.NewNop(), time.Hour),
	}
}

func goRecords() []catalog.Record {
	return []catalog.Record{
		{ExternalID: "g1", Title: "The Go Programming Language", Authors: []string{"Donovan"}},
		{ExternalID: "g2", Title: "Concurrency in Go", Thumbnail: "http://img/2"},
	}
}

func TestSearchBooks_MissThenHit(t *testing.T) {
	f := newFixture(t, goRecords()...)
	ctx := context.Background()

	first, err := f.search.Execute(ctx, SearchBooksRequest{Query: "golang"})
	require.NoError(t, err)
	assert.False(t, first.Cached)
	require.Len(t, first.Books, 2)
	assert.Equal(t, int64(999), first.Books[0].Price)
	assert.Equal(t, 10, first.Books[0].Stock)
	assert.Equal(t, "https://img/2", first.Books[1].Thumbnail)
	assert.Equal(t, []string{catalog.DefaultAuthor}, first.Books[1].Authors)

	second, err := f.search.Execute(ctx, SearchBooksRequest{Query: "  golang "})
	require.NoError(t, err)
	assert.True(t, second.Cached, "首尾空白不影响缓存命中")
	assert.Equal(t, first.Books, second.Books)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.provider.calls))

	_, err = f.search.Execute(ctx, SearchBooksRequest{Query: "Golang"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.provider.calls), "缓存键区分大小写")
}

func TestSearchBooks_EmptyQuery(t *testing.T) {
	f := newFixture(t)
	_, err := f.search.Execute(context.Background(), SearchBooksRequest{Query: "   "})
	assert.True(t, errors.Is(err, catalog.ErrEmptyQuery))
	assert.Zero(t, atomic.LoadInt32(&f.provider.calls))
}

func TestSearchBooks_ProviderErrorIsNotCached(t *testing.T) {
	f := newFixture(t)
	f.provider.err = catalog.NewProviderError(403, "API key not valid", errors.New("403"))

	_, err := f.search.Execute(context.Background(), SearchBooksRequest{Query: "golang"})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodeProviderError, appErr.Code)
	assert.Equal(t, 403, appErr.Details["status"])

	f.provider.err = nil
	f.provider.records = goRecords()
	resp, err := f.search.Execute(context.Background(), SearchBooksRequest{Query: "golang"})
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.provider.calls))
}

func TestSearchBooks_PartialFailure(t *testing.T) {
	f := newFixture(t,
		catalog.Record{ExternalID: "g1", Title: "A"},
		catalog.Record{ExternalID: "", Title: "no id"},
		catalog.Record{ExternalID: "g1", Title: "A again"},
		catalog.Record{ExternalID: "g3", Title: "C"},
	)

	resp, err := f.search.Execute(context.Background(), SearchBooksRequest{Query: "mixed"})
	require.NoError(t, err)
	require.Len(t, resp.Books, 2)
	assert.Equal(t, "g1", resp.Books[0].ExternalID)
	assert.Equal(t, "g3", resp.Books[1].ExternalID)

	_, total, err := f.repo.List(context.Background(), catalog.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

// flakyRepository 在down为true时所有写入失败
type flakyRepository struct {
	catalog.Repository
	down atomic.Bool
}

func (r *flakyRepository) Upsert(ctx context.Context, b *catalog.Book, mode catalog.UpsertMode) (*catalog.Book, error) {
	if r.down.Load() {
		return nil, apperrors.WrapDB(errors.New("connection refused"), "保存图书失败")
	}
	return r.Repository.Upsert(ctx, b, mode)
}

func TestSearchBooks_StoreOutageIsNotCached(t *testing.T) {
	repo := &flakyRepository{Repository: memory.NewBookRepository(memory.NewStore())}
	service := catalog.NewService(repo, catalog.Defaults{Price: 999, Stock: 10})
	provider := &fakeProvider{records: goRecords()}
	search := NewSearchBooksUseCase(provider, mustCache(t), service, mq.NopPublisher{}, zap.NewNop(), time.Hour)
	ctx := context.Background()

	repo.down.Store(true)
	_, err := search.Execute(ctx, SearchBooksRequest{Query: "golang"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabaseError))

	repo.down.Store(false)
	resp, err := search.Execute(ctx, SearchBooksRequest{Query: "golang"})
	require.NoError(t, err)
	assert.False(t, resp.Cached, "故障期间的结果没有写入缓存")
	assert.Len(t, resp.Books, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&provider.calls))

	resp, err = search.Execute(ctx, SearchBooksRequest{Query: "golang"})
	require.NoError(t, err)
	assert.True(t, resp.Cached)
	assert.Len(t, resp.Books, 2)
}

// partialRepository 只有指定的外部ID写入失败
type partialRepository struct {
	catalog.Repository
	failID string
}

func (r *partialRepository) Upsert(ctx context.Context, b *catalog.Book, mode catalog.UpsertMode) (*catalog.Book, error) {
	if b.ExternalID == r.failID {
		return nil, apperrors.WrapDB(errors.New("deadlock"), "保存图书失败")
	}
	return r.Repository.Upsert(ctx, b, mode)
}

func TestSearchBooks_PartialStoreFailureReturnsBooksWithoutCaching(t *testing.T) {
	repo := &partialRepository{Repository: memory.NewBookRepository(memory.NewStore()), failID: "g2"}
	service := catalog.NewService(repo, catalog.Defaults{Price: 999, Stock: 10})
	provider := &fakeProvider{records: goRecords()}
	search := NewSearchBooksUseCase(provider, mustCache(t), service, mq.NopPublisher{}, zap.NewNop(), time.Hour)

	resp, err := search.Execute(context.Background(), SearchBooksRequest{Query: "golang"})
	require.NoError(t, err)
	require.Len(t, resp.Books, 1)
	assert.Equal(t, "g1", resp.Books[0].ExternalID)

	resp, err = search.Execute(context.Background(), SearchBooksRequest{Query: "golang"})
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Equal(t, int32(2), atomic.LoadInt32(&provider.calls))
}

func TestSearchBooks_ReingestKeepsLocalPriceAndStock(t *testing.T) {
	f := newFixture(t, goRecords()...)
	ctx := context.Background()

	_, err := f.search.Execute(ctx, SearchBooksRequest{Query: "golang"})
	require.NoError(t, err)

	_, err = NewUpsertBookUseCase(f.service).Execute(ctx, UpsertBookRequest{
		ExternalID: "g1", Title: "Admin title", Price: 2500, Stock: 3,
	})
	require.NoError(t, err)

	// 新的用例实例,缓存为空,重新入库
	fresh := NewSearchBooksUseCase(f.provider, &countingCache{SearchCache: mustCache(t)}, f.service, mq.NopPublisher{}, zap.NewNop(), time.Hour)
	resp, err := fresh.Execute(ctx, SearchBooksRequest{Query: "golang"})
	require.NoError(t, err)
	assert.Equal(t, "The Go Programming Language", resp.Books[0].Title, "描述性字段以数据源为准")
	assert.Equal(t, int64(2500), resp.Books[0].Price)
	assert.Equal(t, 3, resp.Books[0].Stock)

	_, total, _ := f.repo.List(ctx, catalog.ListFilter{})
	assert.Equal(t, int64(2), total)
}

func TestSearchBooks_IngestionIgnoresClientCancel(t *testing.T) {
	f := newFixture(t, goRecords()...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.search.Execute(ctx, SearchBooksRequest{Query: "golang"})
	require.NoError(t, err)

	require.Len(t, f.provider.ctxErrs, 1)
	assert.NoError(t, f.provider.ctxErrs[0])
	_, err = f.repo.FindByExternalID(context.Background(), "g2")
	assert.NoError(t, err)
}

func TestSearchBooks_ConcurrentMissesShareOneProviderCall(t *testing.T) {
	f := newFixture(t, goRecords()...)
	f.provider.release = make(chan struct{})

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.search.Execute(context.Background(), SearchBooksRequest{Query: "golang"})
		}(i)
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&f.cache.gets) == n }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(f.provider.release)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.provider.calls))
}

func TestListBooks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewListBooksUseCase(f.repo)

	empty, err := uc.Execute(ctx, ListBooksRequest{})
	require.NoError(t, err)
	assert.Equal(t, catalog.FallbackMinPrice, empty.Filters.PriceRange.Min)
	assert.Equal(t, catalog.FallbackMaxPrice, empty.Filters.PriceRange.Max)
	assert.Equal(t, 0, empty.Pages)

	upsert := NewUpsertBookUseCase(f.service)
	for i, p := range []int64{1500, 500, 3000} {
		_, err := upsert.Execute(ctx, UpsertBookRequest{
			ExternalID: string(rune('a' + i)),
			Title:      string(rune('A' + i)),
			Authors:    []string{"Author"},
			Categories: []string{"Fiction", ""},
			Price:      p,
			Stock:      i,
		})
		require.NoError(t, err)
	}

	resp, err := uc.Execute(ctx, ListBooksRequest{Sort: "price-asc", InStock: true, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total, "库存为0的图书被过滤")
	assert.Equal(t, 2, resp.Pages)
	require.Len(t, resp.Books, 1)
	assert.Equal(t, int64(500), resp.Books[0].Price)
	assert.Equal(t, "5.00", resp.Books[0].PriceYuan)
	assert.Equal(t, []string{"Fiction"}, resp.Filters.Categories)
	assert.Equal(t, PriceRange{Min: 500, Max: 3000}, resp.Filters.PriceRange)

	_, err = uc.Execute(ctx, ListBooksRequest{Sort: "popular"})
	assert.True(t, errors.Is(err, catalog.ErrInvalidSortKey))

	min, max := int64(10), int64(5)
	_, err = uc.Execute(ctx, ListBooksRequest{MinPrice: &min, MaxPrice: &max})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidParams))
}

func TestGetBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := NewUpsertBookUseCase(f.service).Execute(ctx, UpsertBookRequest{ExternalID: "x", Price: 100, Stock: 1})
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultTitle, created.Title)

	got, err := NewGetBookUseCase(f.repo).Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", got.ExternalID)

	_, err = NewGetBookUseCase(f.repo).Execute(ctx, 999)
	assert.True(t, errors.Is(err, catalog.ErrBookNotFound))
}

func TestUpsertBook_Validation(t *testing.T) {
	f := newFixture(t)
	uc := NewUpsertBookUseCase(f.service)

	_, err := uc.Execute(context.Background(), UpsertBookRequest{ExternalID: "x", Price: 0})
	assert.True(t, errors.Is(err, catalog.ErrInvalidPrice))
	_, err = uc.Execute(context.Background(), UpsertBookRequest{Price: 100})
	assert.True(t, errors.Is(err, catalog.ErrInvalidRecord))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "38.75", formatPrice(3875))
	assert.Equal(t, "0.05", formatPrice(5))
	assert.Equal(t, "-1.50", formatPrice(-150))
}

func mustCache(t *testing.T) catalog.SearchCache {
	c, err := cache.NewSearchCache(16)
	require.NoError(t, err)
	return c
}
