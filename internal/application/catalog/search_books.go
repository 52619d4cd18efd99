package catalog

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// RoutingKeyCatalogIngested 入库完成事件
const RoutingKeyCatalogIngested = "catalog.ingested"

// SearchBooksUseCase 图书搜索用例
// 查询 → 搜索缓存(命中直接返回) → 数据源 → 入库 → 写缓存
type SearchBooksUseCase struct {
	provider  catalog.Provider
	cache     catalog.SearchCache
	service   catalog.Service
	publisher mq.EventPublisher
	logger    *zap.Logger
	ttl       time.Duration

	// 同一查询并发未命中时只请求一次数据源
	group singleflight.Group
}

// NewSearchBooksUseCase 创建搜索用例
func NewSearchBooksUseCase(
	provider catalog.Provider,
	cache catalog.SearchCache,
	service catalog.Service,
	publisher mq.EventPublisher,
	logger *zap.Logger,
	ttl time.Duration,
) *SearchBooksUseCase {
	return &SearchBooksUseCase{
		provider:  provider,
		cache:     cache,
		service:   service,
		publisher: publisher,
		logger:    logger,
		ttl:       ttl,
	}
}

// SearchBooksRequest 搜索请求
type SearchBooksRequest struct {
	Query string
}

// SearchBooksResponse 搜索响应
type SearchBooksResponse struct {
	Books  []BookDTO `json:"books"`
	Cached bool      `json:"cached"`
}

// CatalogIngestedEvent 入库完成事件
type CatalogIngestedEvent struct {
	Query       string   `json:"query"`
	ExternalIDs []string `json:"external_ids"`
	Failed      int      `json:"failed"`
}

// Execute 执行搜索
// 1. 缓存键为去掉首尾空白的查询串(区分大小写)
// 2. 缓存读写失败只记录日志,按未命中处理
// 3. 数据源返回数据后,入库在脱离请求取消的context中完成
// 4. 数据源失败不写缓存,也不入库
// 5. 入库出现存储故障时不写缓存;全部失败时返回该错误
func (uc *SearchBooksUseCase) Execute(ctx context.Context, req SearchBooksRequest) (*SearchBooksResponse, error) {
	key := catalog.NormalizeQuery(req.Query)
	if key == "" {
		return nil, catalog.ErrEmptyQuery
	}

	ctx, span := tracing.StartSpan(ctx, "catalog", "SearchBooks")
	defer span.End()

	cached, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.logger.Warn("读取搜索缓存失败", zap.String("query", key), zap.Error(err))
	}
	if ok {
		metrics.IncCounterVec(metrics.SearchCacheTotal, map[string]string{"result": "hit"})
		return &SearchBooksResponse{Books: toBookDTOs(cached), Cached: true}, nil
	}
	metrics.IncCounterVec(metrics.SearchCacheTotal, map[string]string{"result": "miss"})

	v, err, _ := uc.group.Do(key, func() (interface{}, error) {
		return uc.fetchAndIngest(context.WithoutCancel(ctx), key)
	})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	return &SearchBooksResponse{Books: toBookDTOs(v.([]*catalog.Book))}, nil
}

func (uc *SearchBooksUseCase) fetchAndIngest(ctx context.Context, key string) ([]*catalog.Book, error) {
	records, err := uc.provider.Search(ctx, key)
	if err != nil {
		uc.logger.Warn("数据源搜索失败", zap.String("query", key), zap.Error(err))
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "catalog", "IngestRecords")
	result := uc.service.Ingest(ctx, records)
	span.End()

	for _, f := range result.Failures {
		reason := "store"
		if errors.Is(f.Err, catalog.ErrInvalidRecord) {
			reason = "invalid_record"
		}
		metrics.IncCounterVec(metrics.IngestFailuresTotal, map[string]string{"reason": reason})
		uc.logger.Warn("图书入库失败,已跳过",
			zap.String("query", key),
			zap.Int("index", f.Index),
			zap.String("external_id", f.ExternalID),
			zap.Error(f.Err),
		)
	}
	metrics.AddCounter(metrics.IngestedBooksTotal, float64(len(result.Books)))

	// 存储故障是暂时的，这批结果不写缓存，下次搜索重新入库
	if storeErr := result.StoreFailure(); storeErr != nil {
		if len(result.Books) == 0 {
			return nil, storeErr
		}
		uc.publishIngested(ctx, key, result)
		return result.Books, nil
	}

	if err := uc.cache.Put(ctx, key, result.Books, uc.ttl); err != nil {
		uc.logger.Warn("写入搜索缓存失败", zap.String("query", key), zap.Error(err))
	}

	uc.publishIngested(ctx, key, result)
	return result.Books, nil
}

// publishIngested 事件发布失败不影响搜索结果
func (uc *SearchBooksUseCase) publishIngested(ctx context.Context, key string, result *catalog.IngestResult) {
	if len(result.Books) == 0 {
		return
	}
	ids := make([]string, len(result.Books))
	for i, b := range result.Books {
		ids[i] = b.ExternalID
	}
	event := CatalogIngestedEvent{Query: key, ExternalIDs: ids, Failed: len(result.Failures)}
	if err := uc.publisher.Publish(ctx, RoutingKeyCatalogIngested, event); err != nil {
		uc.logger.Warn("发布入库事件失败", zap.String("query", key), zap.Error(err))
	}
}
