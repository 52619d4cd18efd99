// Package metrics 提供基于Prometheus的指标收集
//
// 指标类型：
//   - Counter：只增不减的累计值（请求数、入库数、订单数）
//   - Gauge：可增可减的瞬时值（处理中的请求数、熔断器状态）
//   - Histogram：观测值分布（请求耗时、下单耗时）
//
// 使用方式：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
// 未调用InitMetrics时所有辅助函数都是空操作，单元测试无需初始化
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数，标签：method、path、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时，标签：method、path
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 图书搜索与入库

	// SearchCacheTotal 搜索缓存命中统计，标签：result（hit/miss）
	SearchCacheTotal *prometheus.CounterVec

	// ProviderRequestsTotal 数据源请求统计，标签：result（success/error/rejected）
	ProviderRequestsTotal *prometheus.CounterVec

	// IngestedBooksTotal 成功入库（插入或更新）的图书记录数
	IngestedBooksTotal prometheus.Counter

	// IngestFailuresTotal 入库失败的记录数，标签：reason（invalid_record/store）
	IngestFailuresTotal *prometheus.CounterVec

	// 订单

	// OrdersCommittedTotal 提交成功的订单总数
	OrdersCommittedTotal prometheus.Counter

	// OrdersCommitFailedTotal 提交失败的订单数，标签：reason（empty_cart/insufficient_stock/error）
	OrdersCommitFailedTotal *prometheus.CounterVec

	// OrderCommitDuration 订单提交耗时
	OrderCommitDuration prometheus.Histogram

	// 熔断器

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN），标签：name
	CircuitBreakerState *prometheus.GaugeVec

	// 消息队列

	// MessagesPublishedTotal 消息发布统计，标签：routing_key、result
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标（注册到默认Registry，重复调用无副作用）
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP请求耗时（秒）",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		SearchCacheTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_search_cache_total",
				Help: "图书搜索缓存命中统计",
			},
			[]string{"result"},
		)

		ProviderRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_provider_requests_total",
				Help: "图书数据源请求统计",
			},
			[]string{"result"},
		)

		IngestedBooksTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_ingested_books_total",
				Help: "入库成功的图书记录数",
			},
		)

		IngestFailuresTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_ingest_failures_total",
				Help: "入库失败的图书记录数",
			},
			[]string{"reason"},
		)

		OrdersCommittedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "orders_committed_total",
				Help: "提交成功的订单总数",
			},
		)

		OrdersCommitFailedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_commit_failed_total",
				Help: "提交失败的订单数",
			},
			[]string{"reason"},
		)

		OrderCommitDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "order_commit_duration_seconds",
				Help:    "订单提交耗时（秒）",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
			},
			[]string{"name"},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "消息发布统计",
			},
			[]string{"routing_key", "result"},
		)
	})
}

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	if counter == nil {
		return
	}
	counter.Inc()
}

// AddCounter Counter增加指定值
func AddCounter(counter prometheus.Counter, v float64) {
	if counter == nil {
		return
	}
	counter.Add(v)
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Dec()
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge == nil {
		return
	}
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram == nil {
		return
	}
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram == nil {
		return
	}
	histogram.With(labels).Observe(value)
}
