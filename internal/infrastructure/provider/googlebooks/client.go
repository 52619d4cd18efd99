// Package googlebooks Google Books API适配器,实现catalog.Provider
package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/catalog"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// 错误响应体最多读取的字节数
const maxErrorBody = 4 << 10

// Options 客户端参数
type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxResults int
}

// Client Google Books客户端
type Client struct {
	opts    Options
	http    *http.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

var _ catalog.Provider = (*Client)(nil)

// NewClient 创建客户端
// 熔断器只统计数据源故障(网络错误、5xx、429),4xx属于请求本身的问题
func NewClient(opts Options, logger *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 20
	}

	breaker := circuitbreaker.NewCircuitBreaker("google-books", circuitbreaker.Config{
		Timeout:      30 * time.Second,
		IsSuccessful: isSuccessful,
	})
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		logger.Warn("熔断器状态变化",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
	})

	return &Client{
		opts:    opts,
		http:    &http.Client{Timeout: opts.Timeout},
		breaker: breaker,
		logger:  logger,
	}
}

// NewClientFromConfig 从配置创建客户端(供wire使用)
func NewClientFromConfig(cfg *config.Config, logger *zap.Logger) *Client {
	return NewClient(Options{
		BaseURL:    cfg.Catalog.ProviderBaseURL,
		APIKey:     cfg.Catalog.ProviderAPIKey,
		Timeout:    cfg.Catalog.ProviderTimeout,
		MaxResults: cfg.Catalog.MaxResults,
	}, logger)
}

// Breaker 返回内部熔断器(测试用)
func (c *Client) Breaker() *circuitbreaker.CircuitBreaker {
	return c.breaker
}

// Search 调用 GET {base}/volumes?q=..&key=..&maxResults=N
// 1. 熔断器打开时直接返回ErrProviderUnavailable
// 2. 非2xx响应转换为ProviderError(携带上游状态码与错误信息)
// 3. 缺少volumeInfo的条目跳过,缺少id的条目原样返回,由入库环节拒绝
func (c *Client) Search(ctx context.Context, query string) ([]catalog.Record, error) {
	var records []catalog.Record
	err := c.breaker.Execute(func() error {
		var err error
		records, err = c.search(ctx, query)
		return err
	})

	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState), errors.Is(err, circuitbreaker.ErrTooManyRequests):
		metrics.IncCounterVec(metrics.ProviderRequestsTotal, map[string]string{"result": "rejected"})
		return nil, apperrors.ErrProviderUnavailable.WithErr(err)
	case err != nil:
		metrics.IncCounterVec(metrics.ProviderRequestsTotal, map[string]string{"result": "error"})
		return nil, err
	}

	metrics.IncCounterVec(metrics.ProviderRequestsTotal, map[string]string{"result": "success"})
	return records, nil
}

func (c *Client) search(ctx context.Context, query string) ([]catalog.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(query), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "构造数据源请求失败")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, catalog.NewProviderError(0, "数据源请求失败", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		details := errorDetails(body)
		c.logger.Warn("数据源返回错误",
			zap.Int("status", resp.StatusCode),
			zap.String("details", details),
		)
		return nil, catalog.NewProviderError(resp.StatusCode, details,
			fmt.Errorf("google books: unexpected status %d", resp.StatusCode))
	}

	var payload volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, catalog.NewProviderError(resp.StatusCode, "数据源响应格式错误", err)
	}

	records := make([]catalog.Record, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.VolumeInfo == nil {
			c.logger.Debug("跳过缺少volumeInfo的条目", zap.String("id", item.ID))
			continue
		}
		records = append(records, item.toRecord())
	}
	return records, nil
}

func (c *Client) searchURL(query string) string {
	params := url.Values{}
	params.Set("q", query)
	if c.opts.APIKey != "" {
		params.Set("key", c.opts.APIKey)
	}
	params.Set("maxResults", strconv.Itoa(c.opts.MaxResults))
	return c.opts.BaseURL + "/volumes?" + params.Encode()
}

// isSuccessful 熔断器成功判定:请求被数据源拒绝(4xx,429除外)不算数据源故障
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrCodeProviderError {
		return false
	}
	status, _ := appErr.Details["status"].(int)
	return status >= 400 && status < 500 && status != http.StatusTooManyRequests
}

// errorDetails 提取 {"error": {"message": ...}},解析失败时返回原始响应体
func errorDetails(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return string(body)
}
