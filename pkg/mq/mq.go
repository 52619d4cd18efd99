// Package mq 封装RabbitMQ消息发布
//
// 订单提交成功后发布 order.committed 事件（topic exchange），
// 下游（通知、报表）按routing key订阅。发布是尽力而为的：
// 订单事务已经提交，发布失败只记录日志和指标，不回滚订单。
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/pkg/metrics"
)

// ExchangeTypeTopic topic类型的Exchange，支持 order.* 这样的通配订阅
const ExchangeTypeTopic = "topic"

// EventPublisher 事件发布接口（应用层依赖这个接口，不依赖RabbitMQ）
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// amqpChannel Publisher用到的Channel方法（测试时替换）
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher RabbitMQ消息发布者
type Publisher struct {
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
	logger   *zap.Logger
	mu       sync.Mutex // amqp.Channel不支持并发发布
}

// NewPublisher 连接RabbitMQ并声明持久化的Exchange
func NewPublisher(url, exchange, exchangeType string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,     // Exchange名称
		exchangeType, // Exchange类型
		true,         // Durable
		false,        // AutoDelete
		false,        // Internal
		false,        // NoWait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("声明Exchange失败: %w", err)
	}

	logger.Info("消息发布者已创建",
		zap.String("exchange", exchange),
		zap.String("type", exchangeType),
	)

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Publish 发布JSON消息（持久化投递）
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	msg, err := encode(message, time.Now())
	if err != nil {
		metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{"routing_key": routingKey, "result": "error"})
		return err
	}

	p.mu.Lock()
	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, // Mandatory
		false, // Immediate
		msg,
	)
	p.mu.Unlock()

	if err != nil {
		metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{"routing_key": routingKey, "result": "error"})
		return fmt.Errorf("发布消息失败: %w", err)
	}

	metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{"routing_key": routingKey, "result": "success"})
	p.logger.Debug("消息已发布",
		zap.String("exchange", p.exchange),
		zap.String("routing_key", routingKey),
		zap.Int("bytes", len(msg.Body)),
	)
	return nil
}

// Close 关闭Channel和连接
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}

func encode(message interface{}, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("消息序列化失败: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
	}, nil
}

// NopPublisher 未启用消息队列时使用，丢弃所有消息
type NopPublisher struct{}

// Publish 不做任何事
func (NopPublisher) Publish(context.Context, string, interface{}) error {
	return nil
}
