package framework

import (
	"fmt"
	"time"
)

// 拉取侧默认值：一个分诊批次通常要跑几分钟，TTR 需留足余量
const (
	DefaultConsumeTimeout = 3 * time.Second
	DefaultTTR            = 10 * time.Minute
	DefaultErrorBackoff   = time.Second
)

// SubscriberConfig Subscriber 配置
type SubscriberConfig struct {
	QueueName    string        // 分诊任务队列
	Concurrency  int           // 并发拉取数
	Timeout      time.Duration // 拉取超时
	TTR          time.Duration // Time-To-Run，超过未 ACK 则重新投递
	Rate         time.Duration // 拉取间隔
	ErrorBackoff time.Duration // 错误退避时间
}

// Normalize 补默认值并校验
func (c *SubscriberConfig) Normalize() error {
	if c.QueueName == "" {
		return fmt.Errorf("subscriber: queue name is required")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("subscriber %s: concurrency must be positive, got %d", c.QueueName, c.Concurrency)
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultConsumeTimeout
	}
	if c.TTR <= 0 {
		c.TTR = DefaultTTR
	}
	if c.ErrorBackoff <= 0 {
		c.ErrorBackoff = DefaultErrorBackoff
	}
	return nil
}

// ProcessorConfig Processor 配置
type ProcessorConfig struct {
	Concurrency int           // 并发处理数
	BufferSize  int           // inputChan 缓冲区大小
	Timeout     time.Duration // 单个分诊任务超时
}

// Validate 任务超时必须短于 TTR，否则任务还在跑时 lmstfy 就会重新投递
func (c *ProcessorConfig) Validate(ttr time.Duration) error {
	if c.Concurrency <= 0 {
		return fmt.Errorf("processor: concurrency must be positive, got %d", c.Concurrency)
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("processor: buffer size must not be negative, got %d", c.BufferSize)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("processor: timeout must be positive, got %s", c.Timeout)
	}
	if ttr > 0 && c.Timeout >= ttr {
		return fmt.Errorf("processor: timeout %s must be shorter than ttr %s", c.Timeout, ttr)
	}
	return nil
}
