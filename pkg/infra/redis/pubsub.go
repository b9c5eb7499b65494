package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PubSub Redis 发布/订阅客户端
type PubSub struct {
	client *redis.Client
}

// NewPubSub 创建 PubSub 实例
func NewPubSub(ctx context.Context, addr, password string, db int) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// 测试连接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &PubSub{
		client: client,
	}, nil
}

// BatchNotification 分诊批次完成通知
type BatchNotification struct {
	BatchID   string `json:"batch_id"`
	RequestID string `json:"request_id,omitempty"`
	Tracking  string `json:"tracking"`
	Status    string `json:"status"` // SUCCESS/FAILED
	RowsOut   int    `json:"rows_out"`
	Exported  bool   `json:"exported"`
	Timestamp int64  `json:"timestamp"`
}

// PublishBatchComplete 发布批次完成通知
func (p *PubSub) PublishBatchComplete(ctx context.Context, channel string, notification *BatchNotification) error {
	msgJSON, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := p.client.Publish(ctx, channel, msgJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

// WaitBatch 订阅通知频道，等待指定批次的完成通知
// 其它批次的通知直接跳过；超时返回 context.DeadlineExceeded
func (p *PubSub) WaitBatch(ctx context.Context, channel, batchID string, timeout time.Duration) (*BatchNotification, error) {
	sub := p.client.Subscribe(ctx, channel)
	defer sub.Close()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msgs := sub.Channel()
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return nil, fmt.Errorf("subscription to %s closed", channel)
			}
			var n BatchNotification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				continue
			}
			if n.BatchID == batchID {
				return &n, nil
			}
		case <-timeoutCtx.Done():
			return nil, timeoutCtx.Err()
		}
	}
}

// Close 关闭 Redis 连接
func (p *PubSub) Close() error {
	return p.client.Close()
}
