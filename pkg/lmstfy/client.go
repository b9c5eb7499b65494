package lmstfy

import (
	"fmt"
	"time"

	"github.com/bitleak/lmstfy/client"

	"o2a/inctriage/internal/framework"
)

// 回调消息的投递参数
const (
	callbackTTLSecond   = 24 * 3600
	callbackTries       = 3
	callbackDelaySecond = 0
)

// Client Lmstfy 客户端封装
type Client struct {
	cli       *client.LmstfyClient
	namespace string
}

// NewClient 创建 Lmstfy 客户端
func NewClient(host string, port int, namespace string, token string) (*Client, error) {
	if host == "" || namespace == "" {
		return nil, fmt.Errorf("lmstfy host and namespace are required")
	}
	return &Client{
		cli:       client.NewLmstfyClient(host, port, namespace, token),
		namespace: namespace,
	}, nil
}

// Consume 消费消息（实现 framework.MessageSource）
func (c *Client) Consume(queue string, ttr time.Duration, timeout time.Duration) (*framework.Message, error) {
	job, err := c.cli.Consume(queue, uint32(ttr.Seconds()), uint32(timeout.Seconds()))
	if err != nil {
		return nil, fmt.Errorf("lmstfy consume %s failed: %w", queue, err)
	}

	// 超时未拉到消息
	if job == nil {
		return nil, nil
	}

	return &framework.Message{
		ID:    job.ID,
		Queue: job.Queue,
		Data:  job.Data,
	}, nil
}

// Ack 确认消息（实现 framework.MessageSource）
func (c *Client) Ack(queue string, jobID string) error {
	if apiErr := c.cli.Ack(queue, jobID); apiErr != nil {
		return fmt.Errorf("lmstfy ack %s/%s failed: %w", queue, jobID, apiErr)
	}
	return nil
}

// Publish 发布回调消息
func (c *Client) Publish(queue string, data []byte) (string, error) {
	jobID, err := c.cli.Publish(queue, data, callbackTTLSecond, callbackTries, callbackDelaySecond)
	if err != nil {
		return "", fmt.Errorf("lmstfy publish %s failed: %w", queue, err)
	}
	return jobID, nil
}
