package lmstfyx

import (
	"context"

	"github.com/bitleak/lmstfy/client"
)

// Proc 业务处理函数类型（GetProcess 的函数签名）
type Proc func(ctx context.Context, job *client.Job) *JobResp

// JobRespStatus 消息处理结果状态
type JobRespStatus int

const (
	// JobRespStatusSuccess 处理成功，ACK
	JobRespStatusSuccess JobRespStatus = iota
	// JobRespStatusRelease 可重试失败，不 ACK，等待重新投递
	JobRespStatusRelease
	// JobRespStatusBury 不可重试失败，发送失败回调后 ACK
	JobRespStatusBury
)

// String 日志和指标标签
func (s JobRespStatus) String() string {
	switch s {
	case JobRespStatusSuccess:
		return "success"
	case JobRespStatusRelease:
		return "release"
	case JobRespStatusBury:
		return "bury"
	}
	return "unknown"
}

// JobResp 消息处理结果
type JobResp struct {
	Action JobRespStatus // 处理动作
	Data   []byte        // 响应数据（用于日志）
}
