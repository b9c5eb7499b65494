package common

import (
	"context"
	"encoding/json"

	"o2a/inctriage/internal/business"
	"o2a/inctriage/internal/domains/common/job"
	"o2a/inctriage/internal/domains/common/response"
	"o2a/inctriage/pkg/logger"
)

// BatchExecutor 分诊执行（business.TriageService）
type BatchExecutor interface {
	ExecuteBatch(ctx context.Context, req *business.BatchRequest) (*business.BatchReport, error)
}

// CallbackPublisher 回调队列投递（lmstfy.Client）
type CallbackPublisher interface {
	Publish(queue string, data []byte) (string, error)
}

// Deps Handler 依赖
type Deps struct {
	Executor      BatchExecutor
	Callback      CallbackPublisher
	CallbackQueue string
	Logger        logger.Logger
}

// HandlerServProc Handler 构造函数类型
type HandlerServProc func(ctx context.Context, meta *job.Meta, payload json.RawMessage, deps *Deps) (HandlerServ, error)

// HandlerServ Handler 接口
type HandlerServ interface {
	GetProcess(ctx context.Context) *response.Response
}
