package worker

import (
	"context"
	"fmt"

	"o2a/inctriage/internal/framework"
	"o2a/inctriage/pkg/lmstfyx"
	"o2a/inctriage/pkg/logger"
)

// Worker 接口
type Worker interface {
	Start()
	Shutdown()
	GetName() string
}

// WorkerInstance 单个队列的 Worker：Subscriber → inputChan → Processor
type WorkerInstance struct {
	ctx        context.Context
	name       string
	subscriber *framework.Subscriber
	processor  *framework.Processor
	inputChan  chan *framework.Message
	shutdownCh chan struct{}
	logger     logger.Logger
}

// NewWorkerInstance 创建 Worker 实例
func NewWorkerInstance(
	ctx context.Context,
	name string,
	subscriberCfg *framework.SubscriberConfig,
	processorCfg *framework.ProcessorConfig,
	source framework.MessageSource,
	proc lmstfyx.Proc,
	log logger.Logger,
) (Worker, error) {
	if err := subscriberCfg.Normalize(); err != nil {
		return nil, err
	}
	if err := processorCfg.Validate(subscriberCfg.TTR); err != nil {
		return nil, fmt.Errorf("worker %s: %w", name, err)
	}

	inputChan := make(chan *framework.Message, processorCfg.BufferSize)

	return &WorkerInstance{
		ctx:        logger.WithValue(ctx, logger.KeyActionType, name),
		name:       name,
		subscriber: framework.NewSubscriber(subscriberCfg, source, log),
		processor:  framework.NewProcessor(processorCfg, proc, source, log),
		inputChan:  inputChan,
		shutdownCh: make(chan struct{}),
		logger:     log,
	}, nil
}

// Start 启动 Worker，阻塞直到 Shutdown 完成
func (w *WorkerInstance) Start() {
	w.logger.Infof(w.ctx, "[Worker] %s started", w.name)

	// 先启动 Processor，再开始拉取
	_ = w.processor.Start(w.ctx, w.inputChan)
	_ = w.subscriber.Start(w.ctx, w.inputChan)

	<-w.shutdownCh
}

// Shutdown 优雅退出
// 停止拉取 → 等待拉取协程退出 → Processor 处理完 channel 中的任务 → 返回
func (w *WorkerInstance) Shutdown() {
	w.logger.Infof(w.ctx, "[Worker] %s began to close", w.name)

	w.subscriber.Stop()
	w.subscriber.Wait()

	w.processor.SignalShutdown()
	w.processor.Wait()

	close(w.shutdownCh)
	w.logger.Infof(w.ctx, "[Worker] %s shutdown complete", w.name)
}

// GetName 获取 Worker 名称
func (w *WorkerInstance) GetName() string {
	return w.name
}
