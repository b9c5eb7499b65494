package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/atomic"

	"o2a/inctriage/internal/domains"
	"o2a/inctriage/internal/domains/common"
	"o2a/inctriage/internal/framework"
	"o2a/inctriage/pkg/config"
	"o2a/inctriage/pkg/lmstfy"
	"o2a/inctriage/pkg/logger"
)

// Manager 接口
type Manager interface {
	Start() error
	Shutdown()
}

// ManagerInstance Manager 实例
type ManagerInstance struct {
	ctx          context.Context
	cfg          *config.Config
	lmstfyClient *lmstfy.Client
	executor     common.BatchExecutor
	workers      []Worker
	closing      *atomic.Bool
	started      chan struct{}
	shutdownCh   chan struct{}
	wg           sync.WaitGroup
	logger       logger.Logger
}

// NewManagerInstance 创建 Manager
func NewManagerInstance(cfg *config.Config, executor common.BatchExecutor, log logger.Logger) (Manager, error) {
	ctx := context.Background()

	lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create lmstfy client: %w", err)
	}

	log.Infof(ctx, "[Manager] Initialized with %d worker configs", len(cfg.Workers))

	return &ManagerInstance{
		ctx:          ctx,
		cfg:          cfg,
		lmstfyClient: lmstfyClient,
		executor:     executor,
		closing:      atomic.NewBool(false),
		started:      make(chan struct{}),
		shutdownCh:   make(chan struct{}),
		workers:      make([]Worker, 0, len(cfg.Workers)),
		logger:       log,
	}, nil
}

// Start 启动 Manager，阻塞直到 Shutdown 完成
func (m *ManagerInstance) Start() error {
	m.logger.Infof(m.ctx, "[Manager] Starting...")

	if err := m.loadWorkers(); err != nil {
		close(m.started)
		return fmt.Errorf("failed to load workers: %w", err)
	}

	for _, worker := range m.workers {
		w := worker
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			w.Start()
		}()
		m.logger.Infof(m.ctx, "[Manager] Worker started: %s", w.GetName())
	}
	close(m.started)

	m.logger.Infof(m.ctx, "[Manager] Start success, workers: %d", len(m.workers))

	<-m.shutdownCh
	return nil
}

// Shutdown 优雅退出，可重复调用
func (m *ManagerInstance) Shutdown() {
	if !m.closing.CAS(false, true) {
		return
	}
	m.logger.Infof(m.ctx, "[Manager] Began to close")

	// 等 Start 完成 worker 装载，避免与 loadWorkers 并发读写 workers
	<-m.started

	for _, worker := range m.workers {
		m.logger.Infof(m.ctx, "[Manager] Shutting down worker: %s", worker.GetName())
		worker.Shutdown()
	}
	m.wg.Wait()

	close(m.shutdownCh)
	m.logger.Infof(m.ctx, "[Manager] Shutdown complete")
}

// loadWorkers 每个队列配置一个 Worker，回调队列按 Worker 配置
func (m *ManagerInstance) loadWorkers() error {
	for _, workerCfg := range m.cfg.Workers {
		subCfg := &framework.SubscriberConfig{
			QueueName:    workerCfg.QueueName,
			Concurrency:  workerCfg.Subscriber.Threads,
			Rate:         workerCfg.Subscriber.Rate,
			Timeout:      workerCfg.Subscriber.Timeout,
			TTR:          workerCfg.Subscriber.TTR,
			ErrorBackoff: workerCfg.Subscriber.ErrorBackoff,
		}

		procCfg := &framework.ProcessorConfig{
			Concurrency: workerCfg.Processor.Threads,
			BufferSize:  workerCfg.Processor.BufferSize,
			Timeout:     workerCfg.Processor.Timeout,
		}

		deps := &common.Deps{
			Executor:      m.executor,
			Callback:      m.lmstfyClient,
			CallbackQueue: workerCfg.CallbackQueue,
			Logger:        m.logger,
		}

		worker, err := NewWorkerInstance(
			m.ctx,
			workerCfg.Name,
			subCfg,
			procCfg,
			m.lmstfyClient,
			domains.GetProcess(m.logger, deps),
			m.logger,
		)
		if err != nil {
			return fmt.Errorf("failed to create worker %s: %w", workerCfg.Name, err)
		}

		m.workers = append(m.workers, worker)
	}

	return nil
}
