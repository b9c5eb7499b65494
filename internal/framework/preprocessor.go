package framework

import (
	"context"
	"fmt"
)

// Step 校验链中的一步
type Step struct {
	Name string
	Fn   ProcessorFunc
}

// PreProcessor 函数链处理器（任务开始前的校验）
type PreProcessor struct {
	steps []Step
}

// NewPreProcessor 创建函数链处理器
func NewPreProcessor(steps ...Step) *PreProcessor {
	return &PreProcessor{
		steps: steps,
	}
}

// Run 按顺序执行，任一步返回 error 则立即停止
// 返回的 error 保留原始错误链，调用方可用 errors.As 取出 *errorutil.Error
func (p *PreProcessor) Run(ctx context.Context) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.Fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.Name, err)
		}
	}
	return nil
}
