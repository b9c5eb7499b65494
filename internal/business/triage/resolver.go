package triage

import (
	"context"
	"fmt"
	"time"

	"o2a/inctriage/pkg/errorutil"
	"o2a/inctriage/pkg/logger"
	"o2a/inctriage/pkg/metrics"
)

// OrderStore OMS 只读查询接口
// found=false 表示没有记录；err 表示查询本身失败
type OrderStore interface {
	StatusOf(ctx context.Context, orderID string) (status string, found bool, err error)
	StuckCaseOf(ctx context.Context, orderID string) (caseLabel, owner string, found bool, err error)
	MaxActionDateOf(ctx context.Context, orderID string) (at time.Time, found bool, err error)
}

// Resolver 订单状态解析器
// 所有查询错误都降级为哨兵值，不向调用方返回 error
type Resolver struct {
	store   OrderStore
	timeout time.Duration
	logger  logger.Logger
}

// NewResolver 创建解析器，timeout<=0 表示不单独限时
func NewResolver(store OrderStore, timeout time.Duration, log logger.Logger) *Resolver {
	return &Resolver{
		store:   store,
		timeout: timeout,
		logger:  log,
	}
}

func (r *Resolver) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// ResolveStatus 查询 TBORDER.STATUS
func (r *Resolver) ResolveStatus(ctx context.Context, id OrderID) Status {
	orderID, ok := id.Get()
	if !ok {
		return InvalidOrder
	}

	callCtx, cancel := r.callCtx(ctx)
	defer cancel()

	code, found, err := r.store.StatusOf(callCtx, orderID)
	if err != nil {
		r.lookupFailed(ctx, "status", orderID, err)
		return LookupFailed
	}
	if !found {
		return InvalidOrder
	}
	return Known(code)
}

// ResolveStuckCase 查询最近一次 stuck 记录
func (r *Resolver) ResolveStuckCase(ctx context.Context, id OrderID) StuckCase {
	orderID, ok := id.Get()
	if !ok {
		return NoStuckCase
	}

	callCtx, cancel := r.callCtx(ctx)
	defer cancel()

	caseLabel, owner, found, err := r.store.StuckCaseOf(callCtx, orderID)
	if err != nil {
		r.lookupFailed(ctx, "stuck_case", orderID, err)
		return NoStuckCase
	}
	if !found {
		return NoStuckCase
	}
	return StuckCase{Case: caseLabel, Owner: owner, Present: true}
}

// ResolveMaxActionDate 查询最近一次有效 action 时间
// 不存在时 SLA 判定为未超时
func (r *Resolver) ResolveMaxActionDate(ctx context.Context, id OrderID) (time.Time, bool) {
	orderID, ok := id.Get()
	if !ok {
		return time.Time{}, false
	}

	callCtx, cancel := r.callCtx(ctx)
	defer cancel()

	at, found, err := r.store.MaxActionDateOf(callCtx, orderID)
	if err != nil {
		r.lookupFailed(ctx, "max_action_date", orderID, err)
		return time.Time{}, false
	}
	if !found || at.IsZero() {
		return time.Time{}, false
	}
	return wallClock(at), true
}

// lookupFailed 记录降级，返回的错误只用于日志
func (r *Resolver) lookupFailed(ctx context.Context, lookup, orderID string, err error) *errorutil.Error {
	metrics.LookupFailures.WithLabelValues(lookup).Inc()
	lerr := errorutil.LookupFailure(err, fmt.Sprintf("%s lookup failed for order %s: %v", lookup, orderID, err))
	r.logger.Warnf(ctx, "[Resolver] %s, kind=%s, retryable=%v", lerr.Message, lerr.Kind, lerr.Retryable)
	return lerr
}
