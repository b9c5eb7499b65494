package triage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"o2a/inctriage/pkg/logger"
	"o2a/inctriage/pkg/metrics"
)

// PipelineConfig 流水线参数
type PipelineConfig struct {
	TargetGroup string        // 只保留该 Assigned Group
	SLAWindow   time.Duration // 默认 8h
	Concurrency int           // 并发补全的行数上限
}

// Pipeline 行补全流水线
type Pipeline struct {
	cfg        PipelineConfig
	resolver   *Resolver
	normalizer *Normalizer
	logger     logger.Logger
}

// stage 单个补全阶段：输入上一阶段的记录，返回新记录
type stage func(ctx context.Context, rec EnrichedRecord) EnrichedRecord

// NewPipeline 创建流水线
func NewPipeline(cfg PipelineConfig, resolver *Resolver, normalizer *Normalizer, log logger.Logger) *Pipeline {
	if cfg.SLAWindow <= 0 {
		cfg.SLAWindow = DefaultSLAWindow
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Pipeline{
		cfg:        cfg,
		resolver:   resolver,
		normalizer: normalizer,
		logger:     log,
	}
}

// Filter 只保留目标组的行，其余直接丢弃
func Filter(rows []IncidentRow, group string) []IncidentRow {
	kept := make([]IncidentRow, 0, len(rows))
	for _, row := range rows {
		if row.AssignedGroup == group {
			kept = append(kept, row)
		}
	}
	return kept
}

// Run 处理一批记录
// 行之间并发执行，输出顺序与过滤后的输入顺序一致
func (p *Pipeline) Run(ctx context.Context, rows []IncidentRow, mode LocationMode) (*BatchResult, error) {
	startTime := time.Now()
	filtered := Filter(rows, p.cfg.TargetGroup)

	p.logger.Infof(ctx, "[Pipeline] %d of %d rows assigned to %s, mode=%s",
		len(filtered), len(rows), p.cfg.TargetGroup, mode)

	records := make([]EnrichedRecord, len(filtered))
	done := atomic.NewInt64(0)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	for i, row := range filtered {
		i, row := i, row
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			rowCtx := logger.WithValue(gCtx, logger.KeyIncidentID, row.IncidentID)
			records[i] = p.Enrich(rowCtx, row, mode)
			done.Inc()
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, fmt.Errorf("batch aborted after %d of %d rows were enriched, nothing was exported: %w",
			done.Load(), len(filtered), err)
	}

	result := &BatchResult{
		Mode:     mode,
		RowsIn:   len(rows),
		Records:  records,
		Duration: time.Since(startTime),
	}
	for _, rec := range records {
		if rec.RowError != "" {
			result.RowErrors++
		}
		metrics.RowsProcessed.WithLabelValues(mode.String(), dispositionKey(rec.Comment)).Inc()
	}
	metrics.BatchDuration.WithLabelValues(mode.String()).Observe(result.Duration.Seconds())

	p.logger.Infof(ctx, "[Pipeline] Batch complete: %d records, %d row errors, duration=%v",
		len(records), result.RowErrors, result.Duration)

	return result, nil
}

// Enrich 按固定顺序补全单行
func (p *Pipeline) Enrich(ctx context.Context, row IncidentRow, mode LocationMode) EnrichedRecord {
	rec := EnrichedRecord{
		IncidentID:    row.IncidentID,
		Summary:       summaryText(row.Summary),
		AssignedGroup: row.AssignedGroup,
		ReportedDate:  row.ReportedDate,
	}

	stages := []stage{
		p.extractStage(row.Summary),
		p.statusStage,
		p.stuckCaseStage,
		p.maxActionStage,
		p.siteTimeStage(mode),
		p.slaStage,
		p.commentStage,
		p.trackingStage(mode),
	}
	for _, s := range stages {
		rec = s(ctx, rec)
	}

	p.logger.Debugf(ctx, "[Pipeline] order=%s status=%s limit_8hr=%s comment=%q",
		rec.OrderID, rec.Status, rec.SLA.Flag(), rec.Comment)

	return rec
}

func (p *Pipeline) extractStage(summary interface{}) stage {
	return func(ctx context.Context, rec EnrichedRecord) EnrichedRecord {
		rec.OrderID = ExtractOrderID(summary)
		return rec
	}
}

func (p *Pipeline) statusStage(ctx context.Context, rec EnrichedRecord) EnrichedRecord {
	rec.Status = p.resolver.ResolveStatus(ctx, rec.OrderID)
	return rec
}

func (p *Pipeline) stuckCaseStage(ctx context.Context, rec EnrichedRecord) EnrichedRecord {
	rec.StuckCase = p.resolver.ResolveStuckCase(ctx, rec.OrderID)
	return rec
}

func (p *Pipeline) maxActionStage(ctx context.Context, rec EnrichedRecord) EnrichedRecord {
	rec.MaxActionDate, rec.HasMaxAction = p.resolver.ResolveMaxActionDate(ctx, rec.OrderID)
	return rec
}

// siteTimeStage OFFSHORE 做时区换算；ONSHORE 与秘鲁同钟，只解析不换算
func (p *Pipeline) siteTimeStage(mode LocationMode) stage {
	return func(ctx context.Context, rec EnrichedRecord) EnrichedRecord {
		var (
			site time.Time
			err  error
		)
		if mode == Offshore {
			site, err = p.normalizer.Normalize(rec.ReportedDate)
		} else {
			site, err = Parse(rec.ReportedDate)
		}
		if err != nil {
			p.logger.Warnf(ctx, "[Pipeline] Reported date rejected: %v", err)
			rec.RowError = err.Error()
			return rec
		}
		rec.SiteTime, rec.HasSiteTime = site, true
		return rec
	}
}

// slaStage 没有 max action 时一律未超时，与上报时间能否解析无关
func (p *Pipeline) slaStage(ctx context.Context, rec EnrichedRecord) EnrichedRecord {
	switch {
	case !rec.HasMaxAction:
		rec.SLA = SLANotBreached
	case !rec.HasSiteTime:
		rec.SLA = SLAUnknown
	case Breached(rec.SiteTime, rec.MaxActionDate, rec.HasMaxAction, p.cfg.SLAWindow):
		rec.SLA = SLABreached
	default:
		rec.SLA = SLANotBreached
	}
	return rec
}

func (p *Pipeline) commentStage(ctx context.Context, rec EnrichedRecord) EnrichedRecord {
	rec.Comment = Disposition(rec)
	return rec
}

func (p *Pipeline) trackingStage(mode LocationMode) stage {
	return func(ctx context.Context, rec EnrichedRecord) EnrichedRecord {
		rec.Tracking = mode.Label()
		return rec
	}
}
