package business

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"o2a/inctriage/common/entity"
	"o2a/inctriage/common/model"
	"o2a/inctriage/internal/business/triage"
	"o2a/inctriage/pkg/errorutil"
	"o2a/inctriage/pkg/infra/excel"
	"o2a/inctriage/pkg/infra/redis"
	"o2a/inctriage/pkg/logger"
)

// DefaultOutputName 与上传页面一致的输出文件名
const DefaultOutputName = "processed_data.xlsx"

// Sink 导出目标（AUTO_INC_TRIAGE）
type Sink interface {
	EnsureTables(ctx context.Context) error
	ExistingIncidentIDs(ctx context.Context, ids []string) ([]string, error)
	Export(ctx context.Context, rows []entity.IncidentTriage, batch *entity.TriageBatch) error
}

// Notifier 批次完成通知
type Notifier interface {
	PublishBatchComplete(ctx context.Context, channel string, notification *redis.BatchNotification) error
}

// BatchRequest 一次分诊请求
type BatchRequest struct {
	BatchID    string
	RequestID  string
	SourceName string    // 上传文件名，只用于记录
	Source     io.Reader // xlsx 内容
	Mode       triage.LocationMode
	Export     bool
	OutputName string // 为空时使用 DefaultOutputName
}

// BatchReport 一次分诊的结果
type BatchReport struct {
	BatchID    string
	Result     *triage.BatchResult
	OutputPath string
	Exported   bool
}

// TriageService 分诊服务：读取 → 补全 → 输出 → 导出 → 通知
type TriageService struct {
	pipeline  *triage.Pipeline
	sink      Sink
	notifier  Notifier
	channel   string
	outputDir string
	logger    logger.Logger
}

// TriageServiceOption 可选依赖
type TriageServiceOption func(*TriageService)

// WithSink 设置导出目标
func WithSink(sink Sink) TriageServiceOption {
	return func(s *TriageService) { s.sink = sink }
}

// WithNotifier 设置通知通道
func WithNotifier(n Notifier, channel string) TriageServiceOption {
	return func(s *TriageService) {
		s.notifier = n
		s.channel = channel
	}
}

// NewTriageService 创建分诊服务实例
func NewTriageService(pipeline *triage.Pipeline, outputDir string, log logger.Logger, opts ...TriageServiceOption) *TriageService {
	s := &TriageService{
		pipeline:  pipeline,
		outputDir: outputDir,
		logger:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExecuteBatch 执行一批分诊
// 出错时 report 仍会返回已完成的部分（例如输出文件路径），方便告知操作者
func (s *TriageService) ExecuteBatch(ctx context.Context, req *BatchRequest) (*BatchReport, error) {
	ctx = logger.WithValue(ctx, logger.KeyBatchID, req.BatchID)
	report := &BatchReport{BatchID: req.BatchID}

	// 1. 读取上传文件
	table, err := excel.ReadTable(req.Source)
	if err != nil {
		return report, errorutil.MalformedBatch(fmt.Sprintf("cannot read uploaded file %s: %v", req.SourceName, err))
	}
	rows, err := RowsFromTable(table)
	if err != nil {
		return report, err
	}

	s.logger.Infof(ctx, "[TriageService] Loaded %d rows from %s, mode=%s, export=%v",
		len(rows), req.SourceName, req.Mode, req.Export)

	// 2. 补全
	result, err := s.pipeline.Run(ctx, rows, req.Mode)
	if err != nil {
		return report, err
	}
	report.Result = result

	// 3. 写出 processed_data.xlsx
	outputPath, err := s.writeOutput(req, result)
	if err != nil {
		return report, err
	}
	report.OutputPath = outputPath

	// 4. 导出（可选）
	if req.Export {
		if err := s.export(ctx, req, result); err != nil {
			s.notify(ctx, req, report, model.CallbackStatusFailed)
			return report, err
		}
		report.Exported = true
	}

	// 5. 通知
	s.notify(ctx, req, report, model.CallbackStatusSuccess)

	return report, nil
}

// writeOutput 写出结果表格
func (s *TriageService) writeOutput(req *BatchRequest, result *triage.BatchResult) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", s.outputDir, err)
	}

	name := req.OutputName
	if name == "" {
		name = DefaultOutputName
	}
	path := filepath.Join(s.outputDir, name)

	if err := excel.WriteTable(path, "triage", OutputColumns, outputCells(result.Records)); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// export 写入 AUTO_INC_TRIAGE 和 TRIAGE_BATCH
func (s *TriageService) export(ctx context.Context, req *BatchRequest, result *triage.BatchResult) error {
	n := len(result.Records)
	if s.sink == nil {
		return errorutil.ConfigFailure(nil, "export requested but no sink database is configured")
	}

	if err := s.sink.EnsureTables(ctx); err != nil {
		return errorutil.ExportFailure(err, fmt.Sprintf("export aborted before writing any of the %d rows: %v", n, err), true)
	}

	ids := result.IncidentIDs()
	existing, err := s.sink.ExistingIncidentIDs(ctx, ids)
	if err != nil {
		return errorutil.ExportFailure(err, fmt.Sprintf("export aborted before writing any of the %d rows: %v", n, err), true)
	}
	if len(existing) > 0 {
		sort.Strings(existing)
		return errorutil.ExportFailure(nil, fmt.Sprintf(
			"export refused: %d of %d incidents were already exported (%s); nothing was written",
			len(existing), n, strings.Join(existing, ", ")), false)
	}

	entities := make([]entity.IncidentTriage, 0, n)
	for _, rec := range result.Records {
		entities = append(entities, toEntity(rec))
	}

	batch, err := s.batchRow(req, result)
	if err != nil {
		return errorutil.ExportFailure(err, fmt.Sprintf("export aborted before writing any of the %d rows: %v", n, err), false)
	}

	if err := s.sink.Export(ctx, entities, batch); err != nil {
		return errorutil.ExportFailure(err, fmt.Sprintf(
			"export failed and was rolled back, none of the %d enriched rows were persisted: %v", n, err), true)
	}

	s.logger.Infof(ctx, "[TriageService] Exported %d rows to AUTO_INC_TRIAGE", n)
	return nil
}

func (s *TriageService) batchRow(req *BatchRequest, result *triage.BatchResult) (*entity.TriageBatch, error) {
	dispositions, err := json.Marshal(result.Tally())
	if err != nil {
		return nil, err
	}
	incidentIDs, err := json.Marshal(result.IncidentIDs())
	if err != nil {
		return nil, err
	}
	return &entity.TriageBatch{
		BatchID:      req.BatchID,
		RequestID:    req.RequestID,
		Tracking:     req.Mode.Label(),
		SourceFile:   req.SourceName,
		RowsIn:       result.RowsIn,
		RowsOut:      len(result.Records),
		Dispositions: dispositions,
		IncidentIDs:  incidentIDs,
		CreatedAt:    time.Now(),
	}, nil
}

// notify 通知失败只记录日志
func (s *TriageService) notify(ctx context.Context, req *BatchRequest, report *BatchReport, status string) {
	if s.notifier == nil {
		return
	}

	rowsOut := 0
	if report.Result != nil {
		rowsOut = len(report.Result.Records)
	}
	n := &redis.BatchNotification{
		BatchID:   req.BatchID,
		RequestID: req.RequestID,
		Tracking:  req.Mode.Label(),
		Status:    status,
		RowsOut:   rowsOut,
		Exported:  report.Exported,
		Timestamp: time.Now().Unix(),
	}
	if err := s.notifier.PublishBatchComplete(ctx, s.channel, n); err != nil {
		s.logger.Warnf(ctx, "[TriageService] Publish batch notification failed: %v", err)
	}
}
