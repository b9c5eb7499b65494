package triage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"o2a/inctriage/common/model"
	"o2a/inctriage/internal/business"
	bt "o2a/inctriage/internal/business/triage"
	"o2a/inctriage/internal/domains/common"
	"o2a/inctriage/internal/domains/common/job"
	"o2a/inctriage/internal/domains/common/response"
	"o2a/inctriage/internal/framework"
	"o2a/inctriage/pkg/errorutil"
)

// TriageHandler incident_triage Handler
type TriageHandler struct {
	meta *job.Meta
	data model.IncidentTriageBusinessData
	mode bt.LocationMode
	deps *common.Deps
}

// NewTriageHandler 解析业务数据
func NewTriageHandler(ctx context.Context, meta *job.Meta, payload json.RawMessage, deps *common.Deps) (common.HandlerServ, error) {
	if len(payload) == 0 {
		return nil, errorutil.NonRetriable("job payload data is empty")
	}

	var bizData model.IncidentTriageBusinessData
	if err := json.Unmarshal(payload, &bizData); err != nil {
		return nil, errorutil.NonRetriable(fmt.Sprintf("unmarshal business data failed: %v", err))
	}

	return &TriageHandler{
		meta: meta,
		data: bizData,
		deps: deps,
	}, nil
}

// GetProcess 执行分诊并投递回调
// 可重试的失败不发回调，由重新投递的任务给出最终结果
func (h *TriageHandler) GetProcess(ctx context.Context) *response.Response {
	result := response.NewTriageResult()

	report, err := h.process(ctx)
	result.Fill(report)

	resp := &response.Response{}
	resp.WrapResponse(result, h.meta, err)

	if !resp.Retryable() {
		h.sendCallback(ctx, result)
	}
	return resp
}

// process 业务处理逻辑
func (h *TriageHandler) process(ctx context.Context) (*business.BatchReport, error) {
	pre := framework.NewPreProcessor(
		framework.Step{Name: "file_path", Fn: h.checkFile},
		framework.Step{Name: "location", Fn: h.parseLocation},
	)
	if err := pre.Run(ctx); err != nil {
		return nil, err
	}

	f, err := os.Open(h.data.FilePath)
	if err != nil {
		return nil, errorutil.Retriable(fmt.Sprintf("open uploaded file failed: %v", err))
	}
	defer f.Close()

	h.deps.Logger.Infof(ctx, "[TriageHandler] Start batch: file=%s, location=%s, export=%v",
		h.data.FilePath, h.mode, h.data.Export)

	report, err := h.deps.Executor.ExecuteBatch(ctx, &business.BatchRequest{
		BatchID:    h.meta.ID,
		RequestID:  h.meta.RequestID,
		SourceName: filepath.Base(h.data.FilePath),
		Source:     f,
		Mode:       h.mode,
		Export:     h.data.Export,
		OutputName: fmt.Sprintf("processed_data_%s.xlsx", h.meta.ID),
	})
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return report, errorutil.Retriable(err.Error())
	}
	return report, err
}

func (h *TriageHandler) checkFile(ctx context.Context) error {
	if h.data.FilePath == "" {
		return errorutil.MalformedBatch("file_path is required")
	}
	info, err := os.Stat(h.data.FilePath)
	if err != nil {
		return errorutil.MalformedBatch(fmt.Sprintf("uploaded file %s is not readable: %v", h.data.FilePath, err))
	}
	if info.IsDir() {
		return errorutil.MalformedBatch(fmt.Sprintf("uploaded file %s is a directory", h.data.FilePath))
	}
	return nil
}

func (h *TriageHandler) parseLocation(ctx context.Context) error {
	mode, err := bt.ParseLocationMode(h.data.Location)
	if err != nil {
		return errorutil.NonRetriable(err.Error())
	}
	h.mode = mode
	return nil
}

// sendCallback 投递回调，失败只记录日志
func (h *TriageHandler) sendCallback(ctx context.Context, result *response.TriageResult) {
	data, err := json.Marshal(&result.IncidentTriageCallback)
	if err != nil {
		h.deps.Logger.Errorf(ctx, "[TriageHandler] Marshal callback failed: %v", err)
		return
	}

	jobID, err := h.deps.Callback.Publish(h.deps.CallbackQueue, data)
	if err != nil {
		h.deps.Logger.Errorf(ctx, "[TriageHandler] Publish callback to %s failed: %v", h.deps.CallbackQueue, err)
		return
	}

	h.deps.Logger.Infof(ctx, "[TriageHandler] Callback sent: queue=%s, job_id=%s, status=%s",
		h.deps.CallbackQueue, jobID, result.Status)
}
