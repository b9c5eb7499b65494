package domains

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bitleak/lmstfy/client"
	"github.com/google/uuid"

	"o2a/inctriage/internal/domains/common"
	"o2a/inctriage/internal/domains/common/job"
	"o2a/inctriage/internal/domains/common/response"
	"o2a/inctriage/pkg/lmstfyx"
	"o2a/inctriage/pkg/logger"
	"o2a/inctriage/pkg/metrics"
)

// GetProcess 返回核心处理函数（注入到 Processor）
func GetProcess(log logger.Logger, deps *common.Deps) lmstfyx.Proc {
	return func(ctx context.Context, lmstfyJob *client.Job) *lmstfyx.JobResp {
		startTime := time.Now()

		// 1. 解析 Job
		standardJob, meta, err := parseJob(ctx, lmstfyJob, log)
		if err != nil {
			log.Errorf(ctx, "[GetProcess] parseJob failed: %v", err)
			return report("", &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury})
		}

		// 2. 注入 TraceID
		ctx = logger.WithValue(ctx, logger.KeyTraceID, meta.RequestID)
		ctx = logger.WithValue(ctx, logger.KeyActionType, meta.ActionType)
		ctx = logger.WithValue(ctx, logger.KeyBatchID, meta.ID)

		log.Infof(ctx, "[GetProcess] Processing job: action_type=%s, request_id=%s, id=%s",
			meta.ActionType, meta.RequestID, meta.ID)

		// 3. 从 HandlerMap 获取 Handler
		handlerFunc, ok := HandlerMap[meta.ActionType]
		if !ok {
			log.Errorf(ctx, "[GetProcess] handler not found for action_type: %s", meta.ActionType)
			return report(meta.ActionType, &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury})
		}

		// 4. 调用 Handler（捕获 panic）
		var resp *lmstfyx.JobResp
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf(ctx, "[GetProcess] handler panic: %v", r)
					resp = &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
				}
			}()

			handler, err := handlerFunc(ctx, meta, standardJob.Payload.Data.Data, deps)
			if err != nil {
				log.Errorf(ctx, "[GetProcess] handler creation failed: %v", err)
				resp = &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
				return
			}

			resp = doJobReport(ctx, handler.GetProcess(ctx), log)
		}()

		log.Infof(ctx, "[GetProcess] Processing complete: action=%s, duration=%v", resp.Action, time.Since(startTime))

		return report(meta.ActionType, resp)
	}
}

func report(actionType string, resp *lmstfyx.JobResp) *lmstfyx.JobResp {
	if actionType == "" {
		actionType = "unknown"
	}
	metrics.JobsHandled.WithLabelValues(actionType, resp.Action.String()).Inc()
	return resp
}

// parseJob 解析 Job
func parseJob(ctx context.Context, lmstfyJob *client.Job, log logger.Logger) (*job.Job, *job.Meta, error) {
	var standardJob job.Job
	if err := json.Unmarshal(lmstfyJob.Data, &standardJob); err != nil {
		return nil, nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	if standardJob.Payload == nil || standardJob.Payload.Data == nil {
		return nil, nil, fmt.Errorf("invalid job structure: payload.data is nil")
	}

	data := standardJob.Payload.Data
	meta := &job.Meta{
		RequestID:  data.RequestID,
		OrgID:      data.OrgID,
		ActionType: data.ActionType,
		ID:         data.ID,
	}

	if meta.RequestID == "" {
		meta.RequestID = uuid.New().String()
	}
	// 批次 ID 同时用于输出文件名和 TRIAGE_BATCH 主键
	if meta.ID == "" {
		meta.ID = uuid.New().String()
	}

	log.Debugf(ctx, "[parseJob] Parsed: action_type=%s, request_id=%s, id=%s",
		meta.ActionType, meta.RequestID, meta.ID)

	return &standardJob, meta, nil
}

// doJobReport 根据 Response 决定 ACK / Release / Bury
func doJobReport(ctx context.Context, resp *response.Response, log logger.Logger) *lmstfyx.JobResp {
	data, err := json.Marshal(resp)
	if err != nil {
		log.Errorf(ctx, "[doJobReport] marshal response failed: %v", err)
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
	}

	switch {
	case resp.Error == nil:
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusSuccess, Data: data}
	case resp.Error.Retryable:
		log.Warnf(ctx, "[doJobReport] retryable failure: %s", resp.Error.Message)
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusRelease, Data: data}
	default:
		log.Errorf(ctx, "[doJobReport] job failed: %s", resp.Error.Message)
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury, Data: data}
	}
}
