package response

import (
	"time"

	"o2a/inctriage/common/model"
	"o2a/inctriage/internal/business"
	"o2a/inctriage/internal/domains/common/job"
	"o2a/inctriage/pkg/errorutil"
)

// TriageResult 分诊结果（实现 ResultI），内容即回调消息
type TriageResult struct {
	model.IncidentTriageCallback
}

// NewTriageResult 创建分诊结果
func NewTriageResult() *TriageResult {
	return &TriageResult{}
}

// Fill 写入批次统计，report 可能只包含部分内容
func (r *TriageResult) Fill(report *business.BatchReport) {
	if report == nil {
		return
	}
	r.OutputPath = report.OutputPath
	r.Exported = report.Exported
	if res := report.Result; res != nil {
		r.Tracking = res.Mode.Label()
		r.RowsIn = res.RowsIn
		r.RowsOut = len(res.Records)
		r.RowErrors = res.RowErrors
		r.Dispositions = res.Tally()
	}
}

// Set 实现 ResultI 接口
func (r *TriageResult) Set(meta *job.Meta, err error) {
	r.RequestID = meta.RequestID
	r.BatchID = meta.ID
	r.ProcessedAt = time.Now().Unix()
	if err != nil {
		r.Status = model.CallbackStatusFailed
		r.Error = err.Error()
		r.ErrorKind = string(errorutil.KindOf(err))
	} else {
		r.Status = model.CallbackStatusSuccess
	}
}

// GetStatus 实现 ResultI 接口
func (r *TriageResult) GetStatus() string {
	return r.Status
}
