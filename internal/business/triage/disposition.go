package triage

import "strings"

// COMMENTS 列文本
const (
	CommentInvalidOrder     = "Invalid Order Id"
	CommentSLANotMet        = "REJECT INC TO TEF AS 8-HR CRITERIA ISN'T FULFILLED"
	CommentDateUnrecognised = "Reported Date Not Recognised"

	commentCompletedPrefix = "Order is already completed in OMS: Last_Stuck at - "
	commentCancelledPrefix = "Order is already cancelled in OMS: Last_Stuck at - "
	commentRejectPrefix    = "Possible Reject to TEF: "
	commentCheckPrefix     = "O2A Check Required: "
)

// rejectOwners stuck owner 属于 TEF 一侧时建议直接退回
var rejectOwners = map[string]struct{}{
	"TELEFONICA IT":  {},
	"TELEFONICA CSR": {},
}

// Disposition 根据已补全字段生成 COMMENTS，先命中者生效
//
// 注意：8 小时规则优先于 DO/CA 状态判断，即 SLA 未满足时无论订单是否已完成/取消都会被退回。
// 这是现网规则表的既有顺序，保留不改。
func Disposition(rec EnrichedRecord) string {
	if rec.Status.IsInvalidOrder() {
		return CommentInvalidOrder
	}
	if rec.SLA == SLAUnknown {
		return CommentDateUnrecognised
	}
	if rec.SLA == SLANotBreached {
		return CommentSLANotMet
	}
	if rec.Status.IsCompleted() {
		return commentCompletedPrefix + rec.StuckCase.String()
	}
	if rec.Status.IsCancelled() {
		return commentCancelledPrefix + rec.StuckCase.String()
	}
	if _, ok := rejectOwners[rec.StuckCase.Owner]; ok && rec.StuckCase.Present {
		return commentRejectPrefix + rec.StuckCase.String()
	}
	return commentCheckPrefix + rec.StuckCase.String()
}

// dispositionKey 去掉 stuck case 部分，用于统计
func dispositionKey(comment string) string {
	for _, prefix := range []string{commentCompletedPrefix, commentCancelledPrefix, commentRejectPrefix, commentCheckPrefix} {
		if strings.HasPrefix(comment, prefix) {
			return strings.TrimRight(strings.TrimSuffix(prefix, " - "), ": ")
		}
	}
	return comment
}
