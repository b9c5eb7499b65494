package triage

// 业务状态码（OMS TBORDER.STATUS）
const (
	StatusCodeCompleted = "DO"
	StatusCodeCancelled = "CA"
)

// 兼容原有导出的哨兵文本
const (
	invalidOrderText = "IVO"
	lookupFailedText = "NA"
)

type statusKind int

const (
	statusKnown statusKind = iota
	statusInvalidOrder
	statusLookupFailed
)

// Status 订单状态：Known(code) | InvalidOrder | LookupFailed
type Status struct {
	kind statusKind
	code string
}

// Known OMS 中查到的业务状态
func Known(code string) Status {
	return Status{kind: statusKnown, code: code}
}

var (
	// InvalidOrder 订单号不存在或 OMS 无记录
	InvalidOrder = Status{kind: statusInvalidOrder}
	// LookupFailed 查询出错或超时
	LookupFailed = Status{kind: statusLookupFailed}
)

// Code 业务状态码，哨兵返回 false
func (s Status) Code() (string, bool) {
	return s.code, s.kind == statusKnown
}

// IsInvalidOrder 是否 InvalidOrder
func (s Status) IsInvalidOrder() bool { return s.kind == statusInvalidOrder }

// IsLookupFailed 是否 LookupFailed
func (s Status) IsLookupFailed() bool { return s.kind == statusLookupFailed }

// IsCompleted OMS 已完成
func (s Status) IsCompleted() bool { return s.kind == statusKnown && s.code == StatusCodeCompleted }

// IsCancelled OMS 已取消
func (s Status) IsCancelled() bool { return s.kind == statusKnown && s.code == StatusCodeCancelled }

// String ORDER_STATUS 列：code / IVO / NA
func (s Status) String() string {
	switch s.kind {
	case statusInvalidOrder:
		return invalidOrderText
	case statusLookupFailed:
		return lookupFailedText
	}
	return s.code
}
