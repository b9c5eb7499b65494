package model

// IncidentTriageCallback 分诊回调消息（标准化）
// 用于 worker → 上游 callback consumer 的消息传递
type IncidentTriageCallback struct {
	RequestID    string         `json:"request_id"`             // 对应请求的 request_id（链路追踪）
	BatchID      string         `json:"batch_id"`               // 批次 ID
	Status       string         `json:"status"`                 // 回调状态: SUCCESS / FAILED
	Tracking     string         `json:"tracking,omitempty"`     // OFF-SHORE (INDIA) / ON-SHORE (BRAZIL)
	RowsIn       int            `json:"rows_in"`                // 上传行数
	RowsOut      int            `json:"rows_out"`               // 过滤后输出行数
	RowErrors    int            `json:"row_errors"`             // 单行日期解析失败数
	Exported     bool           `json:"exported"`               // 是否已写入 AUTO_INC_TRIAGE
	OutputPath   string         `json:"output_path,omitempty"`  // processed_data.xlsx
	Dispositions map[string]int `json:"dispositions,omitempty"` // COMMENTS 分类计数
	Error        string         `json:"error,omitempty"`        // 错误信息（失败时返回）
	ErrorKind    string         `json:"error_kind,omitempty"`   // 错误分类
	ProcessedAt  int64          `json:"processed_at"`           // 处理时间戳（Unix timestamp）
}

// 回调状态常量
const (
	CallbackStatusSuccess = "SUCCESS" // 分诊成功
	CallbackStatusFailed  = "FAILED"  // 分诊失败
)
