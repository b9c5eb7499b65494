package model

// ActionIncidentTriage 分诊任务的 action_type
const ActionIncidentTriage = "incident_triage"

// IncidentTriageJob 分诊任务消息（标准化）
// 用于上游投递 → worker 的消息传递
type IncidentTriageJob struct {
	Payload IncidentTriagePayload `json:"payload"`
}

// IncidentTriagePayload Job 负载
type IncidentTriagePayload struct {
	Data IncidentTriageData `json:"data"`
}

// IncidentTriageData Job 数据层
type IncidentTriageData struct {
	// 元信息
	RequestID  string `json:"request_id"`  // 请求 ID（全链路追踪）
	OrgID      string `json:"org_id"`      // 组织 ID
	ActionType string `json:"action_type"` // 固定值 "incident_triage"
	ID         string `json:"id"`          // 批次 ID，为空时由 worker 生成

	// 业务数据
	Data IncidentTriageBusinessData `json:"data"`
}

// IncidentTriageBusinessData 分诊业务数据
type IncidentTriageBusinessData struct {
	FilePath string `json:"file_path"` // 上传的 xlsx 路径（worker 可读）
	Location string `json:"location"`  // OFFSHORE / ONSHORE
	Export   bool   `json:"export"`    // 是否写入 AUTO_INC_TRIAGE
}
