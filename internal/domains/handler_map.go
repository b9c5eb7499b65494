package domains

import (
	"o2a/inctriage/common/model"
	"o2a/inctriage/internal/domains/common"
	"o2a/inctriage/internal/domains/handlers/triage"
)

// HandlerMap 路由表（ActionType → Handler 映射）
var HandlerMap = map[string]common.HandlerServProc{
	model.ActionIncidentTriage: triage.NewTriageHandler,
}
