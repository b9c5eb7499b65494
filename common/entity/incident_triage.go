package entity

import "time"

// IncidentTriage 分诊结果导出表（AUTO_INC_TRIAGE）
// 所有可空列使用指针，nil 写入为 NULL
type IncidentTriage struct {
	IncidentID      string     `gorm:"column:INCIDENT_ID;primaryKey;type:varchar(255)"`
	Summary         *string    `gorm:"column:SUMMARY;type:varchar(1000)"`
	AssignedGroup   *string    `gorm:"column:ASSIGNED_GROUP;type:varchar(50)"`
	ReportedDate    *time.Time `gorm:"column:REPORTED_DATE"`
	OrderID         *string    `gorm:"column:ORDER_ID;type:varchar(50)"`
	OrderStatus     *string    `gorm:"column:ORDER_STATUS;type:varchar(10)"`
	RecentStuckCase *string    `gorm:"column:RECENT_STUCK_CASE;type:varchar(500)"`
	StuckOwner      *string    `gorm:"column:STUCK_OWNER;type:varchar(30)"`
	MaxOrderDate    *time.Time `gorm:"column:MAX_ORDER_DATE"`
	PeruSiteTime    *time.Time `gorm:"column:PERU_SITE_TIME"`
	Limit8HR        *string    `gorm:"column:LIMIT_8HR;type:varchar(10)"`
	Comments        *string    `gorm:"column:COMMENTS;type:varchar(500)"`
	Tracking        *string    `gorm:"column:TRACKING;type:varchar(50)"`
}

// TableName 指定表名
func (IncidentTriage) TableName() string {
	return "AUTO_INC_TRIAGE"
}
