package entity

import (
	"time"

	"gorm.io/datatypes"
)

// TriageBatch 每次导出的批次记录，与 AUTO_INC_TRIAGE 同事务写入
type TriageBatch struct {
	BatchID      string         `gorm:"column:batch_id;primaryKey;type:varchar(64)"`
	RequestID    string         `gorm:"column:request_id;type:varchar(64);index:idx_request_id"`
	Tracking     string         `gorm:"column:tracking;type:varchar(50);not null"`
	SourceFile   string         `gorm:"column:source_file;type:varchar(512)"`
	RowsIn       int            `gorm:"column:rows_in;not null"`
	RowsOut      int            `gorm:"column:rows_out;not null"`
	Dispositions datatypes.JSON `gorm:"column:dispositions;type:json"` // COMMENTS 分类计数
	IncidentIDs  datatypes.JSON `gorm:"column:incident_ids;type:json"` // 本批导出的 incident id
	CreatedAt    time.Time      `gorm:"column:created_at;not null;index:idx_created_at"`
}

// TableName 指定表名
func (TriageBatch) TableName() string {
	return "TRIAGE_BATCH"
}
