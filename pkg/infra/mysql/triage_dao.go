package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"o2a/inctriage/common/entity"
)

// 单条 IN 查询最多带多少个 id
const existsChunk = 500

// TriageDAO AUTO_INC_TRIAGE 导出访问对象
type TriageDAO struct {
	db        *gorm.DB
	batchSize int
}

// NewTriageDAO 创建 TriageDAO 实例
func NewTriageDAO(db *gorm.DB, batchSize int) *TriageDAO {
	if batchSize <= 0 {
		batchSize = 200
	}
	return &TriageDAO{
		db:        db,
		batchSize: batchSize,
	}
}

// EnsureTables 表不存在时创建
func (dao *TriageDAO) EnsureTables(ctx context.Context) error {
	if err := dao.db.WithContext(ctx).AutoMigrate(&entity.IncidentTriage{}, &entity.TriageBatch{}); err != nil {
		return fmt.Errorf("failed to migrate triage tables: %w", err)
	}
	return nil
}

// ExistingIncidentIDs 返回已经导出过的 incident id
func (dao *TriageDAO) ExistingIncidentIDs(ctx context.Context, ids []string) ([]string, error) {
	existing := make([]string, 0)
	for start := 0; start < len(ids); start += existsChunk {
		end := start + existsChunk
		if end > len(ids) {
			end = len(ids)
		}

		var found []string
		err := dao.db.WithContext(ctx).
			Model(&entity.IncidentTriage{}).
			Where("INCIDENT_ID IN ?", ids[start:end]).
			Pluck("INCIDENT_ID", &found).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check existing incidents: %w", err)
		}
		existing = append(existing, found...)
	}
	return existing, nil
}

// Export 在一个事务里批量写入结果和批次记录，任一失败整体回滚
func (dao *TriageDAO) Export(ctx context.Context, rows []entity.IncidentTriage, batch *entity.TriageBatch) error {
	return dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, dao.batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert triage rows: %w", err)
			}
		}
		if batch != nil {
			if err := tx.Create(batch).Error; err != nil {
				return fmt.Errorf("failed to insert triage batch: %w", err)
			}
		}
		return nil
	})
}

// GetBatch 根据批次 ID 查询
func (dao *TriageDAO) GetBatch(ctx context.Context, batchID string) (*entity.TriageBatch, error) {
	var batch entity.TriageBatch
	if err := dao.db.WithContext(ctx).Where("batch_id = ?", batchID).First(&batch).Error; err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	return &batch, nil
}
