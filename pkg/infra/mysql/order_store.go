package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OMS 查询（表结构与 OMS/SOMA 保持一致，SOMA 两张表在 OMS 库中以同名视图暴露）
const (
	queryStatus = `SELECT status FROM tborder WHERE order_unit_id = ? LIMIT 1`

	// 取最近一次 stuck 记录
	queryStuckCase = `
		SELECT tsc.group_case, tsc.stuck_owner
		FROM tbso_kpi_work kpi
		JOIN tbso_stuck_case tsc ON kpi.stuckcase_id = tsc.id
		WHERE kpi.order_id = ?
		ORDER BY kpi.stuck_date DESC
		LIMIT 1`

	// 有效 action：parent_relation = 'NA'；或存在取消关系时，取消关系下状态不为 CA 的 action
	queryMaxActionDate = `
		SELECT ctdb_cre_datetime
		FROM tborder_action
		WHERE order_id = ?
		AND (
			(parent_relation = 'CA' AND status <> 'CA'
				AND EXISTS (SELECT 1 FROM tborder_action
				            WHERE order_id = ? AND parent_relation = 'CA'))
			OR parent_relation = 'NA'
		)
		ORDER BY ctdb_cre_datetime DESC
		LIMIT 1`
)

// OrderStore OMS 只读访问对象
type OrderStore struct {
	db *gorm.DB
}

// NewOrderStore 创建 OrderStore 实例
func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

type statusRow struct {
	Status sql.NullString `gorm:"column:status"`
}

type stuckCaseRow struct {
	GroupCase  sql.NullString `gorm:"column:group_case"`
	StuckOwner sql.NullString `gorm:"column:stuck_owner"`
}

type actionDateRow struct {
	CtdbCreDatetime sql.NullTime `gorm:"column:ctdb_cre_datetime"`
}

// StatusOf 查询订单状态
func (s *OrderStore) StatusOf(ctx context.Context, orderID string) (string, bool, error) {
	var rows []statusRow
	if err := s.db.WithContext(ctx).Raw(queryStatus, orderID).Scan(&rows).Error; err != nil {
		return "", false, fmt.Errorf("query status of %s: %w", orderID, err)
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].Status.String, true, nil
}

// StuckCaseOf 查询最近一次 stuck case 与 owner
func (s *OrderStore) StuckCaseOf(ctx context.Context, orderID string) (string, string, bool, error) {
	var rows []stuckCaseRow
	if err := s.db.WithContext(ctx).Raw(queryStuckCase, orderID).Scan(&rows).Error; err != nil {
		return "", "", false, fmt.Errorf("query stuck case of %s: %w", orderID, err)
	}
	if len(rows) == 0 {
		return "", "", false, nil
	}
	return rows[0].GroupCase.String, rows[0].StuckOwner.String, true, nil
}

// MaxActionDateOf 查询最近一次有效 action 时间
func (s *OrderStore) MaxActionDateOf(ctx context.Context, orderID string) (time.Time, bool, error) {
	var rows []actionDateRow
	if err := s.db.WithContext(ctx).Raw(queryMaxActionDate, orderID, orderID).Scan(&rows).Error; err != nil {
		return time.Time{}, false, fmt.Errorf("query max action date of %s: %w", orderID, err)
	}
	if len(rows) == 0 || !rows[0].CtdbCreDatetime.Valid {
		return time.Time{}, false, nil
	}
	return rows[0].CtdbCreDatetime.Time, true, nil
}
