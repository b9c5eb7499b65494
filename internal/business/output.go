package business

import (
	"time"

	"o2a/inctriage/common/entity"
	"o2a/inctriage/internal/business/triage"
)

// OutputColumns processed_data.xlsx 的列顺序
var OutputColumns = []string{
	"INCIDENT_ID", "SUMMARY", "ASSIGNED_GROUP", "REPORTED_DATE", "ORDER_ID", "ORDER_STATUS",
	"RECENT_STUCK_CASE", "STUCK_OWNER", "MAX_ORDER_DATE", "PERU_SITE_TIME", "LIMIT_8HR",
	"COMMENTS", "TRACKING", "ROW_ERROR",
}

// OutputRow 一行导出为表格单元格（与 OutputColumns 对齐）
func OutputRow(rec triage.EnrichedRecord) []string {
	stuckCase, stuckOwner := "", ""
	if rec.StuckCase.Present {
		stuckCase, stuckOwner = rec.StuckCase.Case, rec.StuckCase.Owner
	}
	return []string{
		rec.IncidentID,
		rec.Summary,
		rec.AssignedGroup,
		rec.ReportedDate,
		rec.OrderID.String(),
		rec.Status.String(),
		stuckCase,
		stuckOwner,
		rec.MaxActionDateText(),
		rec.SiteTimeText(),
		rec.SLA.Flag(),
		rec.Comment,
		rec.Tracking,
		rec.RowError,
	}
}

func outputCells(records []triage.EnrichedRecord) [][]interface{} {
	cells := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		row := OutputRow(rec)
		r := make([]interface{}, len(row))
		for i, v := range row {
			r[i] = v
		}
		cells = append(cells, r)
	}
	return cells
}

// toEntity 结果行 → AUTO_INC_TRIAGE，缺失值写 NULL
func toEntity(rec triage.EnrichedRecord) entity.IncidentTriage {
	row := entity.IncidentTriage{
		IncidentID:    rec.IncidentID,
		Summary:       strPtr(rec.Summary),
		AssignedGroup: strPtr(rec.AssignedGroup),
		OrderID:       strPtr(rec.OrderID.String()),
		OrderStatus:   strPtr(rec.Status.String()),
		Limit8HR:      strPtr(rec.SLA.Flag()),
		Comments:      strPtr(rec.Comment),
		Tracking:      strPtr(rec.Tracking),
	}

	if reported, err := triage.Parse(rec.ReportedDate); err == nil {
		row.ReportedDate = &reported
	}
	if rec.StuckCase.Present {
		row.RecentStuckCase = strPtr(rec.StuckCase.Case)
		row.StuckOwner = strPtr(rec.StuckCase.Owner)
	}
	if rec.HasMaxAction {
		row.MaxOrderDate = timePtr(rec.MaxActionDate)
	}
	if rec.HasSiteTime {
		row.PeruSiteTime = timePtr(rec.SiteTime)
	}
	return row
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}
