package business

import (
	"fmt"
	"strings"

	"o2a/inctriage/internal/business/triage"
	"o2a/inctriage/pkg/errorutil"
	"o2a/inctriage/pkg/infra/excel"
)

// 必需列（规范名）
const (
	ColIncidentID    = "INCIDENT_ID"
	ColSummary       = "SUMMARY"
	ColAssignedGroup = "ASSIGNED_GROUP"
	ColReportedDate  = "REPORTED_DATE"
)

// columnAliases 规范名 → 可接受的表头（Remedy 导出使用的表头在前）
var columnAliases = map[string][]string{
	ColIncidentID:    {"Incident ID", ColIncidentID},
	ColSummary:       {"Summary", ColSummary},
	ColAssignedGroup: {"Assigned Group", ColAssignedGroup},
	ColReportedDate:  {"Reported Date", ColReportedDate},
}

var requiredColumns = []string{ColIncidentID, ColSummary, ColAssignedGroup, ColReportedDate}

// RowsFromTable 把工作表转换为 IncidentRow
// 缺少任何必需列时整个文件失败，不输出部分结果
func RowsFromTable(table *excel.Table) ([]triage.IncidentRow, error) {
	idx := make(map[string]int, len(requiredColumns))
	missing := make([]string, 0)

	for _, col := range requiredColumns {
		found := false
		for _, alias := range columnAliases[col] {
			if i, ok := table.Column(alias); ok {
				idx[col] = i
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, fmt.Sprintf("%s (%q)", col, columnAliases[col][0]))
		}
	}

	if len(missing) > 0 {
		return nil, errorutil.MalformedBatch(fmt.Sprintf(
			"uploaded sheet is missing required columns: %s; found columns: %s",
			strings.Join(missing, ", "), strings.Join(table.Header, ", ")))
	}

	rows := make([]triage.IncidentRow, 0, len(table.Rows))
	for _, r := range table.Rows {
		var summary interface{}
		if s := table.Cell(r, idx[ColSummary]); s != "" {
			summary = s
		}
		rows = append(rows, triage.IncidentRow{
			IncidentID:    strings.TrimSpace(table.Cell(r, idx[ColIncidentID])),
			Summary:       summary,
			AssignedGroup: table.Cell(r, idx[ColAssignedGroup]),
			ReportedDate:  excel.DateCellText(table.Cell(r, idx[ColReportedDate]), triage.TimestampLayout),
		})
	}
	return rows, nil
}
