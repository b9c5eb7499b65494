package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"o2a/inctriage/common/entity"
	"o2a/inctriage/common/model"
	"o2a/inctriage/internal/business"
	"o2a/inctriage/internal/business/triage"
	"o2a/inctriage/pkg/infra/redis"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func renderRecords(records []triage.EnrichedRecord) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(recordHeaders...).
		Rows(recordRows(records)...)
	return t.String()
}

var recordHeaders = []string{"#", "INCIDENT_ID", "ORDER_ID", "ORDER_STATUS", "RECENT_STUCK_CASE", "PERU_SITE_TIME", "LIMIT_8HR", "COMMENTS"}

// recordRows 行号从 1 开始
func recordRows(records []triage.EnrichedRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for i, rec := range records {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			rec.IncidentID,
			rec.OrderID.String(),
			rec.Status.String(),
			rec.StuckCase.String(),
			rec.SiteTimeText(),
			rec.SLA.Flag(),
			rec.Comment,
		})
	}
	return rows
}

func renderSummary(report *business.BatchReport) string {
	res := report.Result
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Batch %s  %s", report.BatchID, res.Mode.Label())))
	b.WriteString("\n")
	fmt.Fprintf(&b, "rows in: %d  rows out: %d  row errors: %d  duration: %v\n",
		res.RowsIn, len(res.Records), res.RowErrors, res.Duration)

	b.WriteString(renderTally(res.Tally()))

	if report.OutputPath != "" {
		fmt.Fprintf(&b, "output: %s\n", report.OutputPath)
	}
	if report.Exported {
		b.WriteString(okStyle.Render("exported to AUTO_INC_TRIAGE"))
		b.WriteString("\n")
	}
	return b.String()
}

func renderTally(tally map[string]int) string {
	keys := make([]string, 0, len(tally))
	for k := range tally {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("DISPOSITION", "ROWS")
	for _, k := range keys {
		t.Row(k, fmt.Sprint(tally[k]))
	}
	return t.String() + "\n"
}

func renderBatch(batch *entity.TriageBatch) string {
	var tally map[string]int
	_ = json.Unmarshal(batch.Dispositions, &tally)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Batch %s  %s", batch.BatchID, batch.Tracking)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "source: %s  rows in: %d  rows out: %d  exported at: %s\n",
		batch.SourceFile, batch.RowsIn, batch.RowsOut, batch.CreatedAt.Format(triage.TimestampLayout))
	b.WriteString(renderTally(tally))
	return b.String()
}

func renderNotification(n *redis.BatchNotification) string {
	style := okStyle
	if n.Status != model.CallbackStatusSuccess {
		style = warnStyle
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Batch %s  %s", n.BatchID, n.Tracking)))
	b.WriteString("\n")
	b.WriteString(style.Render(n.Status))
	fmt.Fprintf(&b, "  rows out: %d  exported: %v  at: %s",
		n.RowsOut, n.Exported, time.Unix(n.Timestamp, 0).Format(time.RFC3339))
	return b.String()
}
