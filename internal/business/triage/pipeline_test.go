package triage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"o2a/inctriage/pkg/logger"
)

func newTestPipeline(t *testing.T, store OrderStore, concurrency int) *Pipeline {
	t.Helper()
	return NewPipeline(PipelineConfig{
		TargetGroup: "O2A",
		SLAWindow:   DefaultSLAWindow,
		Concurrency: concurrency,
	}, NewResolver(store, time.Second, logger.NewNop()), newTestNormalizer(t), logger.NewNop())
}

func TestFilter(t *testing.T) {
	rows := []IncidentRow{
		{IncidentID: "INC1", AssignedGroup: "TEF"},
		{IncidentID: "INC2", AssignedGroup: "O2A"},
		{IncidentID: "INC3", AssignedGroup: "o2a"},
	}
	kept := Filter(rows, "O2A")
	require.Len(t, kept, 1)
	assert.Equal(t, "INC2", kept[0].IncidentID)
}

func TestRun_DropsOtherGroups(t *testing.T) {
	p := newTestPipeline(t, newFakeStore(), 2)
	rows := []IncidentRow{
		{IncidentID: "INC1", Summary: "OrderID:1A", AssignedGroup: "TEF", ReportedDate: "01-Jan-2024 10:00:00"},
		{IncidentID: "INC2", Summary: "OrderID:2A", AssignedGroup: "O2A", ReportedDate: "01-Jan-2024 10:00:00"},
		{IncidentID: "INC3", Summary: "OrderID:3A", AssignedGroup: "NOC", ReportedDate: "01-Jan-2024 10:00:00"},
	}

	result, err := p.Run(context.Background(), rows, Offshore)
	require.NoError(t, err)
	assert.Equal(t, 3, result.RowsIn)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "INC2", result.Records[0].IncidentID)
}

func orden789Store() *fakeStore {
	store := newFakeStore()
	store.statuses["789"] = "DO"
	store.stuck["789"] = stuckPair{"CASE1", "TELEFONICA IT"}
	store.maxDates["789"] = mustParse("01-Jan-2024 00:00:00")
	return store
}

// 在岸：上报时间即站点时间，10h > 8h
func TestEnrich_Orden789Onshore(t *testing.T) {
	p := newTestPipeline(t, orden789Store(), 1)
	row := IncidentRow{
		IncidentID:    "INC789",
		Summary:       "Ref Orden789 stuck",
		AssignedGroup: "O2A",
		ReportedDate:  "01-Jan-2024 10:00:00",
	}

	rec := p.Enrich(context.Background(), row, Onshore)

	assert.Equal(t, "789", rec.OrderID.String())
	assert.Equal(t, "DO", rec.Status.String())
	assert.Equal(t, "01-Jan-2024 10:00:00", rec.SiteTimeText())
	assert.Equal(t, "01-Jan-2024 00:00:00", rec.MaxActionDateText())
	assert.Equal(t, SLABreached, rec.SLA)
	assert.Equal(t, "Y", rec.SLA.Flag())
	assert.Equal(t, "Order is already completed in OMS: Last_Stuck at - ('CASE1', 'TELEFONICA IT')", rec.Comment)
	assert.Equal(t, "ON-SHORE (BRAZIL)", rec.Tracking)
	assert.Empty(t, rec.RowError)
}

// 离岸：10:00 IST 是前一天 23:30 PET，8 小时窗口未过
func TestEnrich_Orden789Offshore(t *testing.T) {
	p := newTestPipeline(t, orden789Store(), 1)
	row := IncidentRow{
		IncidentID:    "INC789",
		Summary:       "Ref Orden789 stuck",
		AssignedGroup: "O2A",
		ReportedDate:  "01-Jan-2024 10:00:00",
	}

	rec := p.Enrich(context.Background(), row, Offshore)
	assert.Equal(t, "31-Dec-2023 23:30:00", rec.SiteTimeText())
	assert.Equal(t, SLANotBreached, rec.SLA)
	assert.Equal(t, CommentSLANotMet, rec.Comment)
	assert.Equal(t, "OFF-SHORE (INDIA)", rec.Tracking)

	// 20:00 IST = 09:30 PET，超过 08:00
	row.ReportedDate = "01-Jan-2024 20:00:00"
	rec = p.Enrich(context.Background(), row, Offshore)
	assert.Equal(t, "01-Jan-2024 09:30:00", rec.SiteTimeText())
	assert.Equal(t, SLABreached, rec.SLA)
	assert.Equal(t, "Order is already completed in OMS: Last_Stuck at - ('CASE1', 'TELEFONICA IT')", rec.Comment)
}

func TestEnrich_InvalidOrder(t *testing.T) {
	store := newFakeStore()
	p := newTestPipeline(t, store, 1)

	rec := p.Enrich(context.Background(), IncidentRow{
		IncidentID:    "INC1",
		Summary:       "customer cannot browse",
		AssignedGroup: "O2A",
		ReportedDate:  "not a date",
	}, Offshore)

	assert.False(t, rec.OrderID.Present())
	assert.Equal(t, "IVO", rec.Status.String())
	assert.Equal(t, "Invalid Order Id", rec.Comment)
	assert.Zero(t, store.calls.Load())
}

func TestEnrich_NonTextSummary(t *testing.T) {
	p := newTestPipeline(t, newFakeStore(), 1)

	rec := p.Enrich(context.Background(), IncidentRow{
		IncidentID:    "INC1",
		Summary:       12345.0,
		AssignedGroup: "O2A",
		ReportedDate:  "01-Jan-2024 10:00:00",
	}, Offshore)

	assert.Equal(t, "12345", rec.Summary)
	assert.False(t, rec.OrderID.Present())
	assert.Equal(t, "Invalid Order Id", rec.Comment)
}

func TestEnrich_UnparseableDateIsolated(t *testing.T) {
	store := orden789Store()
	p := newTestPipeline(t, store, 1)

	rec := p.Enrich(context.Background(), IncidentRow{
		IncidentID:    "INC1",
		Summary:       "Orden789",
		AssignedGroup: "O2A",
		ReportedDate:  "someday",
	}, Offshore)

	assert.Equal(t, SLAUnknown, rec.SLA)
	assert.Empty(t, rec.SLA.Flag())
	assert.False(t, rec.HasSiteTime)
	assert.Equal(t, CommentDateUnrecognised, rec.Comment)
	assert.Contains(t, rec.RowError, "someday")
}

// 没有 max action 时 SLA 判定为未超时，与上报时间能否解析无关
func TestEnrich_UnparseableDateWithoutMaxAction(t *testing.T) {
	store := newFakeStore()
	store.statuses["555"] = "IP"
	p := newTestPipeline(t, store, 1)

	rec := p.Enrich(context.Background(), IncidentRow{
		IncidentID:    "INC2",
		Summary:       "OrderID:555A",
		AssignedGroup: "O2A",
		ReportedDate:  "garbage",
	}, Offshore)

	assert.Equal(t, "IP", rec.Status.String())
	assert.False(t, rec.HasMaxAction)
	assert.False(t, rec.HasSiteTime)
	assert.Equal(t, SLANotBreached, rec.SLA)
	assert.Equal(t, "N", rec.SLA.Flag())
	assert.Equal(t, CommentSLANotMet, rec.Comment)
	assert.Contains(t, rec.RowError, "garbage")
}

func TestEnrich_LookupFailures(t *testing.T) {
	store := newFakeStore()
	store.failStatus, store.failStuck, store.failMax = true, true, true
	p := newTestPipeline(t, store, 1)

	rec := p.Enrich(context.Background(), IncidentRow{
		IncidentID:    "INC1",
		Summary:       "OrderID:42A",
		AssignedGroup: "O2A",
		ReportedDate:  "01-Jan-2024 10:00:00",
	}, Offshore)

	assert.Equal(t, "NA", rec.Status.String())
	assert.False(t, rec.StuckCase.Present)
	assert.False(t, rec.HasMaxAction)
	// 没有 max action 视为未超时
	assert.Equal(t, SLANotBreached, rec.SLA)
	assert.Equal(t, CommentSLANotMet, rec.Comment)
}

func TestRun_PreservesOrder(t *testing.T) {
	store := newFakeStore()
	rows := make([]IncidentRow, 0, 12)
	for i := 0; i < 12; i++ {
		id := fmt.Sprint(100 + i)
		store.statuses[id] = "IP"
		// 越靠前越慢
		store.delays[id] = time.Duration(12-i) * 3 * time.Millisecond
		rows = append(rows, IncidentRow{
			IncidentID:    "INC" + id,
			Summary:       "OrderID:" + id + "A",
			AssignedGroup: "O2A",
			ReportedDate:  "01-Jan-2024 10:00:00",
		})
	}

	p := newTestPipeline(t, store, 4)
	result, err := p.Run(context.Background(), rows, Onshore)
	require.NoError(t, err)
	require.Len(t, result.Records, len(rows))
	for i, rec := range result.Records {
		assert.Equal(t, rows[i].IncidentID, rec.IncidentID)
	}
	assert.Equal(t, []string{"REJECT INC TO TEF AS 8-HR CRITERIA ISN'T FULFILLED"}, keys(result.Tally()))
}

func TestRun_CountsRowErrors(t *testing.T) {
	p := newTestPipeline(t, newFakeStore(), 2)
	rows := []IncidentRow{
		{IncidentID: "INC1", AssignedGroup: "O2A", ReportedDate: "bad"},
		{IncidentID: "INC2", AssignedGroup: "O2A", ReportedDate: "01-Jan-2024 10:00:00"},
	}
	result, err := p.Run(context.Background(), rows, Offshore)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RowErrors)
	assert.Equal(t, []string{"INC1", "INC2"}, result.IncidentIDs())
}

func TestRun_Cancelled(t *testing.T) {
	p := newTestPipeline(t, newFakeStore(), 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := p.Run(ctx, []IncidentRow{
		{IncidentID: "INC1", AssignedGroup: "O2A", ReportedDate: "01-Jan-2024 10:00:00"},
	}, Offshore)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "nothing was exported")
}

func keys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
