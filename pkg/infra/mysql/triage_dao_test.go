package mysql

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"o2a/inctriage/common/entity"
)

func strp(s string) *string { return &s }

func newTriageRow(id string) entity.IncidentTriage {
	reported := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	return entity.IncidentTriage{
		IncidentID:    id,
		Summary:       strp("Ref Orden789 stuck"),
		AssignedGroup: strp("O2A"),
		ReportedDate:  &reported,
		OrderID:       strp("789"),
		OrderStatus:   strp("DO"),
		Limit8HR:      strp("Y"),
		Comments:      strp("O2A Check Required: (None, None)"),
		Tracking:      strp("OFF-SHORE (INDIA)"),
	}
}

func newBatch(id string) *entity.TriageBatch {
	return &entity.TriageBatch{
		BatchID:      id,
		RequestID:    "req-" + id,
		Tracking:     "OFF-SHORE (INDIA)",
		SourceFile:   "incidents.xlsx",
		RowsIn:       3,
		RowsOut:      1,
		Dispositions: []byte(`{"O2A Check Required":1}`),
		IncidentIDs:  []byte(`["INC1"]`),
		CreatedAt:    time.Now(),
	}
}

func TestTriageDAO_ExportAndLookup(t *testing.T) {
	dao := NewTriageDAO(openTestDB(t), 2)
	ctx := context.Background()
	require.NoError(t, dao.EnsureTables(ctx))
	// 幂等
	require.NoError(t, dao.EnsureTables(ctx))

	rows := []entity.IncidentTriage{newTriageRow("INC1"), newTriageRow("INC2"), newTriageRow("INC3")}
	require.NoError(t, dao.Export(ctx, rows, newBatch("b1")))

	existing, err := dao.ExistingIncidentIDs(ctx, []string{"INC1", "INC3", "INC9"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"INC1", "INC3"}, existing)

	batch, err := dao.GetBatch(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "req-b1", batch.RequestID)
	assert.JSONEq(t, `{"O2A Check Required":1}`, string(batch.Dispositions))
}

func TestTriageDAO_NullColumns(t *testing.T) {
	db := openTestDB(t)
	dao := NewTriageDAO(db, 10)
	ctx := context.Background()
	require.NoError(t, dao.EnsureTables(ctx))

	require.NoError(t, dao.Export(ctx, []entity.IncidentTriage{{IncidentID: "INC1"}}, nil))

	var got entity.IncidentTriage
	require.NoError(t, db.First(&got, "INCIDENT_ID = ?", "INC1").Error)
	assert.Nil(t, got.OrderID)
	assert.Nil(t, got.RecentStuckCase)
	assert.Nil(t, got.MaxOrderDate)
}

func TestTriageDAO_ExportRollsBack(t *testing.T) {
	db := openTestDB(t)
	dao := NewTriageDAO(db, 10)
	ctx := context.Background()
	require.NoError(t, dao.EnsureTables(ctx))
	require.NoError(t, dao.Export(ctx, []entity.IncidentTriage{newTriageRow("INC1")}, newBatch("b1")))

	// INC1 主键冲突，INC2 和 b2 都不应写入
	err := dao.Export(ctx, []entity.IncidentTriage{newTriageRow("INC2"), newTriageRow("INC1")}, newBatch("b2"))
	require.Error(t, err)

	existing, err := dao.ExistingIncidentIDs(ctx, []string{"INC2"})
	require.NoError(t, err)
	assert.Empty(t, existing)

	_, err = dao.GetBatch(ctx, "b2")
	assert.Error(t, err)
}

func TestTriageDAO_ExistingChunks(t *testing.T) {
	dao := NewTriageDAO(openTestDB(t), 100)
	ctx := context.Background()
	require.NoError(t, dao.EnsureTables(ctx))
	require.NoError(t, dao.Export(ctx, []entity.IncidentTriage{newTriageRow("INC-0"), newTriageRow("INC-1200")}, nil))

	ids := make([]string, 0, 1300)
	for i := 0; i < 1300; i++ {
		ids = append(ids, "INC-"+strconv.Itoa(i))
	}
	existing, err := dao.ExistingIncidentIDs(ctx, ids)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"INC-0", "INC-1200"}, existing)
}
