package rollforward_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fieldpaper-dev/fieldpaper/internal/model"
	"github.com/fieldpaper-dev/fieldpaper/internal/rollforward"
	"github.com/fieldpaper-dev/fieldpaper/internal/service"
	"github.com/fieldpaper-dev/fieldpaper/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*rollforward.Engine, service.Storage) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return rollforward.New(store), store
}

func createRollPeriod(t *testing.T, store service.Storage, clientID, name string, year int) *model.AccountingPeriod {
	t.Helper()
	p := &model.AccountingPeriod{
		ID:        model.NewID(),
		ClientID:  clientID,
		Name:      name,
		StartDate: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
		Status:    model.PeriodPlanned,
	}
	require.NoError(t, store.CreatePeriod(context.Background(), p))
	return p
}

func agreed() *model.ChecklistResponse {
	r := model.ResponseAgreed
	return &r
}

func floatPtr(v float64) *float64 { return &v }

func saveChecklist(t *testing.T, store service.Storage, clientID, periodID, code string) {
	t.Helper()
	doc := &model.Document{
		ClientID: clientID,
		PeriodID: periodID,
		Code:     code,
		Kind:     model.KindChecklist,
		Version:  1,
		Content: &model.Checklist{Rows: []model.ChecklistRow{
			{ID: "q1", Text: "Opening balances agreed", Response: agreed()},
			{ID: "q2", Text: "Prior-year adjustments reviewed", Response: agreed()},
		}},
		Complete: true,
	}
	require.NoError(t, store.SaveDocument(context.Background(), doc))
}

func TestRollForwardChecklistReset(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	from := createRollPeriod(t, store, "client-1", "FY2024", 2024)
	to := createRollPeriod(t, store, "client-1", "FY2025", 2025)
	saveChecklist(t, store, "client-1", from.ID, "A10")

	result, err := engine.RollForward(ctx, "client-1", from.ID, to.ID, rollforward.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Considered)
	assert.Equal(t, 1, result.Copied)
	assert.Equal(t, 0, result.Overwritten)

	got, err := store.GetDocument(ctx, "client-1", to.ID, "A10")
	require.NoError(t, err)
	assert.False(t, got.Complete)

	checklist, ok := got.Content.(*model.Checklist)
	require.True(t, ok)
	require.Len(t, checklist.Rows, 2)
	for _, row := range checklist.Rows {
		assert.Nil(t, row.Response, "row %s should be unanswered", row.ID)
		assert.NotEmpty(t, row.Text)
	}

	// Source document untouched.
	src, err := store.GetDocument(ctx, "client-1", from.ID, "A10")
	require.NoError(t, err)
	srcChecklist := src.Content.(*model.Checklist)
	assert.NotNil(t, srcChecklist.Rows[0].Response)
	assert.True(t, src.Complete)
}

func TestRollForwardFirstInsertWins(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	from := createRollPeriod(t, store, "client-1", "FY2024", 2024)
	to := createRollPeriod(t, store, "client-1", "FY2025", 2025)
	saveChecklist(t, store, "client-1", from.ID, "A10")

	first, err := engine.RollForward(ctx, "client-1", from.ID, to.ID, rollforward.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Copied)

	// A user answers a question in the new period before the second run.
	target, err := store.GetDocument(ctx, "client-1", to.ID, "A10")
	require.NoError(t, err)
	target.Content.(*model.Checklist).Rows[0].Response = agreed()
	require.NoError(t, store.SaveDocument(ctx, target))

	second, err := engine.RollForward(ctx, "client-1", from.ID, to.ID, rollforward.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, second.Considered)
	assert.Equal(t, 0, second.Copied)
	assert.Equal(t, 0, second.Overwritten)

	got, err := store.GetDocument(ctx, "client-1", to.ID, "A10")
	require.NoError(t, err)
	assert.NotNil(t, got.Content.(*model.Checklist).Rows[0].Response,
		"work in the target period must survive a repeat roll-forward")
}

func TestRollForwardOverwrite(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	from := createRollPeriod(t, store, "client-1", "FY2024", 2024)
	to := createRollPeriod(t, store, "client-1", "FY2025", 2025)
	saveChecklist(t, store, "client-1", from.ID, "A10")

	_, err := engine.RollForward(ctx, "client-1", from.ID, to.ID, rollforward.DefaultOptions())
	require.NoError(t, err)

	target, err := store.GetDocument(ctx, "client-1", to.ID, "A10")
	require.NoError(t, err)
	target.Content.(*model.Checklist).Rows[0].Response = agreed()
	require.NoError(t, store.SaveDocument(ctx, target))

	opts := rollforward.DefaultOptions()
	opts.Overwrite = true
	result, err := engine.RollForward(ctx, "client-1", from.ID, to.ID, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Copied)
	assert.Equal(t, 1, result.Overwritten)

	got, err := store.GetDocument(ctx, "client-1", to.ID, "A10")
	require.NoError(t, err)
	assert.Nil(t, got.Content.(*model.Checklist).Rows[0].Response)
}

func TestRollForwardSimpleScheduleReset(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	from := createRollPeriod(t, store, "client-1", "FY2024", 2024)
	to := createRollPeriod(t, store, "client-1", "FY2025", 2025)

	notes := "agreed to bank confirmation"
	doc := &model.Document{
		ClientID: "client-1",
		PeriodID: from.ID,
		Code:     "C10",
		Kind:     model.KindSimpleSchedule,
		Version:  1,
		Content: &model.SimpleSchedule{
			Attachments: []model.Attachment{{ID: "att1", Name: "Register", URL: "https://files.example.com/reg.pdf"}},
			Sections: []model.Section{{
				Title: "Cost",
				Notes: &notes,
				Lines: []model.Line{
					{ID: "open", Type: model.LineInput, Label: "Opening", Amount: floatPtr(1000)},
					{ID: "adds", Type: model.LineInput, Label: "Additions", Amount: floatPtr(250)},
					{ID: "close", Type: model.LineTotal, Label: "Closing", SumOf: []string{"open", "adds"}},
				},
			}},
		},
	}
	require.NoError(t, store.SaveDocument(ctx, doc))

	_, err := engine.RollForward(ctx, "client-1", from.ID, to.ID, rollforward.DefaultOptions())
	require.NoError(t, err)

	got, err := store.GetDocument(ctx, "client-1", to.ID, "C10")
	require.NoError(t, err)
	sched := got.Content.(*model.SimpleSchedule)

	require.Len(t, sched.Attachments, 1)
	assert.Equal(t, "Register", sched.Attachments[0].Name)
	assert.Empty(t, sched.Attachments[0].URL)

	sec := sched.Sections[0]
	require.NotNil(t, sec.Notes)
	assert.Empty(t, *sec.Notes)
	assert.Nil(t, sec.Lines[0].Amount)
	assert.Nil(t, sec.Lines[1].Amount)
	assert.Equal(t, []string{"open", "adds"}, sec.Lines[2].SumOf,
		"computed line definitions must survive the reset")
}

func TestRollForwardSamePeriodNoOp(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	from := createRollPeriod(t, store, "client-1", "FY2024", 2024)
	saveChecklist(t, store, "client-1", from.ID, "A10")

	result, err := engine.RollForward(ctx, "client-1", from.ID, from.ID, rollforward.DefaultOptions())
	require.NoError(t, err)
	assert.Zero(t, result.Considered)
	assert.Zero(t, result.Copied)

	got, err := store.GetDocument(ctx, "client-1", from.ID, "A10")
	require.NoError(t, err)
	assert.NotNil(t, got.Content.(*model.Checklist).Rows[0].Response)
}

func TestRollForwardUnknownPeriod(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	from := createRollPeriod(t, store, "client-1", "FY2024", 2024)

	_, err := engine.RollForward(ctx, "client-1", from.ID, "no-such-period", rollforward.DefaultOptions())
	assert.Error(t, err)
}

func TestRollForwardShiftsPeriodSetup(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	from := createRollPeriod(t, store, "client-1", "FY2024", 2024)
	to := createRollPeriod(t, store, "client-1", "FY2025", 2025)

	require.NoError(t, store.SavePeriodSetup(ctx, &model.PeriodSetup{
		ClientID:           "client-1",
		PeriodID:           from.ID,
		Benchmark:          "Revenue",
		BenchmarkCurrent:   floatPtr(1_200_000),
		BenchmarkPrior:     floatPtr(1_000_000),
		MaterialityCurrent: floatPtr(60_000),
		PerformanceCurrent: floatPtr(45_000),
		PreparerID:         "staff-1",
		ReviewerID:         "manager-1",
	}))

	_, err := engine.RollForward(ctx, "client-1", from.ID, to.ID, rollforward.DefaultOptions())
	require.NoError(t, err)

	setup, err := store.GetPeriodSetup(ctx, "client-1", to.ID)
	require.NoError(t, err)
	assert.Equal(t, "Revenue", setup.Benchmark)
	require.NotNil(t, setup.BenchmarkPrior)
	assert.Equal(t, 1_200_000.0, *setup.BenchmarkPrior)
	require.NotNil(t, setup.MaterialityPrior)
	assert.Equal(t, 60_000.0, *setup.MaterialityPrior)
	require.NotNil(t, setup.PerformancePrior)
	assert.Equal(t, 45_000.0, *setup.PerformancePrior)
	assert.Nil(t, setup.BenchmarkCurrent)
	assert.Nil(t, setup.MaterialityCurrent)
	assert.Empty(t, setup.PreparerID)
	assert.Empty(t, setup.ReviewerID)
}

func TestRollForwardKeepCompleteFlag(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	from := createRollPeriod(t, store, "client-1", "FY2024", 2024)
	to := createRollPeriod(t, store, "client-1", "FY2025", 2025)
	saveChecklist(t, store, "client-1", from.ID, "A10")

	opts := rollforward.DefaultOptions()
	opts.ResetComplete = false
	_, err := engine.RollForward(ctx, "client-1", from.ID, to.ID, opts)
	require.NoError(t, err)

	got, err := store.GetDocument(ctx, "client-1", to.ID, "A10")
	require.NoError(t, err)
	assert.True(t, got.Complete)
}
