package signoff_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fieldpaper-dev/fieldpaper/internal/model"
	"github.com/fieldpaper-dev/fieldpaper/internal/service"
	"github.com/fieldpaper-dev/fieldpaper/internal/signoff"
	"github.com/fieldpaper-dev/fieldpaper/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*signoff.Service, service.Storage) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return signoff.NewService(store), store
}

func toggle(clientID, periodID, code string, kind signoff.Kind, checked bool, member string) signoff.ToggleInput {
	return signoff.ToggleInput{
		ClientID: clientID,
		PeriodID: periodID,
		Code:     code,
		Kind:     kind,
		Checked:  checked,
		MemberID: member,
	}
}

func TestToggleRequiresMemberToSign(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Toggle(ctx, toggle("client-1", "p1", "B10", signoff.KindReviewed, true, ""))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "member id")

	// Nothing was written.
	record, err := svc.Get(ctx, "client-1", "p1", "B10")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestToggleRejectsUnknownKind(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Toggle(context.Background(),
		toggle("client-1", "p1", "B10", signoff.Kind("APPROVED"), true, "m1"))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "unknown signoff kind")
}

func TestToggleSetAndClearReviewed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Toggle(ctx, toggle("client-1", "p1", "B10", signoff.KindReviewed, true, "reviewer-1"))
	require.NoError(t, err)
	assert.True(t, result.Success)

	record, err := svc.Get(ctx, "client-1", "p1", "B10")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.NotNil(t, record.ReviewedBy)
	assert.Equal(t, "reviewer-1", *record.ReviewedBy)
	assert.NotNil(t, record.ReviewedAt)

	// Clearing does not require a member; the event names the reviewer
	// whose signoff was removed.
	result, err = svc.Toggle(ctx, toggle("client-1", "p1", "B10", signoff.KindReviewed, false, ""))
	require.NoError(t, err)
	assert.True(t, result.Success)

	record, err = svc.Get(ctx, "client-1", "p1", "B10")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Nil(t, record.ReviewedBy)
	assert.Nil(t, record.ReviewedAt)

	require.Len(t, record.History, 2)
	assert.Equal(t, model.EventReviewedSet, record.History[0].Type)
	assert.Equal(t, model.EventReviewedCleared, record.History[1].Type)
	require.NotNil(t, record.History[1].MemberID)
	assert.Equal(t, "reviewer-1", *record.History[1].MemberID)
	assert.False(t, record.History[1].At.Before(record.History[0].At))
}

func TestToggleHistoryIsAppendOnly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	members := []string{"m1", "m2", "m3"}
	for _, m := range members {
		_, err := svc.Toggle(ctx, toggle("client-1", "p1", "B10", signoff.KindReviewed, true, m))
		require.NoError(t, err)
		_, err = svc.Toggle(ctx, toggle("client-1", "p1", "B10", signoff.KindReviewed, false, ""))
		require.NoError(t, err)
	}

	record, err := svc.Get(ctx, "client-1", "p1", "B10")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Len(t, record.History, 6)
	for i, m := range members {
		set := record.History[2*i]
		cleared := record.History[2*i+1]
		assert.Equal(t, model.EventReviewedSet, set.Type)
		require.NotNil(t, set.MemberID)
		assert.Equal(t, m, *set.MemberID)
		assert.Equal(t, model.EventReviewedCleared, cleared.Type)
		require.NotNil(t, cleared.MemberID)
		assert.Equal(t, m, *cleared.MemberID)
	}
}

func TestToggleCompletedSyncsDocumentFlag(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	doc := &model.Document{
		ClientID: "client-1",
		PeriodID: "p1",
		Code:     "A10",
		Kind:     model.KindChecklist,
		Version:  1,
		Content:  &model.Checklist{Rows: []model.ChecklistRow{{ID: "q1", Text: "Done?"}}},
	}
	require.NoError(t, store.SaveDocument(ctx, doc))

	result, err := svc.Toggle(ctx, toggle("client-1", "p1", "A10", signoff.KindCompleted, true, "staff-1"))
	require.NoError(t, err)
	assert.True(t, result.Success)

	got, err := store.GetDocument(ctx, "client-1", "p1", "A10")
	require.NoError(t, err)
	assert.True(t, got.Complete)

	_, err = svc.Toggle(ctx, toggle("client-1", "p1", "A10", signoff.KindCompleted, false, ""))
	require.NoError(t, err)

	got, err = store.GetDocument(ctx, "client-1", "p1", "A10")
	require.NoError(t, err)
	assert.False(t, got.Complete)
}

func TestToggleCompletedWithoutDocument(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// A completion signoff on a document that has no stored row still
	// records the signoff.
	result, err := svc.Toggle(ctx, toggle("client-1", "p1", "Z10", signoff.KindCompleted, true, "staff-1"))
	require.NoError(t, err)
	assert.True(t, result.Success)

	record, err := svc.Get(ctx, "client-1", "p1", "Z10")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.NotNil(t, record.CompletedBy)
	assert.Equal(t, "staff-1", *record.CompletedBy)
}

func TestToggleReviewedAndCompletedIndependent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, toggle("client-1", "p1", "B10", signoff.KindReviewed, true, "reviewer-1"))
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, toggle("client-1", "p1", "B10", signoff.KindCompleted, true, "staff-1"))
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, toggle("client-1", "p1", "B10", signoff.KindCompleted, false, ""))
	require.NoError(t, err)

	record, err := svc.Get(ctx, "client-1", "p1", "B10")
	require.NoError(t, err)
	require.NotNil(t, record)
	require.NotNil(t, record.ReviewedBy)
	assert.Equal(t, "reviewer-1", *record.ReviewedBy)
	assert.Nil(t, record.CompletedBy)
}
