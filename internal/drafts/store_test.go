// internal/drafts/store_test.go
package drafts

import (
	"context"
	"fmt"
	"testing"
	"time"

	"loan-origination/internal/common/logger"
	"loan-origination/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, repo Repository, opts Options) (*Store, *time.Time) {
	s := NewStore(repo, opts, logger.NewTestLogger(t))
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	return s, &clock
}

func homeSnapshot(appID string, step int) models.DraftSnapshot {
	return models.DraftSnapshot{
		ApplicationID: appID,
		CurrentStep:   step,
		BasicDetails: models.BasicDetails{
			LoanType:   models.LoanTypeHome,
			LoanAmount: 2500000,
			Tenure:     240,
			Purpose:    "Purchase of flat",
		},
		FinancialDetails: models.FinancialDetails{
			EmploymentType: models.EmploymentSalaried,
			AccountType:    models.AccountSavings,
		},
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, NewMemoryRepository(), Options{})

	id, err := store.Save(ctx, "applicant-1", homeSnapshot("app-1", 2))
	require.NoError(t, err)
	assert.Equal(t, "draft_app-1", id)

	d, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "applicant-1", d.ApplicantID)
	assert.Equal(t, 2, d.CurrentStep)
	assert.Equal(t, 6, d.TotalSteps)
	assert.Equal(t, models.LoanTypeHome, d.LoanType)
	assert.Equal(t, "Home Loan Application", d.Title)
	assert.Equal(t, "Stopped at Applicant Details (Step 2 of 6)", d.Description)
	assert.Equal(t, 2500000.0, d.Snapshot.BasicDetails.LoanAmount)
}

func TestStore_SaveOverwritesAndKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(t, NewMemoryRepository(), Options{})

	id, err := store.Save(ctx, "applicant-1", homeSnapshot("app-1", 1))
	require.NoError(t, err)
	created := *clock

	*clock = clock.Add(5 * time.Minute)
	id2, err := store.Save(ctx, "applicant-1", homeSnapshot("app-1", 3))
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	list, err := store.ListByApplicant(ctx, "applicant-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0].CreatedAt)
	assert.Equal(t, *clock, list[0].LastSaved)
	assert.Equal(t, 3, list[0].CurrentStep)
}

func TestStore_ListMostRecentFirstAndRetention(t *testing.T) {
	ctx := context.Background()
	store, clock := newTestStore(t, NewMemoryRepository(), Options{MaxPerApplicant: 3})

	for i := 1; i <= 5; i++ {
		*clock = clock.Add(time.Minute)
		_, err := store.Save(ctx, "applicant-1", homeSnapshot(fmt.Sprintf("app-%d", i), 1))
		require.NoError(t, err)
	}
	_, err := store.Save(ctx, "applicant-2", homeSnapshot("other", 1))
	require.NoError(t, err)

	list, err := store.ListByApplicant(ctx, "applicant-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "draft_app-5", list[0].ID)
	assert.Equal(t, "draft_app-4", list[1].ID)
	assert.Equal(t, "draft_app-3", list[2].ID)

	latest, err := store.Latest(ctx, "applicant-1")
	require.NoError(t, err)
	assert.Equal(t, "draft_app-5", latest.ID)

	_, err = store.Load(ctx, "draft_app-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeleteAndLatestEmpty(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, NewMemoryRepository(), Options{})

	id, err := store.Save(ctx, "applicant-1", homeSnapshot("app-1", 1))
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, id))

	_, err = store.Latest(ctx, "applicant-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SaveRequiresApplicant(t *testing.T) {
	store, _ := newTestStore(t, NewMemoryRepository(), Options{})
	_, err := store.Save(context.Background(), "", homeSnapshot("app-1", 1))
	assert.Error(t, err)
}

func TestStore_SaveWithoutApplicationIDGeneratesID(t *testing.T) {
	store, _ := newTestStore(t, NewMemoryRepository(), Options{})
	id, err := store.Save(context.Background(), "applicant-1", homeSnapshot("", 1))
	require.NoError(t, err)
	assert.Regexp(t, `^draft_[0-9a-f-]{36}$`, id)
}

func TestTitleAndDescription(t *testing.T) {
	assert.Equal(t, "Loan Application Draft", Title(""))
	assert.Equal(t, "Vehicle Loan Application", Title(models.LoanTypeVehicle))
	assert.Equal(t, "Stopped at Review & Submit (Step 6 of 6)", Description(6))
}

func TestSinceSaved(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago      time.Duration
		expected string
	}{
		{10 * time.Second, "Just now"},
		{time.Minute, "1 minute ago"},
		{42 * time.Minute, "42 minutes ago"},
		{3 * time.Hour, "3 hours ago"},
		{49 * time.Hour, "2 days ago"},
	}
	for _, tt := range tests {
		d := models.Draft{LastSaved: now.Add(-tt.ago)}
		assert.Equal(t, tt.expected, SinceSaved(d, now))
	}
}
