//go:build integration

package services_test

import (
	"context"
	"testing"

	"github.com/dimitrije/stockroom/internal/models"
	"github.com/dimitrije/stockroom/internal/services"
	"github.com/dimitrije/stockroom/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_TenantLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := testutil.SetupTestDB(t)
	ctx := context.Background()

	orgs := services.NewOrganizationService(tdb.DB)
	profiles := services.NewProfileService(tdb.DB)
	locations := services.NewLocationService(tdb.DB)
	items := services.NewItemService(tdb.DB)
	requests := services.NewRequestService(tdb.DB)
	dashboard := services.NewDashboardService(tdb.DB)

	owner := &models.User{ID: uuid.New(), Email: "owner@example.com"}
	org, admin, err := orgs.CreateWithAdmin(ctx, "Acme", owner, "Owner")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	_, _, err = orgs.CreateWithAdmin(ctx, "Second", owner, "")
	assert.ErrorIs(t, err, services.ErrProfileExists)

	memberID := uuid.New()
	member, err := profiles.Create(ctx, &models.Profile{
		ID:             memberID,
		OrganizationID: org.ID,
		Email:          "member@example.com",
		Role:           models.RoleUser,
	})
	require.NoError(t, err)

	_, err = profiles.Create(ctx, member)
	assert.ErrorIs(t, err, services.ErrProfileExists)

	loc, err := locations.Create(ctx, org.ID, "Main", nil, &member.ID)
	require.NoError(t, err)

	item, err := items.Create(ctx, org.ID, services.ItemInput{
		LocationID:  &loc.ID,
		Name:        ptr("Gloves"),
		Quantity:    ptr(2),
		MinQuantity: ptr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "pcs", item.Unit)

	managed, err := items.ListForManager(ctx, org.ID, member.ID)
	require.NoError(t, err)
	assert.Len(t, managed, 1)

	low, err := items.ListLowStock(ctx, org.ID)
	require.NoError(t, err)
	assert.Len(t, low, 1)

	req, err := requests.Create(ctx, org.ID, item.ID, member.ID, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, req.Status)

	summary, err := dashboard.Summary(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, &models.DashboardSummary{Items: 1, LowStockItems: 1, Locations: 1, PendingRequests: 1}, summary)

	_, err = requests.UpdateStatus(ctx, org.ID, req.ID, models.RequestFulfilled, admin.ID)
	require.NoError(t, err)

	low, err = items.ListLowStock(ctx, org.ID)
	require.NoError(t, err)
	assert.Empty(t, low)

	_, err = requests.UpdateStatus(ctx, org.ID, req.ID, models.RequestRejected, admin.ID)
	assert.ErrorIs(t, err, services.ErrRequestResolved)

	n, err := profiles.PromoteByEmail(ctx, "MEMBER@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	tdb.CleanTables(t)

	_, err = profiles.GetByID(ctx, admin.ID)
	assert.ErrorIs(t, err, services.ErrProfileNotFound)
}

func ptr[T any](v T) *T { return &v }
