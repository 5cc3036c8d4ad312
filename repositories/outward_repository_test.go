package repositories

import (
	"testing"

	"fiber-erp/models"

	"github.com/stretchr/testify/require"
)

// Scenario: an item dispatched on an outward is held by the party, and a job
// work for it now fails naming the actual state.
func TestOutwardBlocksJobWork(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)
	stockItem(t, db, item)

	outward, err := NewOutwardRepository(db).Create(&models.FormOutward{
		VendorID: 5,
		Purpose:  "DEMO",
		Lines:    []models.FormOutwardLine{{ItemID: item.ID}},
	}, testScope)
	require.NoError(t, err)
	require.Equal(t, models.StateOutward, derivedState(t, db, item))

	var got models.Item
	require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
	require.Equal(t, models.HolderVendor, got.HolderType)
	require.NotNil(t, got.VendorID)
	require.Equal(t, outward.VendorID, *got.VendorID)
	require.Nil(t, got.LocationID)

	_, err = NewJobWorkRepository(db).Create(&models.FormJobWork{
		ItemID:   item.ID,
		VendorID: 3,
	}, testScope)
	require.Error(t, err)
	require.True(t, models.IsConflict(err))
	require.Contains(t, err.Error(), models.StateOutward)
	require.Contains(t, err.Error(), item.ItemCode)
}

func TestOutwardRequiresInStock(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	createApprovedIndent(t, db, item)

	_, err := NewOutwardRepository(db).Create(&models.FormOutward{
		VendorID: 5,
		Lines:    []models.FormOutwardLine{{ItemID: item.ID}},
	}, testScope)
	require.Error(t, err)
	require.True(t, models.IsConflict(err))
	require.Contains(t, err.Error(), models.StateInIndent)
}

func TestOutwardReturnLoopEndsInStock(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)
	stockItem(t, db, item)

	outward, err := NewOutwardRepository(db).Create(&models.FormOutward{
		VendorID: 5,
		Lines:    []models.FormOutwardLine{{ItemID: item.ID}},
	}, testScope)
	require.NoError(t, err)

	inward, err := NewInwardRepository(db).Create(&models.FormInward{
		Lines: []models.FormInwardLine{{
			ItemID:     item.ID,
			SourceType: models.SourceOutwardReturn,
			SourceID:   outward.ID,
		}},
	}, testScope)
	require.NoError(t, err)
	require.Equal(t, models.StateInQc, derivedState(t, db, item))

	approveLinesThroughQc(t, db, inward)
	require.Equal(t, models.StateInStock, derivedState(t, db, item))
}

func TestOutwardDoubleReturnRejected(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)
	stockItem(t, db, item)

	outward, err := NewOutwardRepository(db).Create(&models.FormOutward{
		VendorID: 5,
		Lines:    []models.FormOutwardLine{{ItemID: item.ID}},
	}, testScope)
	require.NoError(t, err)

	form := models.FormInward{Lines: []models.FormInwardLine{{
		ItemID:     item.ID,
		SourceType: models.SourceOutwardReturn,
		SourceID:   outward.ID,
	}}}
	_, err = NewInwardRepository(db).Create(&form, testScope)
	require.NoError(t, err)

	_, err = NewInwardRepository(db).Create(&form, testScope)
	require.Error(t, err)
	require.True(t, models.IsConflict(err))
	require.Contains(t, err.Error(), "already returned")
}

func TestOutwardCancelRestoresStock(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)
	stockItem(t, db, item)

	repo := NewOutwardRepository(db)
	outward, err := repo.Create(&models.FormOutward{
		VendorID: 5,
		Lines:    []models.FormOutwardLine{{ItemID: item.ID}},
	}, testScope)
	require.NoError(t, err)

	require.NoError(t, repo.Cancel(outward.ID, testScope))
	require.Equal(t, models.StateInStock, derivedState(t, db, item))

	var got models.Item
	require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
	require.Equal(t, models.HolderLocation, got.HolderType)
}

func TestOutwardCancelBlockedAfterReturn(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)
	stockItem(t, db, item)

	repo := NewOutwardRepository(db)
	outward, err := repo.Create(&models.FormOutward{
		VendorID: 5,
		Lines:    []models.FormOutwardLine{{ItemID: item.ID}},
	}, testScope)
	require.NoError(t, err)

	_, err = NewInwardRepository(db).Create(&models.FormInward{
		Lines: []models.FormInwardLine{{
			ItemID:     item.ID,
			SourceType: models.SourceOutwardReturn,
			SourceID:   outward.ID,
		}},
	}, testScope)
	require.NoError(t, err)

	err = repo.Cancel(outward.ID, testScope)
	require.Error(t, err)
	require.True(t, models.IsConflict(err))
}

func TestJobWorkCancelReleasesClaim(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)
	stockItem(t, db, item)

	repo := NewJobWorkRepository(db)
	jw, err := repo.Create(&models.FormJobWork{ItemID: item.ID, VendorID: 3}, testScope)
	require.NoError(t, err)
	require.Equal(t, models.StateInJobWork, derivedState(t, db, item))

	require.NoError(t, repo.Cancel(jw.ID, testScope))
	require.Equal(t, models.StateInStock, derivedState(t, db, item))
}
