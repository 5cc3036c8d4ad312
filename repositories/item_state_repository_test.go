package repositories

import (
	"testing"

	"fiber-erp/models"

	"github.com/stretchr/testify/require"
)

// Walks one item through the whole procurement loop and checks the derived
// state after every step.
func TestStateDerivationThroughProcurementLoop(t *testing.T) {
	db := setupTestDB(t)

	item := createTestItem(t, db)
	require.Equal(t, models.StateNotInStock, derivedState(t, db, item))

	indentRepo := NewIndentRepository(db)
	indent, err := indentRepo.Create(&models.FormIndent{
		Items: []models.FormIndentItem{{ItemID: item.ID, Purpose: "NEW"}},
	}, testScope)
	require.NoError(t, err)
	require.Equal(t, models.StateInIndent, derivedState(t, db, item))

	indent, err = indentRepo.Approve(indent.ID, testScope)
	require.NoError(t, err)
	require.Equal(t, models.StateInIndent, derivedState(t, db, item))

	order := createApprovedOrder(t, db, indent)
	require.Equal(t, models.StateInOrder, derivedState(t, db, item))

	inward := createOrderInward(t, db, order, item)
	require.Equal(t, models.StateInQc, derivedState(t, db, item))

	var line models.InwardLine
	require.NoError(t, db.First(&line, "inward_id = ?", inward.ID).Error)
	require.True(t, line.QcPending)

	entry := approveLinesThroughQc(t, db, inward)
	require.Equal(t, models.StateInStock, derivedState(t, db, item))

	require.NoError(t, db.First(&line, "id = ?", line.ID).Error)
	require.False(t, line.QcPending)
	require.True(t, line.QcApproved)

	// In stock at the QC entry's location.
	var got models.Item
	require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
	require.Equal(t, models.HolderLocation, got.HolderType)
	require.NotNil(t, got.LocationID)
	require.Equal(t, entry.LocationID, *got.LocationID)
	require.Nil(t, got.VendorID)
}

func TestGetStateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)
	createApprovedIndent(t, db, item)

	repo := NewItemStateRepository(db)
	first, err := repo.GetState(item.ID, 0)
	require.NoError(t, err)
	second, err := repo.GetState(item.ID, 0)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestCachedStateMatchesDerived(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	check := func() {
		var got models.Item
		require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
		require.Equal(t, derivedState(t, db, item), got.ProcessState)
	}

	check()
	indent := createApprovedIndent(t, db, item)
	check()
	order := createApprovedOrder(t, db, indent)
	check()
	inward := createOrderInward(t, db, order, item)
	check()
	approveLinesThroughQc(t, db, inward)
	check()
}

func TestHolderConsistencyAfterEveryStep(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	check := func() {
		var got models.Item
		require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
		require.True(t, got.HolderConsistent(), "holder %s loc %v vendor %v", got.HolderType, got.LocationID, got.VendorID)
	}

	check()
	stockItem(t, db, item)
	check()

	outward, err := NewOutwardRepository(db).Create(&models.FormOutward{
		VendorID: 2,
		Lines:    []models.FormOutwardLine{{ItemID: item.ID}},
	}, testScope)
	require.NoError(t, err)
	check()

	form := models.FormInward{Lines: []models.FormInwardLine{{
		ItemID:     item.ID,
		SourceType: models.SourceOutwardReturn,
		SourceID:   outward.ID,
	}}}
	inward, err := NewInwardRepository(db).Create(&form, testScope)
	require.NoError(t, err)
	check()

	approveLinesThroughQc(t, db, inward)
	check()
	require.Equal(t, models.StateInStock, derivedState(t, db, item))
}

// Scenario: an item claimed by one pending indent cannot go into another,
// and the conflict names the current state.
func TestItemInPendingIndentCannotBeIndentedAgain(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	repo := NewIndentRepository(db)
	_, err := repo.Create(&models.FormIndent{
		Items: []models.FormIndentItem{{ItemID: item.ID}},
	}, testScope)
	require.NoError(t, err)

	_, err = repo.Create(&models.FormIndent{
		Items: []models.FormIndentItem{{ItemID: item.ID}},
	}, testScope)
	require.Error(t, err)
	require.True(t, models.IsConflict(err))
	require.Contains(t, err.Error(), models.StateInIndent)
	require.Contains(t, err.Error(), item.ItemCode)
}

func TestCanAddToIndentExcludesOwnClaim(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	indent, err := NewIndentRepository(db).Create(&models.FormIndent{
		Items: []models.FormIndentItem{{ItemID: item.ID}},
	}, testScope)
	require.NoError(t, err)

	stateRepo := NewItemStateRepository(db)

	ok, state, err := stateRepo.CanAddToIndent(item.ID, 0)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, models.StateInIndent, state)

	// Excluding the indent's own claim makes the item free again.
	ok, state, err = stateRepo.CanAddToIndent(item.ID, indent.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, models.StateNotInStock, state)
}

func TestRejectedIndentReleasesClaim(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	repo := NewIndentRepository(db)
	indent, err := repo.Create(&models.FormIndent{
		Items: []models.FormIndentItem{{ItemID: item.ID}},
	}, testScope)
	require.NoError(t, err)

	_, err = repo.Reject(indent.ID, "not needed this quarter", testScope)
	require.NoError(t, err)

	require.Equal(t, models.StateNotInStock, derivedState(t, db, item))

	// The item can be indented again now.
	_, err = repo.Create(&models.FormIndent{
		Items: []models.FormIndentItem{{ItemID: item.ID}},
	}, testScope)
	require.NoError(t, err)
}

func TestRevertApprovedIndentBlockedOnceConsumed(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	indent := createApprovedIndent(t, db, item)
	createApprovedOrder(t, db, indent)

	_, err := NewIndentRepository(db).Revert(indent.ID, testScope)
	require.Error(t, err)
	require.True(t, models.IsConflict(err))
	require.Contains(t, err.Error(), indent.IndentNo)
}

func TestRevertApprovedIndentWithoutOrder(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	indent := createApprovedIndent(t, db, item)

	reverted, err := NewIndentRepository(db).Revert(indent.ID, testScope)
	require.NoError(t, err)
	require.Equal(t, models.IndentStatusPending, reverted.Status)
	require.Nil(t, reverted.ApprovedBy)
	require.Equal(t, models.StateInIndent, derivedState(t, db, item))
}

func TestOrderConsumingSameIndentItemTwiceRejected(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	indent := createApprovedIndent(t, db, item)
	createApprovedOrder(t, db, indent)

	_, err := NewOrderRepository(db).Create(&models.FormOrder{
		VendorID: 1,
		Items:    []models.FormOrderItem{{IndentItemID: indent.Items[0].ID}},
	}, testScope)
	require.Error(t, err)
	require.True(t, models.IsConflict(err))
	require.Contains(t, err.Error(), item.ItemCode)
}

func TestInStockItemAllowedInReplacementIndent(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)
	stockItem(t, db, item)

	_, err := NewIndentRepository(db).Create(&models.FormIndent{
		Items: []models.FormIndentItem{{ItemID: item.ID, Purpose: "REPLACEMENT"}},
	}, testScope)
	require.NoError(t, err)
	require.Equal(t, models.StateInIndent, derivedState(t, db, item))
}
