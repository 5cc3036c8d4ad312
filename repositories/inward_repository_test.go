package repositories

import (
	"testing"

	"fiber-erp/models"

	"github.com/stretchr/testify/require"
)

// Scenario: an order fully inwarded for an item rejects a second inward for
// the same item.
func TestSecondInwardAgainstFullyInwardedOrderRejected(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	indent := createApprovedIndent(t, db, item)
	order := createApprovedOrder(t, db, indent)
	createOrderInward(t, db, order, item)

	_, err := NewInwardRepository(db).Create(&models.FormInward{
		Lines: []models.FormInwardLine{{
			ItemID:     item.ID,
			SourceType: models.SourceOrder,
			SourceID:   order.ID,
		}},
	}, testScope)
	require.Error(t, err)
	require.True(t, models.IsConflict(err))
	require.Contains(t, err.Error(), "already fully inwarded")
	require.Contains(t, err.Error(), item.ItemCode)
}

func TestInwardRejectsUnknownSourceType(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	_, err := NewInwardRepository(db).Create(&models.FormInward{
		Lines: []models.FormInwardLine{{
			ItemID:     item.ID,
			SourceType: "TRANSFER",
			SourceID:   1,
		}},
	}, testScope)
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestInwardRejectsItemNotOnOrder(t *testing.T) {
	db := setupTestDB(t)
	ordered := createTestItem(t, db)
	other := createTestItem(t, db)

	indent := createApprovedIndent(t, db, ordered)
	order := createApprovedOrder(t, db, indent)

	_, err := NewInwardRepository(db).Create(&models.FormInward{
		Lines: []models.FormInwardLine{{
			ItemID:     other.ID,
			SourceType: models.SourceOrder,
			SourceID:   order.ID,
		}},
	}, testScope)
	require.ErrorIs(t, err, models.ErrValidation)
	require.Contains(t, err.Error(), "not on order")
}

func TestInwardRejectsUnapprovedOrder(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	indent := createApprovedIndent(t, db, item)
	order, err := NewOrderRepository(db).Create(&models.FormOrder{
		VendorID: 1,
		Items:    []models.FormOrderItem{{IndentItemID: indent.Items[0].ID}},
	}, testScope)
	require.NoError(t, err)

	_, err = NewInwardRepository(db).Create(&models.FormInward{
		Lines: []models.FormInwardLine{{
			ItemID:     item.ID,
			SourceType: models.SourceOrder,
			SourceID:   order.ID,
		}},
	}, testScope)
	require.Error(t, err)
	require.True(t, models.IsConflict(err))
	require.Contains(t, err.Error(), order.OrderNo)
}

// The return inward of a job work flips the job work to COMPLETED.
func TestJobWorkReturnInwardCompletesJobWork(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)
	stockItem(t, db, item)

	jw, err := NewJobWorkRepository(db).Create(&models.FormJobWork{
		ItemID:   item.ID,
		VendorID: 3,
	}, testScope)
	require.NoError(t, err)
	require.Equal(t, models.StateInJobWork, derivedState(t, db, item))

	inward, err := NewInwardRepository(db).Create(&models.FormInward{
		Lines: []models.FormInwardLine{{
			ItemID:     item.ID,
			SourceType: models.SourceJobWork,
			SourceID:   jw.ID,
		}},
	}, testScope)
	require.NoError(t, err)
	require.Equal(t, models.StateInQc, derivedState(t, db, item))

	var got models.JobWork
	require.NoError(t, db.First(&got, "id = ?", jw.ID).Error)
	require.Equal(t, models.JobWorkStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	// Vendor propagated onto the inward header.
	require.NotNil(t, inward.VendorID)
	require.Equal(t, jw.VendorID, *inward.VendorID)

	approveLinesThroughQc(t, db, inward)
	require.Equal(t, models.StateInStock, derivedState(t, db, item))
}

func TestInwardUpdateUnwindsJobWorkCompletion(t *testing.T) {
	db := setupTestDB(t)
	jobWorkItem := createTestItem(t, db)
	orderedItem := createTestItem(t, db)
	stockItem(t, db, jobWorkItem)

	jw, err := NewJobWorkRepository(db).Create(&models.FormJobWork{
		ItemID:   jobWorkItem.ID,
		VendorID: 3,
	}, testScope)
	require.NoError(t, err)

	repo := NewInwardRepository(db)
	inward, err := repo.Create(&models.FormInward{
		Lines: []models.FormInwardLine{{
			ItemID:     jobWorkItem.ID,
			SourceType: models.SourceJobWork,
			SourceID:   jw.ID,
		}},
	}, testScope)
	require.NoError(t, err)

	// Replace the job-work line with an order line.
	indent := createApprovedIndent(t, db, orderedItem)
	order := createApprovedOrder(t, db, indent)

	_, err = repo.Update(inward.ID, &models.FormInward{
		Lines: []models.FormInwardLine{{
			ItemID:     orderedItem.ID,
			SourceType: models.SourceOrder,
			SourceID:   order.ID,
		}},
	}, testScope)
	require.NoError(t, err)

	// The job work is pending again and its item is back in stock.
	var got models.JobWork
	require.NoError(t, db.First(&got, "id = ?", jw.ID).Error)
	require.Equal(t, models.JobWorkStatusPending, got.Status)
	require.Nil(t, got.CompletedAt)
	require.Equal(t, models.StateInJobWork, derivedState(t, db, jobWorkItem))
	require.Equal(t, models.StateInQc, derivedState(t, db, orderedItem))
}

func TestInwardUpdateForbiddenOnceLineResolved(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	indent := createApprovedIndent(t, db, item)
	order := createApprovedOrder(t, db, indent)
	inward := createOrderInward(t, db, order, item)
	approveLinesThroughQc(t, db, inward)

	_, err := NewInwardRepository(db).Update(inward.ID, &models.FormInward{
		Lines: []models.FormInwardLine{{
			ItemID:     item.ID,
			SourceType: models.SourceOrder,
			SourceID:   order.ID,
		}},
	}, testScope)
	require.Error(t, err)
	require.True(t, models.IsConflict(err))
}

func TestInwardUpdateForbiddenWhileLineClaimedByQc(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	indent := createApprovedIndent(t, db, item)
	order := createApprovedOrder(t, db, indent)
	inward := createOrderInward(t, db, order, item)

	_, err := NewQcRepository(db).Create(&models.FormQcEntry{
		Items: []models.FormQcItemRef{{
			RefType: models.QcRefInwardLine,
			RefID:   inward.Lines[0].ID,
		}},
	}, testScope)
	require.NoError(t, err)

	_, err = NewInwardRepository(db).Update(inward.ID, &models.FormInward{
		Lines: []models.FormInwardLine{{
			ItemID:     item.ID,
			SourceType: models.SourceOrder,
			SourceID:   order.ID,
		}},
	}, testScope)
	require.Error(t, err)
	require.True(t, models.IsConflict(err))
	require.Contains(t, err.Error(), "QC")
}

func TestInwardCustodyFlipsToReceivingLocation(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	indent := createApprovedIndent(t, db, item)
	order := createApprovedOrder(t, db, indent)
	createOrderInward(t, db, order, item)

	var got models.Item
	require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
	require.Equal(t, models.HolderLocation, got.HolderType)
	require.NotNil(t, got.LocationID)
	require.Equal(t, testScope.LocationID, *got.LocationID)
}
