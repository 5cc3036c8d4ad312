package repositories

import (
	"testing"
	"time"

	"fiber-erp/models"
	"fiber-erp/services"

	"github.com/stretchr/testify/require"
)

// Scenario: an entry with one approved and one unresolved item cannot be
// approved until the second item is resolved.
func TestQcApproveBlockedWhileItemsUnresolved(t *testing.T) {
	db := setupTestDB(t)
	first := createTestItem(t, db)
	second := createTestItem(t, db)

	indent := createApprovedIndent(t, db, first, second)
	order := createApprovedOrder(t, db, indent)
	inward := createOrderInward(t, db, order, first, second)

	repo := NewQcRepository(db)
	entry, err := repo.Create(&models.FormQcEntry{
		Items: []models.FormQcItemRef{
			{RefType: models.QcRefInwardLine, RefID: inward.Lines[0].ID},
			{RefType: models.QcRefInwardLine, RefID: inward.Lines[1].ID},
		},
	}, testScope)
	require.NoError(t, err)

	_, err = repo.ResolveItem(entry.ID, entry.Items[0].ID, &models.FormQcResolution{
		Resolution: models.QcResolutionApproved,
	}, testScope)
	require.NoError(t, err)

	_, _, err = repo.ApproveEntry(entry.ID, testScope)
	require.Error(t, err)
	require.True(t, models.IsConflict(err))
	require.Contains(t, err.Error(), "unresolved")

	// Nothing was partially applied.
	var line models.InwardLine
	require.NoError(t, db.First(&line, "id = ?", inward.Lines[0].ID).Error)
	require.True(t, line.QcPending)
	require.Equal(t, models.StateInQc, derivedState(t, db, first))
	require.Equal(t, models.StateInQc, derivedState(t, db, second))

	// Resolving the second item unblocks the entry.
	_, err = repo.ResolveItem(entry.ID, entry.Items[1].ID, &models.FormQcResolution{
		Resolution: models.QcResolutionApproved,
	}, testScope)
	require.NoError(t, err)

	_, rejected, err := repo.ApproveEntry(entry.ID, testScope)
	require.NoError(t, err)
	require.Empty(t, rejected)
	require.Equal(t, models.StateInStock, derivedState(t, db, first))
	require.Equal(t, models.StateInStock, derivedState(t, db, second))
}

// A rejected item still lands in stock at the QC location; only the line is
// flagged. Rejected stock is physically on the shelf.
func TestQcRejectedItemStillLandsInStockFlagged(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	indent := createApprovedIndent(t, db, item)
	order := createApprovedOrder(t, db, indent)
	inward := createOrderInward(t, db, order, item)

	repo := NewQcRepository(db)
	entry, err := repo.Create(&models.FormQcEntry{
		Items: []models.FormQcItemRef{
			{RefType: models.QcRefInwardLine, RefID: inward.Lines[0].ID},
		},
	}, testScope)
	require.NoError(t, err)

	_, err = repo.ResolveItem(entry.ID, entry.Items[0].ID, &models.FormQcResolution{
		Resolution: models.QcResolutionRejected,
		Remarks:    "surface damage",
	}, testScope)
	require.NoError(t, err)

	_, rejected, err := repo.ApproveEntry(entry.ID, testScope)
	require.NoError(t, err)
	require.Equal(t, []string{item.ItemCode}, rejected)

	var line models.InwardLine
	require.NoError(t, db.First(&line, "id = ?", inward.Lines[0].ID).Error)
	require.False(t, line.QcPending)
	require.False(t, line.QcApproved)
	require.True(t, line.QcRejected())
	require.Equal(t, "surface damage", line.QcRemarks)

	require.Equal(t, models.StateInStock, derivedState(t, db, item))

	var got models.Item
	require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
	require.Equal(t, models.HolderLocation, got.HolderType)
	require.NotNil(t, got.LocationID)
	require.Equal(t, testScope.LocationID, *got.LocationID)
}

// Entry-level reject closes everything as rejected, unresolved included.
func TestQcEntryRejectAppliesToAllItems(t *testing.T) {
	db := setupTestDB(t)
	first := createTestItem(t, db)
	second := createTestItem(t, db)

	indent := createApprovedIndent(t, db, first, second)
	order := createApprovedOrder(t, db, indent)
	inward := createOrderInward(t, db, order, first, second)

	repo := NewQcRepository(db)
	entry, err := repo.Create(&models.FormQcEntry{
		Items: []models.FormQcItemRef{
			{RefType: models.QcRefInwardLine, RefID: inward.Lines[0].ID},
			{RefType: models.QcRefInwardLine, RefID: inward.Lines[1].ID},
		},
	}, testScope)
	require.NoError(t, err)

	entry, rejected, err := repo.RejectEntry(entry.ID, "whole batch failed", testScope)
	require.NoError(t, err)
	require.Len(t, rejected, 2)
	require.Equal(t, models.QcStatusRejected, entry.Status)

	for _, lineID := range []interface{}{inward.Lines[0].ID, inward.Lines[1].ID} {
		var line models.InwardLine
		require.NoError(t, db.First(&line, "id = ?", lineID).Error)
		require.True(t, line.QcRejected())
	}
	require.Equal(t, models.StateInStock, derivedState(t, db, first))
	require.Equal(t, models.StateInStock, derivedState(t, db, second))
}

func TestQcResolveOnlyWhilePending(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	indent := createApprovedIndent(t, db, item)
	order := createApprovedOrder(t, db, indent)
	inward := createOrderInward(t, db, order, item)
	entry := approveLinesThroughQc(t, db, inward)

	_, err := NewQcRepository(db).ResolveItem(entry.ID, entry.Items[0].ID, &models.FormQcResolution{
		Resolution: models.QcResolutionRejected,
	}, testScope)
	require.Error(t, err)
	require.True(t, models.IsConflict(err))
	require.Contains(t, err.Error(), entry.QcNo)
}

// A resolve holds the item lock a closing entry holds too, so a verdict
// cannot land on an entry that is being closed underneath it.
func TestQcResolveWaitsForItemLock(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	indent := createApprovedIndent(t, db, item)
	order := createApprovedOrder(t, db, indent)
	inward := createOrderInward(t, db, order, item)

	repo := NewQcRepository(db)
	entry, err := repo.Create(&models.FormQcEntry{
		Items: []models.FormQcItemRef{
			{RefType: models.QcRefInwardLine, RefID: inward.Lines[0].ID},
		},
	}, testScope)
	require.NoError(t, err)

	unlock := services.LockItems(item.ID)

	done := make(chan error, 1)
	go func() {
		_, err := repo.ResolveItem(entry.ID, entry.Items[0].ID, &models.FormQcResolution{
			Resolution: models.QcResolutionApproved,
		}, testScope)
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("resolve completed while the item lock was held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	require.NoError(t, <-done)
}

func TestQcLineCannotBeClaimedTwice(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	indent := createApprovedIndent(t, db, item)
	order := createApprovedOrder(t, db, indent)
	inward := createOrderInward(t, db, order, item)

	repo := NewQcRepository(db)
	ref := models.FormQcItemRef{RefType: models.QcRefInwardLine, RefID: inward.Lines[0].ID}

	_, err := repo.Create(&models.FormQcEntry{Items: []models.FormQcItemRef{ref}}, testScope)
	require.NoError(t, err)

	_, err = repo.Create(&models.FormQcEntry{Items: []models.FormQcItemRef{ref}}, testScope)
	require.Error(t, err)
	require.True(t, models.IsConflict(err))
}

func TestQcEntryCannotBeClosedTwice(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)

	indent := createApprovedIndent(t, db, item)
	order := createApprovedOrder(t, db, indent)
	inward := createOrderInward(t, db, order, item)
	entry := approveLinesThroughQc(t, db, inward)

	_, _, err := NewQcRepository(db).ApproveEntry(entry.ID, testScope)
	require.Error(t, err)
	require.True(t, models.IsConflict(err))
}
