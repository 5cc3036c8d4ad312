package repositories

import (
	"testing"

	"fiber-erp/models"

	"github.com/stretchr/testify/require"
)

func TestMovementIssueFlipsCustodyImmediately(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)
	stockItem(t, db, item)

	mv, err := NewMovementRepository(db).Create(&models.FormMovement{
		Type:     models.MovementTypeIssue,
		ItemID:   item.ID,
		VendorID: 7,
	}, testScope)
	require.NoError(t, err)
	require.False(t, mv.QcPending)
	require.Equal(t, models.HolderLocation, mv.FromHolderType)
	require.Equal(t, models.HolderVendor, mv.ToHolderType)

	var got models.Item
	require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
	require.Equal(t, models.HolderVendor, got.HolderType)
	require.NotNil(t, got.VendorID)
	require.Equal(t, uint(7), *got.VendorID)

	require.Equal(t, models.StateOutward, derivedState(t, db, item))
}

// Stock held at one location cannot be issued by a caller scoped to another.
func TestMovementIssueRejectsForeignLocationScope(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)
	stockItem(t, db, item)

	foreign := Scope{UserID: 1, CompanyID: 1, LocationID: 9}
	_, err := NewMovementRepository(db).Create(&models.FormMovement{
		Type:     models.MovementTypeIssue,
		ItemID:   item.ID,
		VendorID: 7,
	}, foreign)
	require.Error(t, err)
	require.True(t, models.IsConflict(err))
	require.Contains(t, err.Error(), "location 1")

	// Custody untouched.
	var got models.Item
	require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
	require.Equal(t, models.HolderLocation, got.HolderType)
	require.NotNil(t, got.LocationID)
	require.Equal(t, uint(1), *got.LocationID)
}

func TestMovementIssueRequiresInStock(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)
	createApprovedIndent(t, db, item)

	_, err := NewMovementRepository(db).Create(&models.FormMovement{
		Type:     models.MovementTypeIssue,
		ItemID:   item.ID,
		VendorID: 7,
	}, testScope)
	require.Error(t, err)
	require.True(t, models.IsConflict(err))
	require.Contains(t, err.Error(), models.StateInIndent)
}

// A received item stays in the party's custody until QC approves it.
func TestMovementReceiveDefersCustodyUntilQc(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)
	stockItem(t, db, item)

	repo := NewMovementRepository(db)
	_, err := repo.Create(&models.FormMovement{
		Type:     models.MovementTypeIssue,
		ItemID:   item.ID,
		VendorID: 7,
	}, testScope)
	require.NoError(t, err)

	mv, err := repo.Create(&models.FormMovement{
		Type:     models.MovementTypeReceive,
		ItemID:   item.ID,
		VendorID: 7,
	}, testScope)
	require.NoError(t, err)
	require.True(t, mv.QcPending)
	require.Equal(t, models.StateInQc, derivedState(t, db, item))

	// Still with the vendor until the QC verdict.
	var got models.Item
	require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
	require.Equal(t, models.HolderVendor, got.HolderType)

	qcRepo := NewQcRepository(db)
	entry, err := qcRepo.Create(&models.FormQcEntry{
		Items: []models.FormQcItemRef{{RefType: models.QcRefMovement, RefID: mv.ID}},
	}, testScope)
	require.NoError(t, err)

	_, err = qcRepo.ResolveItem(entry.ID, entry.Items[0].ID, &models.FormQcResolution{
		Resolution: models.QcResolutionApproved,
	}, testScope)
	require.NoError(t, err)

	_, rejected, err := qcRepo.ApproveEntry(entry.ID, testScope)
	require.NoError(t, err)
	require.Empty(t, rejected)

	require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
	require.Equal(t, models.HolderLocation, got.HolderType)
	require.Equal(t, models.StateInStock, derivedState(t, db, item))
}

func TestMovementSystemReturnRequiresReason(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)
	stockItem(t, db, item)

	repo := NewMovementRepository(db)
	_, err := repo.Create(&models.FormMovement{
		Type:     models.MovementTypeIssue,
		ItemID:   item.ID,
		VendorID: 7,
	}, testScope)
	require.NoError(t, err)

	_, err = repo.Create(&models.FormMovement{
		Type:     models.MovementTypeSystemReturn,
		ItemID:   item.ID,
		VendorID: 7,
	}, testScope)
	require.ErrorIs(t, err, models.ErrValidation)

	mv, err := repo.Create(&models.FormMovement{
		Type:     models.MovementTypeSystemReturn,
		ItemID:   item.ID,
		VendorID: 7,
		Reason:   "reconciliation after audit",
	}, testScope)
	require.NoError(t, err)
	require.True(t, mv.QcPending)
}

// An item out on an outward document cannot come back through a movement.
func TestMovementReceiveRejectsOutwardDocumentItem(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)
	stockItem(t, db, item)

	_, err := NewOutwardRepository(db).Create(&models.FormOutward{
		VendorID: 5,
		Lines:    []models.FormOutwardLine{{ItemID: item.ID}},
	}, testScope)
	require.NoError(t, err)

	_, err = NewMovementRepository(db).Create(&models.FormMovement{
		Type:     models.MovementTypeReceive,
		ItemID:   item.ID,
		VendorID: 5,
	}, testScope)
	require.Error(t, err)
	require.True(t, models.IsConflict(err))
	require.Contains(t, err.Error(), "inward")
}

func TestMovementReceiveRequiresVendorHolder(t *testing.T) {
	db := setupTestDB(t)
	item := createTestItem(t, db)
	stockItem(t, db, item)

	_, err := NewMovementRepository(db).Create(&models.FormMovement{
		Type:     models.MovementTypeReceive,
		ItemID:   item.ID,
		VendorID: 7,
	}, testScope)
	require.ErrorIs(t, err, models.ErrValidation)
}
