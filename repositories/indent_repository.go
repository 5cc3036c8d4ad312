package repositories

import (
	"errors"
	"fmt"
	"time"

	"fiber-erp/controllers/helpers"
	"fiber-erp/models"
	"fiber-erp/services"
	"fiber-erp/types"
	"fiber-erp/utils"

	"gorm.io/gorm"
)

type IndentRepository struct {
	db *gorm.DB
}

func NewIndentRepository(db *gorm.DB) *IndentRepository {
	return &IndentRepository{db: db}
}

func collectIndentItemIDs(items []models.FormIndentItem) ([]types.SnowflakeID, error) {
	seen := make(map[types.SnowflakeID]bool, len(items))
	ids := make([]types.SnowflakeID, 0, len(items))
	for _, it := range items {
		if seen[it.ItemID] {
			return nil, fmt.Errorf("%w: duplicate item in indent", models.ErrValidation)
		}
		seen[it.ItemID] = true
		ids = append(ids, it.ItemID)
	}
	return ids, nil
}

func (r *IndentRepository) Create(form *models.FormIndent, scope Scope) (*models.Indent, error) {
	itemIDs, err := collectIndentItemIDs(form.Items)
	if err != nil {
		return nil, err
	}

	unlock := services.LockItems(itemIDs...)
	defer unlock()

	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("failed to start transaction")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	itemRepo := NewItemRepository(tx)
	stateRepo := NewItemStateRepository(tx)

	for _, id := range itemIDs {
		item, err := itemRepo.GetActiveByID(id)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		ok, state, err := stateRepo.CanAddToIndent(id, 0)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if !ok {
			tx.Rollback()
			return nil, models.NewStateConflict(item.ItemCode, state,
				"item %s is already %s and cannot be indented", item.ItemCode, state)
		}
	}

	indentNo, err := utils.GenerateCode(tx, "IND", scope.LocationID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	indent := models.Indent{
		IndentNo:    indentNo,
		Status:      models.IndentStatusPending,
		LocationID:  scope.LocationID,
		Remarks:     form.Remarks,
		RequestedBy: scope.UserID,
		CreatedBy:   scope.UserID,
		UpdatedBy:   scope.UserID,
	}
	for _, it := range form.Items {
		indent.Items = append(indent.Items, models.IndentItem{
			ItemID:    it.ItemID,
			Purpose:   it.Purpose,
			Remarks:   it.Remarks,
			CreatedBy: scope.UserID,
			UpdatedBy: scope.UserID,
		})
	}

	if err := tx.Create(&indent).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := helpers.InsertTransactionHistory(tx, indent.IndentNo, "CREATED", "INDENT", form.Remarks, scope.UserID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := stateRepo.RefreshCachedState(itemIDs...); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &indent, nil
}

// Update replaces the item list of a pending indent. Approved and rejected
// indents are frozen.
func (r *IndentRepository) Update(id types.SnowflakeID, form *models.FormIndent, scope Scope) (*models.Indent, error) {
	itemIDs, err := collectIndentItemIDs(form.Items)
	if err != nil {
		return nil, err
	}

	var current models.Indent
	if err := r.db.Preload("Items").First(&current, "id = ?", id).Error; err != nil {
		return nil, err
	}

	lockIDs := append([]types.SnowflakeID{}, itemIDs...)
	for _, it := range current.Items {
		lockIDs = append(lockIDs, it.ItemID)
	}
	unlock := services.LockItems(lockIDs...)
	defer unlock()

	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("failed to start transaction")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var indent models.Indent
	if err := tx.Preload("Items").First(&indent, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if indent.Status != models.IndentStatusPending {
		tx.Rollback()
		return nil, models.NewStateConflict(indent.IndentNo, indent.Status,
			"only pending indents can be edited, indent %s is %s", indent.IndentNo, indent.Status)
	}

	// Drop the old lines first so the state probes only see the new set.
	if err := tx.Model(&models.IndentItem{}).Where("indent_id = ?", indent.ID).
		Update("deleted_by", scope.UserID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Where("indent_id = ?", indent.ID).Delete(&models.IndentItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	itemRepo := NewItemRepository(tx)
	stateRepo := NewItemStateRepository(tx)

	for _, itemID := range itemIDs {
		item, err := itemRepo.GetActiveByID(itemID)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		ok, state, err := stateRepo.CanAddToIndent(itemID, indent.ID)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if !ok {
			tx.Rollback()
			return nil, models.NewStateConflict(item.ItemCode, state,
				"item %s is already %s and cannot be indented", item.ItemCode, state)
		}
	}

	for _, it := range form.Items {
		line := models.IndentItem{
			IndentID:  indent.ID,
			ItemID:    it.ItemID,
			Purpose:   it.Purpose,
			Remarks:   it.Remarks,
			CreatedBy: scope.UserID,
			UpdatedBy: scope.UserID,
		}
		if err := tx.Create(&line).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	indent.Remarks = form.Remarks
	indent.UpdatedBy = scope.UserID
	if err := tx.Omit("Items").Save(&indent).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := helpers.InsertTransactionHistory(tx, indent.IndentNo, "UPDATED", "INDENT", form.Remarks, scope.UserID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := stateRepo.RefreshCachedState(lockIDs...); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *IndentRepository) Approve(id types.SnowflakeID, scope Scope) (*models.Indent, error) {
	return r.transition(id, scope, func(tx *gorm.DB, indent *models.Indent) error {
		if indent.Status != models.IndentStatusPending {
			return models.NewStateConflict(indent.IndentNo, indent.Status,
				"only pending indents can be approved, indent %s is %s", indent.IndentNo, indent.Status)
		}
		now := time.Now()
		indent.Status = models.IndentStatusApproved
		indent.ApprovedBy = &scope.UserID
		indent.ApprovedAt = &now
		return helpers.InsertTransactionHistory(tx, indent.IndentNo, "APPROVED", "INDENT", "", scope.UserID)
	})
}

func (r *IndentRepository) Reject(id types.SnowflakeID, reason string, scope Scope) (*models.Indent, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", models.ErrValidation)
	}
	return r.transition(id, scope, func(tx *gorm.DB, indent *models.Indent) error {
		if indent.Status != models.IndentStatusPending {
			return models.NewStateConflict(indent.IndentNo, indent.Status,
				"only pending indents can be rejected, indent %s is %s", indent.IndentNo, indent.Status)
		}
		now := time.Now()
		indent.Status = models.IndentStatusRejected
		indent.RejectedBy = &scope.UserID
		indent.RejectedAt = &now
		indent.RejectionReason = reason
		return helpers.InsertTransactionHistory(tx, indent.IndentNo, "REJECTED", "INDENT", reason, scope.UserID)
	})
}

// Revert pulls an approved indent back to pending. Blocked once any of its
// items has been consumed by an order; the order would be left dangling.
func (r *IndentRepository) Revert(id types.SnowflakeID, scope Scope) (*models.Indent, error) {
	return r.transition(id, scope, func(tx *gorm.DB, indent *models.Indent) error {
		if indent.Status != models.IndentStatusApproved {
			return models.NewStateConflict(indent.IndentNo, indent.Status,
				"only approved indents can be reverted, indent %s is %s", indent.IndentNo, indent.Status)
		}

		var consumed int64
		err := tx.Model(&models.PurchaseOrderItem{}).
			Joins("JOIN indent_items ON indent_items.id = purchase_order_items.indent_item_id").
			Joins("JOIN purchase_orders ON purchase_orders.id = purchase_order_items.order_id").
			Where("indent_items.indent_id = ? AND indent_items.deleted_at IS NULL AND purchase_orders.deleted_at IS NULL", indent.ID).
			Count(&consumed).Error
		if err != nil {
			return err
		}
		if consumed > 0 {
			return models.NewStateConflict(indent.IndentNo, indent.Status,
				"indent %s has items consumed by a purchase order and cannot be reverted", indent.IndentNo)
		}

		indent.Status = models.IndentStatusPending
		indent.ApprovedBy = nil
		indent.ApprovedAt = nil
		return helpers.InsertTransactionHistory(tx, indent.IndentNo, "REVERTED", "INDENT", "", scope.UserID)
	})
}

// transition runs a status change under the item locks of the indent's lines
// and refreshes their cached states afterwards.
func (r *IndentRepository) transition(id types.SnowflakeID, scope Scope, apply func(tx *gorm.DB, indent *models.Indent) error) (*models.Indent, error) {
	var current models.Indent
	if err := r.db.Preload("Items").First(&current, "id = ?", id).Error; err != nil {
		return nil, err
	}

	itemIDs := make([]types.SnowflakeID, 0, len(current.Items))
	for _, it := range current.Items {
		itemIDs = append(itemIDs, it.ItemID)
	}
	unlock := services.LockItems(itemIDs...)
	defer unlock()

	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("failed to start transaction")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var indent models.Indent
	if err := tx.Preload("Items").First(&indent, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := apply(tx, &indent); err != nil {
		tx.Rollback()
		return nil, err
	}

	indent.UpdatedBy = scope.UserID
	if err := tx.Omit("Items").Save(&indent).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := NewItemStateRepository(tx).RefreshCachedState(itemIDs...); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &indent, nil
}

func (r *IndentRepository) GetByID(id types.SnowflakeID) (*models.Indent, error) {
	var indent models.Indent
	if err := r.db.Preload("Items").First(&indent, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &indent, nil
}

func (r *IndentRepository) List() ([]models.Indent, error) {
	var indents []models.Indent
	if err := r.db.Preload("Items").Order("created_at desc").Find(&indents).Error; err != nil {
		return nil, err
	}
	return indents, nil
}
