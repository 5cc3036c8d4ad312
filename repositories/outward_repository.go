package repositories

import (
	"errors"
	"fmt"

	"fiber-erp/controllers/helpers"
	"fiber-erp/models"
	"fiber-erp/services"
	"fiber-erp/types"
	"fiber-erp/utils"

	"gorm.io/gorm"
)

type OutwardRepository struct {
	db *gorm.DB
}

func NewOutwardRepository(db *gorm.DB) *OutwardRepository {
	return &OutwardRepository{db: db}
}

// Create dispatches in-stock items to an external party. Custody flips to
// the party immediately; an outward means the truck has left.
func (r *OutwardRepository) Create(form *models.FormOutward, scope Scope) (*models.Outward, error) {
	seen := make(map[types.SnowflakeID]bool, len(form.Lines))
	itemIDs := make([]types.SnowflakeID, 0, len(form.Lines))
	for _, l := range form.Lines {
		if seen[l.ItemID] {
			return nil, fmt.Errorf("%w: duplicate item in outward", models.ErrValidation)
		}
		seen[l.ItemID] = true
		itemIDs = append(itemIDs, l.ItemID)
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

	outwardNo, err := utils.GenerateCode(tx, "OUT", scope.LocationID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	outward := models.Outward{
		OutwardNo:   outwardNo,
		VendorID:    form.VendorID,
		LocationID:  scope.LocationID,
		OutwardDate: form.OutwardDate,
		Purpose:     form.Purpose,
		Remarks:     form.Remarks,
		CreatedBy:   scope.UserID,
		UpdatedBy:   scope.UserID,
	}
	if err := tx.Create(&outward).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, l := range form.Lines {
		item, err := itemRepo.GetActiveByID(l.ItemID)
		if err != nil {
			tx.Rollback()
			return nil, err
		}

		state, err := stateRepo.GetState(item.ID, 0)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if state != models.StateInStock {
			tx.Rollback()
			return nil, models.NewStateConflict(item.ItemCode, state,
				"item %s is %s, only in-stock items can be outwarded", item.ItemCode, state)
		}

		line := models.OutwardLine{
			OutwardID: outward.ID,
			ItemID:    item.ID,
			Remarks:   l.Remarks,
			CreatedBy: scope.UserID,
			UpdatedBy: scope.UserID,
		}
		if err := tx.Create(&line).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		vendorID := form.VendorID
		if err := itemRepo.UpdateCustody(item, models.HolderVendor, nil, &vendorID, scope.UserID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := helpers.InsertTransactionHistory(tx, outward.OutwardNo, "CREATED", "OUTWARD", form.Remarks, scope.UserID); err != nil {
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
	return r.GetByID(outward.ID)
}

// Update edits header fields only. The item list is immutable; the custody
// flips already happened when the document was created.
func (r *OutwardRepository) Update(id types.SnowflakeID, form *models.FormOutward, scope Scope) (*models.Outward, error) {
	var outward models.Outward
	if err := r.db.First(&outward, "id = ?", id).Error; err != nil {
		return nil, err
	}

	outward.OutwardDate = form.OutwardDate
	outward.Purpose = form.Purpose
	outward.Remarks = form.Remarks
	outward.UpdatedBy = scope.UserID
	if err := r.db.Omit("Lines").Save(&outward).Error; err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// Cancel withdraws an outward nothing has returned against yet, putting
// every item back in stock at the dispatching location.
func (r *OutwardRepository) Cancel(id types.SnowflakeID, scope Scope) error {
	var current models.Outward
	if err := r.db.Preload("Lines").First(&current, "id = ?", id).Error; err != nil {
		return err
	}
	itemIDs := make([]types.SnowflakeID, 0, len(current.Lines))
	for _, l := range current.Lines {
		itemIDs = append(itemIDs, l.ItemID)
	}

	unlock := services.LockItems(itemIDs...)
	defer unlock()

	tx := r.db.Begin()
	if tx.Error != nil {
		return errors.New("failed to start transaction")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var outward models.Outward
	if err := tx.Preload("Lines").First(&outward, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return err
	}

	var returned int64
	err := tx.Model(&models.InwardLine{}).
		Where("source_type = ? AND source_id = ?", models.SourceOutwardReturn, outward.ID).
		Count(&returned).Error
	if err != nil {
		tx.Rollback()
		return err
	}
	if returned > 0 {
		tx.Rollback()
		return models.NewStateConflict(outward.OutwardNo, models.StateOutward,
			"outward %s has received returns and cannot be cancelled", outward.OutwardNo)
	}

	itemRepo := NewItemRepository(tx)
	for _, l := range outward.Lines {
		item, err := itemRepo.GetByID(l.ItemID)
		if err != nil {
			tx.Rollback()
			return err
		}
		locID := outward.LocationID
		if err := itemRepo.UpdateCustody(item, models.HolderLocation, &locID, nil, scope.UserID); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Model(&models.OutwardLine{}).Where("outward_id = ?", outward.ID).
		Update("deleted_by", scope.UserID).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("outward_id = ?", outward.ID).Delete(&models.OutwardLine{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Model(&models.Outward{}).Where("id = ?", outward.ID).
		Update("deleted_by", scope.UserID).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&outward).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := helpers.InsertTransactionHistory(tx, outward.OutwardNo, "CANCELLED", "OUTWARD", "", scope.UserID); err != nil {
		tx.Rollback()
		return err
	}
	if err := NewItemStateRepository(tx).RefreshCachedState(itemIDs...); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (r *OutwardRepository) GetByID(id types.SnowflakeID) (*models.Outward, error) {
	var outward models.Outward
	if err := r.db.Preload("Lines").First(&outward, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &outward, nil
}

func (r *OutwardRepository) List() ([]models.Outward, error) {
	var outwards []models.Outward
	if err := r.db.Preload("Lines").Order("created_at desc").Find(&outwards).Error; err != nil {
		return nil, err
	}
	return outwards, nil
}
