package repositories

import (
	"errors"
	"fmt"

	"fiber-erp/controllers/helpers"
	"fiber-erp/models"
	"fiber-erp/types"

	"gorm.io/gorm"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// UpdateCustody is the single place item holder fields change. The write is
// guarded on the lock_version the caller read; a stale version means another
// request got there first and the caller must re-validate.
func (r *ItemRepository) UpdateCustody(item *models.Item, holderType string, locationID, vendorID *uint, actor int) error {
	switch holderType {
	case models.HolderLocation:
		if locationID == nil || vendorID != nil {
			return fmt.Errorf("%w: LOCATION holder needs a location id and no vendor id", models.ErrValidation)
		}
	case models.HolderVendor:
		if vendorID == nil || locationID != nil {
			return fmt.Errorf("%w: VENDOR holder needs a vendor id and no location id", models.ErrValidation)
		}
	case models.HolderNone:
		if locationID != nil || vendorID != nil {
			return fmt.Errorf("%w: NONE holder cannot carry a location or vendor id", models.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown holder type %q", models.ErrValidation, holderType)
	}

	res := r.db.Model(&models.Item{}).
		Where("id = ? AND lock_version = ?", item.ID, item.LockVersion).
		Updates(map[string]interface{}{
			"holder_type":  holderType,
			"location_id":  locationID,
			"vendor_id":    vendorID,
			"lock_version": item.LockVersion + 1,
			"updated_by":   actor,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrVersionConflict
	}

	item.HolderType = holderType
	item.LocationID = locationID
	item.VendorID = vendorID
	item.LockVersion++
	return nil
}

func (r *ItemRepository) GetByID(id types.SnowflakeID) (*models.Item, error) {
	var item models.Item
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) GetActiveByID(id types.SnowflakeID) (*models.Item, error) {
	item, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, fmt.Errorf("%w: item %s is deactivated", models.ErrValidation, item.ItemCode)
	}
	return item, nil
}

func (r *ItemRepository) Create(form *models.FormItem, scope Scope) (*models.Item, error) {
	item := models.Item{
		ItemCode:     form.ItemCode,
		Name:         form.Name,
		CategoryID:   form.CategoryID,
		UomID:        form.UomID,
		ProcessState: models.StateNotInStock,
		HolderType:   models.HolderNone,
		IsActive:     true,
		CreatedBy:    scope.UserID,
		UpdatedBy:    scope.UserID,
	}
	if err := r.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Rename changes the display name only. ItemCode is the immutable identity;
// each rename bumps Revision and leaves an audit row.
func (r *ItemRepository) Rename(id types.SnowflakeID, name string, scope Scope) (*models.Item, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", models.ErrValidation)
	}

	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, errors.New("failed to start transaction")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var item models.Item
	if err := tx.First(&item, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if name == item.Name {
		tx.Rollback()
		return &item, nil
	}

	detail := fmt.Sprintf("renamed from %q to %q (rev %d -> %d)", item.Name, name, item.Revision, item.Revision+1)
	item.Name = name
	item.Revision++
	item.UpdatedBy = scope.UserID

	if err := tx.Save(&item).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := helpers.InsertTransactionHistory(tx, item.ItemCode, "RENAMED", "ITEM", detail, scope.UserID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Deactivate soft-disables the item. Items are never hard-deleted, and an
// item inside an active process cannot be retired out from under it.
func (r *ItemRepository) Deactivate(id types.SnowflakeID, scope Scope) error {
	item, err := r.GetByID(id)
	if err != nil {
		return err
	}

	state, err := NewItemStateRepository(r.db).GetState(id, 0)
	if err != nil {
		return err
	}
	if state != models.StateNotInStock && state != models.StateInStock {
		return models.NewStateConflict(item.ItemCode, state,
			"item %s cannot be deactivated while %s", item.ItemCode, state)
	}

	return r.db.Model(&models.Item{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "updated_by": scope.UserID}).Error
}

// ListByState returns items whose derived state matches, for selection-list
// UIs. The filter derives per item rather than trusting the cache.
func (r *ItemRepository) ListByState(state string) ([]models.Item, error) {
	var items []models.Item
	if err := r.db.Where("is_active = ?", true).Order("item_code").Find(&items).Error; err != nil {
		return nil, err
	}
	if state == "" {
		return items, nil
	}

	stateRepo := NewItemStateRepository(r.db)
	filtered := make([]models.Item, 0, len(items))
	for _, item := range items {
		s, err := stateRepo.GetState(item.ID, 0)
		if err != nil {
			return nil, err
		}
		if s == state {
			item.ProcessState = s
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}
