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

// MovementRepository records custody transfers that happen outside the
// document workflows: issuing an item to a party directly, and receiving
// one back. An ISSUE flips custody right away. RECEIVE and SYSTEM_RETURN
// only stamp the movement qc-pending; custody follows once a QC entry
// approves it, same as the inward path.
type MovementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

func (r *MovementRepository) Create(form *models.FormMovement, scope Scope) (*models.Movement, error) {
	switch form.Type {
	case models.MovementTypeIssue, models.MovementTypeReceive, models.MovementTypeSystemReturn:
	default:
		return nil, fmt.Errorf("%w: unknown movement type %q", models.ErrValidation, form.Type)
	}
	if form.VendorID == 0 {
		return nil, fmt.Errorf("%w: vendor is required", models.ErrValidation)
	}
	if form.Type == models.MovementTypeSystemReturn && form.Reason == "" {
		return nil, fmt.Errorf("%w: a system return must carry a reason", models.ErrValidation)
	}

	unlock := services.LockItems(form.ItemID)
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

	item, err := itemRepo.GetActiveByID(form.ItemID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	mv := models.Movement{
		Type:           form.Type,
		ItemID:         item.ID,
		FromHolderType: item.HolderType,
		FromLocationID: item.LocationID,
		FromVendorID:   item.VendorID,
		Reason:         form.Reason,
		CreatedBy:      scope.UserID,
		UpdatedBy:      scope.UserID,
	}

	switch form.Type {
	case models.MovementTypeIssue:
		state, err := stateRepo.GetState(item.ID, 0)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if state != models.StateInStock {
			tx.Rollback()
			return nil, models.NewStateConflict(item.ItemCode, state,
				"item %s is %s, only in-stock items can be issued", item.ItemCode, state)
		}
		// Stock can only be issued by the location that holds it.
		if item.LocationID == nil || *item.LocationID != scope.LocationID {
			var held uint
			if item.LocationID != nil {
				held = *item.LocationID
			}
			tx.Rollback()
			return nil, models.NewStateConflict(item.ItemCode, state,
				"item %s is held at location %d, not the issuing location %d", item.ItemCode, held, scope.LocationID)
		}

		vendorID := form.VendorID
		mv.ToHolderType = models.HolderVendor
		mv.ToVendorID = &vendorID
		mv.QcPending = false

		if err := itemRepo.UpdateCustody(item, models.HolderVendor, nil, &vendorID, scope.UserID); err != nil {
			tx.Rollback()
			return nil, err
		}

	case models.MovementTypeReceive, models.MovementTypeSystemReturn:
		if item.HolderType != models.HolderVendor {
			tx.Rollback()
			return nil, fmt.Errorf("%w: item %s is not held by an external party", models.ErrValidation, item.ItemCode)
		}
		if item.VendorID == nil || *item.VendorID != form.VendorID {
			tx.Rollback()
			return nil, fmt.Errorf("%w: item %s is not held by that vendor", models.ErrValidation, item.ItemCode)
		}

		// Items sent out on an outward document come back through an
		// OUTWARD_RETURN inward, never through a movement.
		var onOutward int64
		err := tx.Model(&models.OutwardLine{}).
			Joins("JOIN outwards ON outwards.id = outward_lines.outward_id").
			Where("outward_lines.item_id = ? AND outwards.deleted_at IS NULL", item.ID).
			Where(`NOT EXISTS (
				SELECT 1 FROM inward_lines il
				WHERE il.item_id = outward_lines.item_id
				  AND il.source_type = ? AND il.source_id = outward_lines.outward_id
				  AND il.deleted_at IS NULL)`, models.SourceOutwardReturn).
			Count(&onOutward).Error
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if onOutward > 0 {
			tx.Rollback()
			return nil, models.NewStateConflict(item.ItemCode, models.StateOutward,
				"item %s is out on an outward document and must be returned through an inward", item.ItemCode)
		}

		locID := scope.LocationID
		mv.ToHolderType = models.HolderLocation
		mv.ToLocationID = &locID
		mv.QcPending = true
		// Custody stays with the party until QC approves the return.
	}

	movementNo, err := utils.GenerateCode(tx, "MOV", scope.LocationID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	mv.MovementNo = movementNo

	if err := tx.Create(&mv).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := helpers.InsertTransactionHistory(tx, mv.MovementNo, form.Type, "MOVEMENT", form.Reason, scope.UserID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := stateRepo.RefreshCachedState(item.ID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &mv, nil
}

func (r *MovementRepository) GetByID(id types.SnowflakeID) (*models.Movement, error) {
	var mv models.Movement
	if err := r.db.First(&mv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &mv, nil
}

func (r *MovementRepository) List() ([]models.Movement, error) {
	var mvs []models.Movement
	if err := r.db.Order("created_at desc").Find(&mvs).Error; err != nil {
		return nil, err
	}
	return mvs, nil
}
