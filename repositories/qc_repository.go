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

type QcRepository struct {
	db *gorm.DB
}

func NewQcRepository(db *gorm.DB) *QcRepository {
	return &QcRepository{db: db}
}

// resolveRef validates a QC reference and returns the item it is about. A
// line or movement can only be claimed once across pending entries.
func (r *QcRepository) resolveRef(tx *gorm.DB, ref models.FormQcItemRef) (types.SnowflakeID, error) {
	switch ref.RefType {
	case models.QcRefInwardLine:
		var line models.InwardLine
		if err := tx.First(&line, "id = ?", ref.RefID).Error; err != nil {
			return 0, err
		}
		if !line.QcPending {
			return 0, fmt.Errorf("%w: inward line is already resolved", models.ErrValidation)
		}
		if err := r.checkUnclaimed(tx, ref); err != nil {
			return 0, err
		}
		return line.ItemID, nil

	case models.QcRefMovement:
		var mv models.Movement
		if err := tx.First(&mv, "id = ?", ref.RefID).Error; err != nil {
			return 0, err
		}
		if !mv.QcPending {
			return 0, fmt.Errorf("%w: movement %s is not awaiting QC", models.ErrValidation, mv.MovementNo)
		}
		if err := r.checkUnclaimed(tx, ref); err != nil {
			return 0, err
		}
		return mv.ItemID, nil
	}
	return 0, fmt.Errorf("%w: unknown QC reference type %q", models.ErrValidation, ref.RefType)
}

func (r *QcRepository) checkUnclaimed(tx *gorm.DB, ref models.FormQcItemRef) error {
	var claimed int64
	err := tx.Model(&models.QcItem{}).
		Joins("JOIN qc_entries ON qc_entries.id = qc_items.qc_entry_id").
		Where("qc_items.ref_type = ? AND qc_items.ref_id = ? AND qc_entries.status = ? AND qc_entries.deleted_at IS NULL",
			ref.RefType, ref.RefID, models.QcStatusPending).
		Count(&claimed).Error
	if err != nil {
		return err
	}
	if claimed > 0 {
		return models.NewStateConflict("", models.StateInQc,
			"reference is already claimed by another pending QC entry")
	}
	return nil
}

func (r *QcRepository) Create(form *models.FormQcEntry, scope Scope) (*models.QcEntry, error) {
	seen := make(map[models.FormQcItemRef]bool, len(form.Items))
	for _, it := range form.Items {
		if seen[it] {
			return nil, fmt.Errorf("%w: duplicate reference in QC entry", models.ErrValidation)
		}
		seen[it] = true
	}

	// Resolve outside the tx once, for lock ordering only; re-resolved inside.
	prelim := make([]types.SnowflakeID, 0, len(form.Items))
	for _, it := range form.Items {
		id, err := r.resolveRef(r.db, it)
		if err != nil {
			return nil, err
		}
		prelim = append(prelim, id)
	}

	unlock := services.LockItems(prelim...)
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

	qcNo, err := utils.GenerateCode(tx, "QC", scope.LocationID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	entry := models.QcEntry{
		QcNo:        qcNo,
		Status:      models.QcStatusPending,
		LocationID:  scope.LocationID,
		Remarks:     form.Remarks,
		Attachments: utils.EncodeURLList(form.Attachments),
		CreatedBy:   scope.UserID,
		UpdatedBy:   scope.UserID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	itemIDs := make([]types.SnowflakeID, 0, len(form.Items))
	for _, it := range form.Items {
		itemID, err := r.resolveRef(tx, it)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		itemIDs = append(itemIDs, itemID)

		qcItem := models.QcItem{
			QcEntryID:  entry.ID,
			ItemID:     itemID,
			RefType:    it.RefType,
			RefID:      it.RefID,
			Resolution: models.QcResolutionUnresolved,
			CreatedBy:  scope.UserID,
			UpdatedBy:  scope.UserID,
		}
		if err := tx.Create(&qcItem).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := helpers.InsertTransactionHistory(tx, entry.QcNo, "CREATED", "QC", form.Remarks, scope.UserID); err != nil {
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
	return r.GetByID(entry.ID)
}

// ResolveItem records a per-item verdict while the entry is still open. The
// verdict takes effect only when the whole entry is approved.
func (r *QcRepository) ResolveItem(entryID, qcItemID types.SnowflakeID, form *models.FormQcResolution, scope Scope) (*models.QcItem, error) {
	switch form.Resolution {
	case models.QcResolutionApproved, models.QcResolutionRejected, models.QcResolutionUnresolved:
	default:
		return nil, fmt.Errorf("%w: unknown resolution %q", models.ErrValidation, form.Resolution)
	}

	var qcItem models.QcItem
	if err := r.db.First(&qcItem, "id = ? AND qc_entry_id = ?", qcItemID, entryID).Error; err != nil {
		return nil, err
	}

	// The item lock serializes resolve against a concurrently closing
	// entry; the pending check below runs under the same lock close holds.
	unlock := services.LockItems(qcItem.ItemID)
	defer unlock()

	var entry models.QcEntry
	if err := r.db.First(&entry, "id = ?", entryID).Error; err != nil {
		return nil, err
	}
	if entry.Status != models.QcStatusPending {
		return nil, models.NewStateConflict(entry.QcNo, entry.Status,
			"QC entry %s is %s, items can only be resolved while pending", entry.QcNo, entry.Status)
	}

	qcItem.Resolution = form.Resolution
	qcItem.Remarks = form.Remarks
	qcItem.UpdatedBy = scope.UserID
	if err := r.db.Save(&qcItem).Error; err != nil {
		return nil, err
	}
	return &qcItem, nil
}

// ApproveEntry closes the entry and applies every per-item verdict in one
// transaction. Approval requires every item resolved; one unresolved item
// blocks the whole entry. Rejected items still land in stock at the QC
// location, only flagged: the physical asset is on the shelf either way.
// Returns the item codes that were rejected so the caller can notify.
func (r *QcRepository) ApproveEntry(id types.SnowflakeID, scope Scope) (*models.QcEntry, []string, error) {
	return r.close(id, scope, models.QcStatusApproved, "")
}

// RejectEntry closes the entry rejecting every item, resolved or not.
func (r *QcRepository) RejectEntry(id types.SnowflakeID, remarks string, scope Scope) (*models.QcEntry, []string, error) {
	return r.close(id, scope, models.QcStatusRejected, remarks)
}

func (r *QcRepository) close(id types.SnowflakeID, scope Scope, finalStatus, remarks string) (*models.QcEntry, []string, error) {
	var current models.QcEntry
	if err := r.db.Preload("Items").First(&current, "id = ?", id).Error; err != nil {
		return nil, nil, err
	}

	itemIDs := make([]types.SnowflakeID, 0, len(current.Items))
	for _, it := range current.Items {
		itemIDs = append(itemIDs, it.ItemID)
	}
	unlock := services.LockItems(itemIDs...)
	defer unlock()

	tx := r.db.Begin()
	if tx.Error != nil {
		return nil, nil, errors.New("failed to start transaction")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var entry models.QcEntry
	if err := tx.Preload("Items").First(&entry, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	if entry.Status != models.QcStatusPending {
		tx.Rollback()
		return nil, nil, models.NewStateConflict(entry.QcNo, entry.Status,
			"QC entry %s is already %s", entry.QcNo, entry.Status)
	}

	if finalStatus == models.QcStatusApproved {
		for _, it := range entry.Items {
			if it.Resolution == models.QcResolutionUnresolved {
				tx.Rollback()
				return nil, nil, models.NewStateConflict(entry.QcNo, entry.Status,
					"QC entry %s still has unresolved items and cannot be approved", entry.QcNo)
			}
		}
	}

	itemRepo := NewItemRepository(tx)
	var rejectedCodes []string

	for i := range entry.Items {
		qcItem := &entry.Items[i]

		approved := qcItem.Resolution == models.QcResolutionApproved
		if finalStatus == models.QcStatusRejected {
			approved = false
			qcItem.Resolution = models.QcResolutionRejected
			if qcItem.Remarks == "" {
				qcItem.Remarks = remarks
			}
			qcItem.UpdatedBy = scope.UserID
			if err := tx.Save(qcItem).Error; err != nil {
				tx.Rollback()
				return nil, nil, err
			}
		}

		item, err := itemRepo.GetByID(qcItem.ItemID)
		if err != nil {
			tx.Rollback()
			return nil, nil, err
		}
		if !approved {
			rejectedCodes = append(rejectedCodes, item.ItemCode)
		}

		if err := r.applyVerdict(tx, qcItem, approved, scope); err != nil {
			tx.Rollback()
			return nil, nil, err
		}

		// Approved or rejected, the item is physically at the QC location.
		locID := entry.LocationID
		if err := itemRepo.UpdateCustody(item, models.HolderLocation, &locID, nil, scope.UserID); err != nil {
			tx.Rollback()
			return nil, nil, err
		}
	}

	now := time.Now()
	entry.Status = finalStatus
	entry.ResolvedBy = &scope.UserID
	entry.ResolvedAt = &now
	entry.UpdatedBy = scope.UserID
	if err := tx.Omit("Items").Save(&entry).Error; err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	if err := helpers.InsertTransactionHistory(tx, entry.QcNo, finalStatus, "QC", remarks, scope.UserID); err != nil {
		tx.Rollback()
		return nil, nil, err
	}
	if err := NewItemStateRepository(tx).RefreshCachedState(itemIDs...); err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, nil, err
	}
	return &entry, rejectedCodes, nil
}

// applyVerdict releases the underlying claim: the inward line or movement
// stops being qc-pending and carries the verdict.
func (r *QcRepository) applyVerdict(tx *gorm.DB, qcItem *models.QcItem, approved bool, scope Scope) error {
	switch qcItem.RefType {
	case models.QcRefInwardLine:
		return tx.Model(&models.InwardLine{}).Where("id = ?", qcItem.RefID).
			Updates(map[string]interface{}{
				"qc_pending":  false,
				"qc_approved": approved,
				"qc_remarks":  qcItem.Remarks,
				"updated_by":  scope.UserID,
			}).Error

	case models.QcRefMovement:
		return tx.Model(&models.Movement{}).Where("id = ?", qcItem.RefID).
			Updates(map[string]interface{}{
				"qc_pending": false,
				"updated_by": scope.UserID,
			}).Error
	}
	return fmt.Errorf("%w: unknown QC reference type %q", models.ErrValidation, qcItem.RefType)
}

func (r *QcRepository) GetByID(id types.SnowflakeID) (*models.QcEntry, error) {
	var entry models.QcEntry
	if err := r.db.Preload("Items").First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *QcRepository) List() ([]models.QcEntry, error) {
	var entries []models.QcEntry
	if err := r.db.Preload("Items").Order("created_at desc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
