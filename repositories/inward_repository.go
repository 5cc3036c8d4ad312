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

type InwardRepository struct {
	db *gorm.DB
}

func NewInwardRepository(db *gorm.DB) *InwardRepository {
	return &InwardRepository{db: db}
}

// resolveSource validates one inward line against its source document and
// returns the external party the item is coming back from. Side effects per
// source type (completing a job work) happen here too.
func (r *InwardRepository) resolveSource(tx *gorm.DB, item *models.Item, ref models.SourceRef, scope Scope) (uint, error) {
	switch ref.Type {
	case models.SourceOrder:
		var order models.PurchaseOrder
		if err := tx.First(&order, "id = ?", ref.ID).Error; err != nil {
			return 0, err
		}
		if order.Status != models.OrderStatusApproved {
			return 0, models.NewStateConflict(order.OrderNo, order.Status,
				"order %s is %s, only approved orders can be inwarded", order.OrderNo, order.Status)
		}

		var onOrder int64
		err := tx.Model(&models.PurchaseOrderItem{}).
			Joins("JOIN indent_items ON indent_items.id = purchase_order_items.indent_item_id").
			Where("purchase_order_items.order_id = ? AND indent_items.item_id = ? AND indent_items.deleted_at IS NULL",
				order.ID, item.ID).
			Count(&onOrder).Error
		if err != nil {
			return 0, err
		}
		if onOrder == 0 {
			return 0, fmt.Errorf("%w: item %s is not on order %s", models.ErrValidation, item.ItemCode, order.OrderNo)
		}

		var received int64
		err = tx.Model(&models.InwardLine{}).
			Where("source_type = ? AND source_id = ? AND item_id = ?", models.SourceOrder, order.ID, item.ID).
			Count(&received).Error
		if err != nil {
			return 0, err
		}
		if received > 0 {
			return 0, models.NewStateConflict(item.ItemCode, models.StateInQc,
				"item %s is already fully inwarded against order %s", item.ItemCode, order.OrderNo)
		}
		return order.VendorID, nil

	case models.SourceJobWork:
		var jw models.JobWork
		if err := tx.First(&jw, "id = ?", ref.ID).Error; err != nil {
			return 0, err
		}
		if jw.Status != models.JobWorkStatusPending {
			return 0, models.NewStateConflict(jw.JobWorkNo, jw.Status,
				"job work %s is %s and cannot receive a return", jw.JobWorkNo, jw.Status)
		}
		if jw.ItemID != item.ID {
			return 0, fmt.Errorf("%w: item %s does not belong to job work %s", models.ErrValidation, item.ItemCode, jw.JobWorkNo)
		}

		now := time.Now()
		err := tx.Model(&models.JobWork{}).Where("id = ?", jw.ID).
			Updates(map[string]interface{}{
				"status":       models.JobWorkStatusCompleted,
				"completed_at": &now,
				"updated_by":   scope.UserID,
			}).Error
		if err != nil {
			return 0, err
		}
		return jw.VendorID, nil

	case models.SourceOutwardReturn:
		var outward models.Outward
		if err := tx.First(&outward, "id = ?", ref.ID).Error; err != nil {
			return 0, err
		}

		var onOutward int64
		err := tx.Model(&models.OutwardLine{}).
			Where("outward_id = ? AND item_id = ?", outward.ID, item.ID).
			Count(&onOutward).Error
		if err != nil {
			return 0, err
		}
		if onOutward == 0 {
			return 0, fmt.Errorf("%w: item %s is not on outward %s", models.ErrValidation, item.ItemCode, outward.OutwardNo)
		}

		var returned int64
		err = tx.Model(&models.InwardLine{}).
			Where("source_type = ? AND source_id = ? AND item_id = ?", models.SourceOutwardReturn, outward.ID, item.ID).
			Count(&returned).Error
		if err != nil {
			return 0, err
		}
		if returned > 0 {
			return 0, models.NewStateConflict(item.ItemCode, models.StateInQc,
				"item %s was already returned against outward %s", item.ItemCode, outward.OutwardNo)
		}
		return outward.VendorID, nil
	}
	return 0, fmt.Errorf("%w: unknown source type %q", models.ErrValidation, ref.Type)
}

func collectInwardItemIDs(lines []models.FormInwardLine) ([]types.SnowflakeID, error) {
	seen := make(map[types.SnowflakeID]bool, len(lines))
	ids := make([]types.SnowflakeID, 0, len(lines))
	for _, l := range lines {
		if seen[l.ItemID] {
			return nil, fmt.Errorf("%w: duplicate item in inward", models.ErrValidation)
		}
		seen[l.ItemID] = true
		ids = append(ids, l.ItemID)
	}
	return ids, nil
}

func (r *InwardRepository) Create(form *models.FormInward, scope Scope) (*models.Inward, error) {
	for _, l := range form.Lines {
		if err := models.ValidateSourceRef(models.SourceRef{Type: l.SourceType, ID: l.SourceID}); err != nil {
			return nil, err
		}
	}
	itemIDs, err := collectInwardItemIDs(form.Lines)
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

	inward, err := r.applyLines(tx, nil, form, scope)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := helpers.InsertTransactionHistory(tx, inward.InwardNo, "CREATED", "INWARD", form.Remarks, scope.UserID); err != nil {
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
	return inward, nil
}

// Update rebuilds an inward's lines. Allowed only while every existing line
// is still awaiting QC and unclaimed by any QC entry; once a line has
// progressed the document is frozen.
func (r *InwardRepository) Update(id types.SnowflakeID, form *models.FormInward, scope Scope) (*models.Inward, error) {
	for _, l := range form.Lines {
		if err := models.ValidateSourceRef(models.SourceRef{Type: l.SourceType, ID: l.SourceID}); err != nil {
			return nil, err
		}
	}
	newIDs, err := collectInwardItemIDs(form.Lines)
	if err != nil {
		return nil, err
	}

	var current models.Inward
	if err := r.db.Preload("Lines").First(&current, "id = ?", id).Error; err != nil {
		return nil, err
	}
	lockIDs := append([]types.SnowflakeID{}, newIDs...)
	for _, l := range current.Lines {
		lockIDs = append(lockIDs, l.ItemID)
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

	var inward models.Inward
	if err := tx.Preload("Lines").First(&inward, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for i := range inward.Lines {
		if err := r.unwindLine(tx, &inward.Lines[i], scope); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Model(&models.InwardLine{}).Where("inward_id = ?", inward.ID).
		Update("deleted_by", scope.UserID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Where("inward_id = ?", inward.ID).Delete(&models.InwardLine{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	inward.Lines = nil
	if _, err := r.applyLines(tx, &inward, form, scope); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := helpers.InsertTransactionHistory(tx, inward.InwardNo, "UPDATED", "INWARD", form.Remarks, scope.UserID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := NewItemStateRepository(tx).RefreshCachedState(lockIDs...); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// applyLines validates and writes the inward header and lines. With existing
// == nil a new document is created, otherwise the given header is reused.
// Custody flips to the receiving location immediately; the physical item is
// on the dock whatever QC later decides.
func (r *InwardRepository) applyLines(tx *gorm.DB, existing *models.Inward, form *models.FormInward, scope Scope) (*models.Inward, error) {
	itemRepo := NewItemRepository(tx)

	var inward *models.Inward
	if existing != nil {
		inward = existing
	} else {
		inwardNo, err := utils.GenerateCode(tx, "INW", scope.LocationID)
		if err != nil {
			return nil, err
		}
		inward = &models.Inward{
			InwardNo:   inwardNo,
			LocationID: scope.LocationID,
			CreatedBy:  scope.UserID,
		}
	}

	inward.InwardDate = form.InwardDate
	inward.Remarks = form.Remarks
	inward.Attachments = utils.EncodeURLList(form.Attachments)
	inward.UpdatedBy = scope.UserID
	inward.VendorID = nil

	if existing == nil {
		if err := tx.Create(inward).Error; err != nil {
			return nil, err
		}
	}

	for _, l := range form.Lines {
		item, err := itemRepo.GetActiveByID(l.ItemID)
		if err != nil {
			return nil, err
		}

		party, err := r.resolveSource(tx, item, models.SourceRef{Type: l.SourceType, ID: l.SourceID}, scope)
		if err != nil {
			return nil, err
		}
		if inward.VendorID == nil {
			inward.VendorID = &party
		}

		line := models.InwardLine{
			InwardID:   inward.ID,
			ItemID:     item.ID,
			SourceType: l.SourceType,
			SourceID:   l.SourceID,
			QcPending:  true,
			Remarks:    l.Remarks,
			CreatedBy:  scope.UserID,
			UpdatedBy:  scope.UserID,
		}
		if err := tx.Create(&line).Error; err != nil {
			return nil, err
		}
		inward.Lines = append(inward.Lines, line)

		locID := scope.LocationID
		if err := itemRepo.UpdateCustody(item, models.HolderLocation, &locID, nil, scope.UserID); err != nil {
			return nil, err
		}
	}

	if err := tx.Omit("Lines").Save(inward).Error; err != nil {
		return nil, err
	}
	return inward, nil
}

// unwindLine reverses a line's side effects before it is replaced. Only
// untouched lines may be unwound; a resolved or QC-claimed line freezes the
// whole document.
func (r *InwardRepository) unwindLine(tx *gorm.DB, line *models.InwardLine, scope Scope) error {
	item, err := NewItemRepository(tx).GetByID(line.ItemID)
	if err != nil {
		return err
	}

	if !line.QcPending {
		return models.NewStateConflict(item.ItemCode, models.StateInStock,
			"line for item %s has already been resolved by QC, the inward can no longer be edited", item.ItemCode)
	}
	var claimed int64
	err = tx.Model(&models.QcItem{}).
		Joins("JOIN qc_entries ON qc_entries.id = qc_items.qc_entry_id").
		Where("qc_items.ref_type = ? AND qc_items.ref_id = ? AND qc_entries.deleted_at IS NULL",
			models.QcRefInwardLine, line.ID).
		Count(&claimed).Error
	if err != nil {
		return err
	}
	if claimed > 0 {
		return models.NewStateConflict(item.ItemCode, models.StateInQc,
			"line for item %s is claimed by a QC entry, the inward can no longer be edited", item.ItemCode)
	}

	switch line.SourceType {
	case models.SourceOrder:
		// Never stocked before: back to no holder.
		return NewItemRepository(tx).UpdateCustody(item, models.HolderNone, nil, nil, scope.UserID)

	case models.SourceJobWork:
		var jw models.JobWork
		if err := tx.First(&jw, "id = ?", line.SourceID).Error; err != nil {
			return err
		}
		err := tx.Model(&models.JobWork{}).Where("id = ?", jw.ID).
			Updates(map[string]interface{}{
				"status":       models.JobWorkStatusPending,
				"completed_at": nil,
				"updated_by":   scope.UserID,
			}).Error
		if err != nil {
			return err
		}
		loc := jw.LocationID
		return NewItemRepository(tx).UpdateCustody(item, models.HolderLocation, &loc, nil, scope.UserID)

	case models.SourceOutwardReturn:
		var outward models.Outward
		if err := tx.First(&outward, "id = ?", line.SourceID).Error; err != nil {
			return err
		}
		vendor := outward.VendorID
		return NewItemRepository(tx).UpdateCustody(item, models.HolderVendor, nil, &vendor, scope.UserID)
	}
	return fmt.Errorf("%w: unknown source type %q", models.ErrValidation, line.SourceType)
}

func (r *InwardRepository) GetByID(id types.SnowflakeID) (*models.Inward, error) {
	var inward models.Inward
	if err := r.db.Preload("Lines").First(&inward, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inward, nil
}

func (r *InwardRepository) List() ([]models.Inward, error) {
	var inwards []models.Inward
	if err := r.db.Preload("Lines").Order("created_at desc").Find(&inwards).Error; err != nil {
		return nil, err
	}
	return inwards, nil
}
