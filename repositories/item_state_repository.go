package repositories

import (
	"fiber-erp/models"
	"fiber-erp/types"

	"gorm.io/gorm"
)

// ItemStateRepository derives an item's canonical process state on demand.
// No single table owns the state: it is the first active claim found when
// probing the transactional tables in fixed priority order, falling back to
// the item's holder fields.
//
// Priority:
//  1. item inside a pending QC entry            -> IN_QC
//  2. inward line still awaiting QC             -> IN_QC
//  3. receiving movement still awaiting QC      -> IN_QC
//  4. pending job work                          -> IN_JOB_WORK
//  5. outward line with no return inward yet    -> OUTWARD
//  6. order not yet inwarded for this item      -> IN_ORDER
//  7. non-rejected indent, not consumed yet     -> IN_INDENT
//  8. holder: LOCATION -> IN_STOCK, VENDOR -> OUTWARD, NONE -> NOT_IN_STOCK
//
// excludeDocID lets a document being edited ignore its own claim. Snowflake
// ids are unique across all tables, so one id is enough for every probe.
type ItemStateRepository struct {
	db *gorm.DB
}

func NewItemStateRepository(db *gorm.DB) *ItemStateRepository {
	return &ItemStateRepository{db: db}
}

func (r *ItemStateRepository) GetState(itemID, excludeDocID types.SnowflakeID) (string, error) {
	var count int64

	// 1. Pending QC entry claiming the item
	q := r.db.Model(&models.QcItem{}).
		Joins("JOIN qc_entries ON qc_entries.id = qc_items.qc_entry_id").
		Where("qc_items.item_id = ? AND qc_entries.status = ? AND qc_entries.deleted_at IS NULL",
			itemID, models.QcStatusPending)
	if excludeDocID != 0 {
		q = q.Where("qc_entries.id <> ?", excludeDocID)
	}
	if err := q.Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return models.StateInQc, nil
	}

	// 2. Inward line awaiting QC
	q = r.db.Model(&models.InwardLine{}).
		Joins("JOIN inwards ON inwards.id = inward_lines.inward_id").
		Where("inward_lines.item_id = ? AND inward_lines.qc_pending = ? AND inwards.deleted_at IS NULL",
			itemID, true)
	if excludeDocID != 0 {
		q = q.Where("inwards.id <> ?", excludeDocID)
	}
	if err := q.Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return models.StateInQc, nil
	}

	// 3. Receiving / system-return movement awaiting QC
	q = r.db.Model(&models.Movement{}).
		Where("item_id = ? AND qc_pending = ?", itemID, true)
	if excludeDocID != 0 {
		q = q.Where("id <> ?", excludeDocID)
	}
	if err := q.Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return models.StateInQc, nil
	}

	// 4. Pending job work
	q = r.db.Model(&models.JobWork{}).
		Where("item_id = ? AND status = ?", itemID, models.JobWorkStatusPending)
	if excludeDocID != 0 {
		q = q.Where("id <> ?", excludeDocID)
	}
	if err := q.Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return models.StateInJobWork, nil
	}

	// 5. Outward with no return inward against it yet
	q = r.db.Model(&models.OutwardLine{}).
		Joins("JOIN outwards ON outwards.id = outward_lines.outward_id").
		Where("outward_lines.item_id = ? AND outwards.deleted_at IS NULL", itemID).
		Where(`NOT EXISTS (
			SELECT 1 FROM inward_lines il
			WHERE il.item_id = outward_lines.item_id
			  AND il.source_type = ? AND il.source_id = outward_lines.outward_id
			  AND il.deleted_at IS NULL)`, models.SourceOutwardReturn)
	if excludeDocID != 0 {
		q = q.Where("outwards.id <> ?", excludeDocID)
	}
	if err := q.Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return models.StateOutward, nil
	}

	// 6. Order not yet inwarded for this item
	q = r.db.Model(&models.PurchaseOrderItem{}).
		Joins("JOIN indent_items ON indent_items.id = purchase_order_items.indent_item_id").
		Joins("JOIN purchase_orders ON purchase_orders.id = purchase_order_items.order_id").
		Where("indent_items.item_id = ? AND indent_items.deleted_at IS NULL AND purchase_orders.deleted_at IS NULL", itemID).
		Where(`NOT EXISTS (
			SELECT 1 FROM inward_lines il
			WHERE il.item_id = indent_items.item_id
			  AND il.source_type = ? AND il.source_id = purchase_orders.id
			  AND il.deleted_at IS NULL)`, models.SourceOrder)
	if excludeDocID != 0 {
		q = q.Where("purchase_orders.id <> ?", excludeDocID)
	}
	if err := q.Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return models.StateInOrder, nil
	}

	// 7. Active indent whose item has not been consumed by an order
	q = r.db.Model(&models.IndentItem{}).
		Joins("JOIN indents ON indents.id = indent_items.indent_id").
		Where("indent_items.item_id = ? AND indents.status <> ? AND indents.deleted_at IS NULL",
			itemID, models.IndentStatusRejected).
		Where(`NOT EXISTS (
			SELECT 1 FROM purchase_order_items poi
			JOIN purchase_orders po ON po.id = poi.order_id
			WHERE poi.indent_item_id = indent_items.id
			  AND poi.deleted_at IS NULL AND po.deleted_at IS NULL)`)
	if excludeDocID != 0 {
		q = q.Where("indents.id <> ?", excludeDocID)
	}
	if err := q.Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return models.StateInIndent, nil
	}

	// 8. No document claim: fall back to the holder fields
	var item models.Item
	if err := r.db.First(&item, "id = ?", itemID).Error; err != nil {
		return "", err
	}
	switch item.HolderType {
	case models.HolderLocation:
		return models.StateInStock, nil
	case models.HolderVendor:
		return models.StateOutward, nil
	default:
		return models.StateNotInStock, nil
	}
}

// IsInStock is the gate for job work and outward creation.
func (r *ItemStateRepository) IsInStock(itemID types.SnowflakeID) (bool, error) {
	state, err := r.GetState(itemID, 0)
	if err != nil {
		return false, err
	}
	return state == models.StateInStock, nil
}

// CanAddToIndent allows an item with no active process claim: either never
// stocked or in stock (replacement of a broken asset). excludeIndentID lets
// an indent being edited keep its own items.
func (r *ItemStateRepository) CanAddToIndent(itemID, excludeIndentID types.SnowflakeID) (bool, string, error) {
	state, err := r.GetState(itemID, excludeIndentID)
	if err != nil {
		return false, "", err
	}
	return state == models.StateNotInStock || state == models.StateInStock, state, nil
}

// RefreshCachedState recomputes the derived state and stores it in the
// item's process_state cache. The cache is display-only; validators never
// read it.
func (r *ItemStateRepository) RefreshCachedState(itemIDs ...types.SnowflakeID) error {
	for _, id := range itemIDs {
		state, err := r.GetState(id, 0)
		if err != nil {
			return err
		}
		if err := r.db.Model(&models.Item{}).Where("id = ?", id).
			Update("process_state", state).Error; err != nil {
			return err
		}
	}
	return nil
}
