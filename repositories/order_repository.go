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

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// resolveIndentItems loads the indent items an order wants to consume and
// checks every consumption rule: the line exists, its indent is approved,
// and no other active order already consumed it.
func (r *OrderRepository) resolveIndentItems(tx *gorm.DB, items []models.FormOrderItem, excludeOrderID types.SnowflakeID) ([]models.IndentItem, error) {
	seen := make(map[types.SnowflakeID]bool, len(items))
	resolved := make([]models.IndentItem, 0, len(items))

	for _, it := range items {
		if seen[it.IndentItemID] {
			return nil, fmt.Errorf("%w: duplicate indent item in order", models.ErrValidation)
		}
		seen[it.IndentItemID] = true

		var line models.IndentItem
		if err := tx.First(&line, "id = ?", it.IndentItemID).Error; err != nil {
			return nil, err
		}
		var indent models.Indent
		if err := tx.First(&indent, "id = ?", line.IndentID).Error; err != nil {
			return nil, err
		}
		if indent.Status != models.IndentStatusApproved {
			return nil, models.NewStateConflict(indent.IndentNo, indent.Status,
				"indent %s is %s, only approved indent items can be ordered", indent.IndentNo, indent.Status)
		}

		q := tx.Model(&models.PurchaseOrderItem{}).
			Joins("JOIN purchase_orders ON purchase_orders.id = purchase_order_items.order_id").
			Where("purchase_order_items.indent_item_id = ? AND purchase_orders.deleted_at IS NULL", line.ID)
		if excludeOrderID != 0 {
			q = q.Where("purchase_orders.id <> ?", excludeOrderID)
		}
		var consumed int64
		if err := q.Count(&consumed).Error; err != nil {
			return nil, err
		}
		if consumed > 0 {
			var item models.Item
			if err := tx.First(&item, "id = ?", line.ItemID).Error; err != nil {
				return nil, err
			}
			return nil, models.NewStateConflict(item.ItemCode, models.StateInOrder,
				"item %s is already consumed by another purchase order", item.ItemCode)
		}

		resolved = append(resolved, line)
	}
	return resolved, nil
}

func (r *OrderRepository) Create(form *models.FormOrder, scope Scope) (*models.PurchaseOrder, error) {
	itemIDs, err := r.lockIDsForForm(form)
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

	if _, err := r.resolveIndentItems(tx, form.Items, 0); err != nil {
		tx.Rollback()
		return nil, err
	}

	orderNo, err := utils.GenerateCode(tx, "PO", scope.LocationID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	order := models.PurchaseOrder{
		OrderNo:    orderNo,
		VendorID:   form.VendorID,
		Status:     models.OrderStatusPending,
		LocationID: scope.LocationID,
		OrderDate:  form.OrderDate,
		Remarks:    form.Remarks,
		CreatedBy:  scope.UserID,
		UpdatedBy:  scope.UserID,
	}
	for _, it := range form.Items {
		order.Items = append(order.Items, models.PurchaseOrderItem{
			IndentItemID: it.IndentItemID,
			Rate:         it.Rate,
			Remarks:      it.Remarks,
			CreatedBy:    scope.UserID,
			UpdatedBy:    scope.UserID,
		})
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := helpers.InsertTransactionHistory(tx, order.OrderNo, "CREATED", "ORDER", form.Remarks, scope.UserID); err != nil {
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
	return &order, nil
}

// Update replaces the lines of a pending order.
func (r *OrderRepository) Update(id types.SnowflakeID, form *models.FormOrder, scope Scope) (*models.PurchaseOrder, error) {
	newIDs, err := r.lockIDsForForm(form)
	if err != nil {
		return nil, err
	}
	oldIDs, err := r.itemIDsOfOrder(id)
	if err != nil {
		return nil, err
	}
	lockIDs := append(newIDs, oldIDs...)

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

	var order models.PurchaseOrder
	if err := tx.First(&order, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		tx.Rollback()
		return nil, models.NewStateConflict(order.OrderNo, order.Status,
			"only pending orders can be edited, order %s is %s", order.OrderNo, order.Status)
	}

	if err := tx.Model(&models.PurchaseOrderItem{}).Where("order_id = ?", order.ID).
		Update("deleted_by", scope.UserID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Where("order_id = ?", order.ID).Delete(&models.PurchaseOrderItem{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if _, err := r.resolveIndentItems(tx, form.Items, order.ID); err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, it := range form.Items {
		line := models.PurchaseOrderItem{
			OrderID:      order.ID,
			IndentItemID: it.IndentItemID,
			Rate:         it.Rate,
			Remarks:      it.Remarks,
			CreatedBy:    scope.UserID,
			UpdatedBy:    scope.UserID,
		}
		if err := tx.Create(&line).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	order.VendorID = form.VendorID
	order.OrderDate = form.OrderDate
	order.Remarks = form.Remarks
	order.UpdatedBy = scope.UserID
	if err := tx.Omit("Items").Save(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := helpers.InsertTransactionHistory(tx, order.OrderNo, "UPDATED", "ORDER", form.Remarks, scope.UserID); err != nil {
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

// Approve is a pure status transition. Custody never changes here; the
// IN_ORDER claim already exists through the order rows themselves.
func (r *OrderRepository) Approve(id types.SnowflakeID, scope Scope) (*models.PurchaseOrder, error) {
	return r.transition(id, scope, func(tx *gorm.DB, order *models.PurchaseOrder) error {
		if order.Status != models.OrderStatusPending {
			return models.NewStateConflict(order.OrderNo, order.Status,
				"only pending orders can be approved, order %s is %s", order.OrderNo, order.Status)
		}
		now := time.Now()
		order.Status = models.OrderStatusApproved
		order.ApprovedBy = &scope.UserID
		order.ApprovedAt = &now
		return helpers.InsertTransactionHistory(tx, order.OrderNo, "APPROVED", "ORDER", "", scope.UserID)
	})
}

// Revert pulls an approved order back to pending. Blocked once any inward
// has received against it.
func (r *OrderRepository) Revert(id types.SnowflakeID, scope Scope) (*models.PurchaseOrder, error) {
	return r.transition(id, scope, func(tx *gorm.DB, order *models.PurchaseOrder) error {
		if order.Status != models.OrderStatusApproved {
			return models.NewStateConflict(order.OrderNo, order.Status,
				"only approved orders can be reverted, order %s is %s", order.OrderNo, order.Status)
		}

		var inwarded int64
		err := tx.Model(&models.InwardLine{}).
			Where("source_type = ? AND source_id = ?", models.SourceOrder, order.ID).
			Count(&inwarded).Error
		if err != nil {
			return err
		}
		if inwarded > 0 {
			return models.NewStateConflict(order.OrderNo, order.Status,
				"order %s has received inwards and cannot be reverted", order.OrderNo)
		}

		order.Status = models.OrderStatusPending
		order.ApprovedBy = nil
		order.ApprovedAt = nil
		return helpers.InsertTransactionHistory(tx, order.OrderNo, "REVERTED", "ORDER", "", scope.UserID)
	})
}

func (r *OrderRepository) transition(id types.SnowflakeID, scope Scope, apply func(tx *gorm.DB, order *models.PurchaseOrder) error) (*models.PurchaseOrder, error) {
	itemIDs, err := r.itemIDsOfOrder(id)
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

	var order models.PurchaseOrder
	if err := tx.First(&order, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := apply(tx, &order); err != nil {
		tx.Rollback()
		return nil, err
	}

	order.UpdatedBy = scope.UserID
	if err := tx.Omit("Items").Save(&order).Error; err != nil {
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
	return &order, nil
}

func (r *OrderRepository) lockIDsForForm(form *models.FormOrder) ([]types.SnowflakeID, error) {
	ids := make([]types.SnowflakeID, 0, len(form.Items))
	for _, it := range form.Items {
		var line models.IndentItem
		if err := r.db.First(&line, "id = ?", it.IndentItemID).Error; err != nil {
			return nil, err
		}
		ids = append(ids, line.ItemID)
	}
	return ids, nil
}

func (r *OrderRepository) itemIDsOfOrder(id types.SnowflakeID) ([]types.SnowflakeID, error) {
	var ids []types.SnowflakeID
	err := r.db.Model(&models.PurchaseOrderItem{}).
		Joins("JOIN indent_items ON indent_items.id = purchase_order_items.indent_item_id").
		Where("purchase_order_items.order_id = ?", id).
		Pluck("indent_items.item_id", &ids).Error
	return ids, err
}

func (r *OrderRepository) GetByID(id types.SnowflakeID) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) List() ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	if err := r.db.Preload("Items").Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
