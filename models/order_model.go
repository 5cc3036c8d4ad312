package models

import (
	"fiber-erp/controllers/idgen"
	"fiber-erp/types"
	"time"

	"gorm.io/gorm"
)

const (
	OrderStatusPending  = "PENDING"
	OrderStatusApproved = "APPROVED"
)

// PurchaseOrder commits approved indent items to a vendor. Approval is a
// pure status transition; custody never changes here. The IN_ORDER state is
// visible only through derivation.
type PurchaseOrder struct {
	gorm.Model
	ID         types.SnowflakeID `json:"id" gorm:"primaryKey"`
	OrderNo    string            `json:"order_no" gorm:"unique"`
	VendorID   uint              `json:"vendor_id"`
	Status     string            `json:"status" gorm:"default:'PENDING'"`
	LocationID uint              `json:"location_id"`
	OrderDate  string            `json:"order_date" gorm:"type:date"`
	Remarks    string            `json:"remarks"`

	ApprovedBy *int       `json:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at"`

	CreatedBy int
	UpdatedBy int
	DeletedBy int

	Items []PurchaseOrderItem `gorm:"foreignKey:OrderID;references:ID" json:"items"`
}

func (o *PurchaseOrder) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == 0 {
		o.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

// PurchaseOrderItem consumes an IndentItem, not the Item directly. The item
// an order line is about is always reached through the indent item.
type PurchaseOrderItem struct {
	gorm.Model
	ID           types.SnowflakeID `json:"id" gorm:"primaryKey"`
	OrderID      types.SnowflakeID `json:"order_id" gorm:"index"`
	IndentItemID types.SnowflakeID `json:"indent_item_id" gorm:"index"`
	Rate         float64           `json:"rate"`
	Remarks      string            `json:"remarks"`

	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

func (o *PurchaseOrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == 0 {
		o.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

type FormOrderItem struct {
	IndentItemID types.SnowflakeID `json:"indent_item_id" validate:"required"`
	Rate         float64           `json:"rate"`
	Remarks      string            `json:"remarks"`
}

type FormOrder struct {
	VendorID  uint            `json:"vendor_id" validate:"required"`
	OrderDate string          `json:"order_date"`
	Remarks   string          `json:"remarks"`
	Items     []FormOrderItem `json:"items" validate:"required,min=1,dive"`
}
