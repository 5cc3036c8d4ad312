package models

import (
	"fiber-erp/controllers/idgen"
	"fiber-erp/types"
	"time"

	"gorm.io/gorm"
)

const (
	IndentStatusPending  = "PENDING"
	IndentStatusApproved = "APPROVED"
	IndentStatusRejected = "REJECTED"
)

type Indent struct {
	gorm.Model
	ID         types.SnowflakeID `json:"id" gorm:"primaryKey"`
	IndentNo   string            `json:"indent_no" gorm:"unique"`
	Status     string            `json:"status" gorm:"default:'PENDING'"`
	LocationID uint              `json:"location_id"`
	Remarks    string            `json:"remarks"`

	RequestedBy     int        `json:"requested_by"`
	ApprovedBy      *int       `json:"approved_by"`
	ApprovedAt      *time.Time `json:"approved_at"`
	RejectedBy      *int       `json:"rejected_by"`
	RejectedAt      *time.Time `json:"rejected_at"`
	RejectionReason string     `json:"rejection_reason"`

	CreatedBy int
	UpdatedBy int
	DeletedBy int

	Items []IndentItem `gorm:"foreignKey:IndentID;references:ID" json:"items"`
}

func (i *Indent) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == 0 {
		i.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

type IndentItem struct {
	gorm.Model
	ID       types.SnowflakeID `json:"id" gorm:"primaryKey"`
	IndentID types.SnowflakeID `json:"indent_id" gorm:"index"`
	ItemID   types.SnowflakeID `json:"item_id" gorm:"index"`
	Purpose  string            `json:"purpose"` // NEW / REPLACEMENT
	Remarks  string            `json:"remarks"`

	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

func (i *IndentItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == 0 {
		i.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

type FormIndentItem struct {
	ItemID  types.SnowflakeID `json:"item_id" validate:"required"`
	Purpose string            `json:"purpose"`
	Remarks string            `json:"remarks"`
}

type FormIndent struct {
	Remarks string           `json:"remarks"`
	Items   []FormIndentItem `json:"items" validate:"required,min=1,dive"`
}
