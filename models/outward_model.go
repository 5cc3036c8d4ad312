package models

import (
	"fiber-erp/controllers/idgen"
	"fiber-erp/types"

	"gorm.io/gorm"
)

// Outward dispatches in-stock items to an external party outside the
// job-work/order cycle. Custody flips to the party on creation; the item
// comes back through an OUTWARD_RETURN inward line.
type Outward struct {
	gorm.Model
	ID          types.SnowflakeID `json:"id" gorm:"primaryKey"`
	OutwardNo   string            `json:"outward_no" gorm:"unique"`
	VendorID    uint              `json:"vendor_id"`
	LocationID  uint              `json:"location_id"`
	OutwardDate string            `json:"outward_date" gorm:"type:date"`
	Purpose     string            `json:"purpose"`
	Remarks     string            `json:"remarks"`

	CreatedBy int
	UpdatedBy int
	DeletedBy int

	Lines []OutwardLine `gorm:"foreignKey:OutwardID;references:ID" json:"lines"`
}

func (o *Outward) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == 0 {
		o.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

type OutwardLine struct {
	gorm.Model
	ID        types.SnowflakeID `json:"id" gorm:"primaryKey"`
	OutwardID types.SnowflakeID `json:"outward_id" gorm:"index"`
	ItemID    types.SnowflakeID `json:"item_id" gorm:"index"`
	Remarks   string            `json:"remarks"`

	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

func (l *OutwardLine) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == 0 {
		l.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

type FormOutwardLine struct {
	ItemID  types.SnowflakeID `json:"item_id" validate:"required"`
	Remarks string            `json:"remarks"`
}

type FormOutward struct {
	VendorID    uint              `json:"vendor_id" validate:"required"`
	OutwardDate string            `json:"outward_date"`
	Purpose     string            `json:"purpose"`
	Remarks     string            `json:"remarks"`
	Lines       []FormOutwardLine `json:"lines" validate:"required,min=1,dive"`
}
