package models

import (
	"fiber-erp/controllers/idgen"
	"fiber-erp/types"

	"gorm.io/gorm"
)

// Process states. GetItemState always returns exactly one of these.
const (
	StateNotInStock = "NOT_IN_STOCK"
	StateInIndent   = "IN_INDENT"
	StateInOrder    = "IN_ORDER"
	StateInQc       = "IN_QC"
	StateInJobWork  = "IN_JOB_WORK"
	StateOutward    = "OUTWARD"
	StateInStock    = "IN_STOCK"
)

// Holder tags. LOCATION means the item physically sits at one of our
// locations, VENDOR means an external party holds it.
const (
	HolderLocation = "LOCATION"
	HolderVendor   = "VENDOR"
	HolderNone     = "NONE"
)

type Item struct {
	gorm.Model
	ID         types.SnowflakeID `json:"id" gorm:"primaryKey"`
	ItemCode   string            `json:"item_code" gorm:"unique;not null"` // immutable identity
	Name       string            `json:"name"`
	Revision   int               `json:"revision" gorm:"default:1"` // bumped on rename
	CategoryID uint              `json:"category_id"`
	UomID      uint              `json:"uom_id"`

	// ProcessState is a cache of the derived state. It is recomputed by every
	// orchestrator and never trusted for authorization; validators go through
	// repositories.GetItemState.
	ProcessState string `json:"process_state" gorm:"default:'NOT_IN_STOCK'"`

	HolderType string `json:"holder_type" gorm:"default:'NONE'"`
	LocationID *uint  `json:"location_id"`
	VendorID   *uint  `json:"vendor_id"`

	// LockVersion backs the optimistic check on custody writes. Updates guard
	// on the version they read and fail with ErrVersionConflict when stale.
	LockVersion int `json:"lock_version" gorm:"default:0"`

	IsActive  bool `json:"is_active" gorm:"default:true"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

func (i *Item) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == 0 {
		i.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

// HolderConsistent reports whether the holder tag and the location/vendor
// ids agree: LOCATION needs a location id and no vendor id, VENDOR the
// opposite, NONE neither.
func (i *Item) HolderConsistent() bool {
	switch i.HolderType {
	case HolderLocation:
		return i.LocationID != nil && i.VendorID == nil
	case HolderVendor:
		return i.VendorID != nil && i.LocationID == nil
	case HolderNone:
		return i.LocationID == nil && i.VendorID == nil
	default:
		return false
	}
}

type FormItem struct {
	ItemCode   string `json:"item_code" validate:"required"`
	Name       string `json:"name" validate:"required"`
	CategoryID uint   `json:"category_id"`
	UomID      uint   `json:"uom_id"`
}
