package models

import (
	"fiber-erp/controllers/idgen"
	"fiber-erp/types"

	"gorm.io/gorm"
)

const (
	MovementTypeIssue        = "ISSUE"
	MovementTypeReceive      = "RECEIVE"
	MovementTypeSystemReturn = "SYSTEM_RETURN"
)

// Movement is the document-independent custody transfer. An ISSUE flips the
// item to the destination party immediately. RECEIVE and SYSTEM_RETURN are
// stamped qc_pending and leave custody alone until a QC entry approves them,
// mirroring the inward path.
type Movement struct {
	gorm.Model
	ID         types.SnowflakeID `json:"id" gorm:"primaryKey"`
	MovementNo string            `json:"movement_no" gorm:"unique"`
	Type       string            `json:"type"`
	ItemID     types.SnowflakeID `json:"item_id" gorm:"index"`

	// From/to holder snapshots at the time the movement was recorded.
	FromHolderType string `json:"from_holder_type"`
	FromLocationID *uint  `json:"from_location_id"`
	FromVendorID   *uint  `json:"from_vendor_id"`
	ToHolderType   string `json:"to_holder_type"`
	ToLocationID   *uint  `json:"to_location_id"`
	ToVendorID     *uint  `json:"to_vendor_id"`

	QcPending bool   `json:"qc_pending" gorm:"default:false"`
	Reason    string `json:"reason"`

	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

func (m *Movement) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == 0 {
		m.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

type FormMovement struct {
	Type     string            `json:"type" validate:"required"`
	ItemID   types.SnowflakeID `json:"item_id" validate:"required"`
	VendorID uint              `json:"vendor_id"` // destination party for ISSUE, source party otherwise
	Reason   string            `json:"reason"`
}
