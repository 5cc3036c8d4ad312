package models

import (
	"fiber-erp/controllers/idgen"
	"fiber-erp/types"
	"fmt"

	"gorm.io/gorm"
)

// Inward line source types. A line is always sourced from exactly one of an
// approved purchase order, a pending job work, or an outward being returned.
const (
	SourceOrder         = "ORDER"
	SourceJobWork       = "JOB_WORK"
	SourceOutwardReturn = "OUTWARD_RETURN"
)

// SourceRef is the tagged reference an inward line carries. Dispatch on
// Type must be exhaustive; ValidateSourceRef rejects anything else before a
// switch ever sees it.
type SourceRef struct {
	Type string            `json:"source_type"`
	ID   types.SnowflakeID `json:"source_id"`
}

func ValidateSourceRef(ref SourceRef) error {
	switch ref.Type {
	case SourceOrder, SourceJobWork, SourceOutwardReturn:
	default:
		return fmt.Errorf("%w: unknown source type %q", ErrValidation, ref.Type)
	}
	if ref.ID == 0 {
		return fmt.Errorf("%w: source id is required", ErrValidation)
	}
	return nil
}

type Inward struct {
	gorm.Model
	ID         types.SnowflakeID `json:"id" gorm:"primaryKey"`
	InwardNo   string            `json:"inward_no" gorm:"unique"`
	LocationID uint              `json:"location_id"`
	VendorID   *uint             `json:"vendor_id"` // propagated from the first resolved source party
	InwardDate string            `json:"inward_date" gorm:"type:date"`
	Remarks    string            `json:"remarks"`

	// Attachments holds uploaded file URLs as a JSON array. The file bytes
	// live in the attachment store, never here.
	Attachments string `json:"attachments"`

	CreatedBy int
	UpdatedBy int
	DeletedBy int

	Lines []InwardLine `gorm:"foreignKey:InwardID;references:ID" json:"lines"`
}

func (i *Inward) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == 0 {
		i.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

type InwardLine struct {
	gorm.Model
	ID         types.SnowflakeID `json:"id" gorm:"primaryKey"`
	InwardID   types.SnowflakeID `json:"inward_id" gorm:"index"`
	ItemID     types.SnowflakeID `json:"item_id" gorm:"index"`
	SourceType string            `json:"source_type"`
	SourceID   types.SnowflakeID `json:"source_id" gorm:"index"`

	// QcPending & QcApproved: pending until a QC entry resolves the line.
	// A rejected line ends with both false.
	QcPending  bool   `json:"qc_pending" gorm:"default:true"`
	QcApproved bool   `json:"qc_approved" gorm:"default:false"`
	QcRemarks  string `json:"qc_remarks"`

	Remarks   string `json:"remarks"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

func (l *InwardLine) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == 0 {
		l.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

// QcRejected reports a line that went through QC and was not approved.
func (l *InwardLine) QcRejected() bool {
	return !l.QcPending && !l.QcApproved
}

type FormInwardLine struct {
	ItemID     types.SnowflakeID `json:"item_id" validate:"required"`
	SourceType string            `json:"source_type" validate:"required"`
	SourceID   types.SnowflakeID `json:"source_id" validate:"required"`
	Remarks    string            `json:"remarks"`
}

type FormInward struct {
	InwardDate  string           `json:"inward_date"`
	Remarks     string           `json:"remarks"`
	Attachments []string         `json:"attachments"`
	Lines       []FormInwardLine `json:"lines" validate:"required,min=1,dive"`
}
