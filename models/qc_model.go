package models

import (
	"fiber-erp/controllers/idgen"
	"fiber-erp/types"
	"time"

	"gorm.io/gorm"
)

const (
	QcStatusPending  = "PENDING"
	QcStatusApproved = "APPROVED"
	QcStatusRejected = "REJECTED"
)

// Per-item resolutions inside an entry.
const (
	QcResolutionUnresolved = "UNRESOLVED"
	QcResolutionApproved   = "APPROVED"
	QcResolutionRejected   = "REJECTED"
)

// QC item reference types. An entry batches inward lines and qc-pending
// receiving movements for resolution.
const (
	QcRefInwardLine = "INWARD_LINE"
	QcRefMovement   = "MOVEMENT"
)

type QcEntry struct {
	gorm.Model
	ID         types.SnowflakeID `json:"id" gorm:"primaryKey"`
	QcNo       string            `json:"qc_no" gorm:"unique"`
	Status     string            `json:"status" gorm:"default:'PENDING'"`
	LocationID uint              `json:"location_id"`
	Remarks    string            `json:"remarks"`

	Attachments string `json:"attachments"` // JSON array of file URLs

	ResolvedBy *int       `json:"resolved_by"`
	ResolvedAt *time.Time `json:"resolved_at"`

	CreatedBy int
	UpdatedBy int
	DeletedBy int

	Items []QcItem `gorm:"foreignKey:QcEntryID;references:ID" json:"items"`
}

func (q *QcEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == 0 {
		q.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

type QcItem struct {
	gorm.Model
	ID        types.SnowflakeID `json:"id" gorm:"primaryKey"`
	QcEntryID types.SnowflakeID `json:"qc_entry_id" gorm:"index"`
	ItemID    types.SnowflakeID `json:"item_id" gorm:"index"`

	// RefType + RefID point at the claim being resolved: an inward line or a
	// qc-pending movement. Dispatch is exhaustive.
	RefType string            `json:"ref_type"`
	RefID   types.SnowflakeID `json:"ref_id" gorm:"index"`

	Resolution string `json:"resolution" gorm:"default:'UNRESOLVED'"`
	Remarks    string `json:"remarks"`

	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

func (q *QcItem) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == 0 {
		q.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

type FormQcItemRef struct {
	RefType string            `json:"ref_type" validate:"required"`
	RefID   types.SnowflakeID `json:"ref_id" validate:"required"`
}

type FormQcEntry struct {
	Remarks     string          `json:"remarks"`
	Attachments []string        `json:"attachments"`
	Items       []FormQcItemRef `json:"items" validate:"required,min=1,dive"`
}

type FormQcResolution struct {
	Resolution string `json:"resolution" validate:"required"`
	Remarks    string `json:"remarks"`
}
