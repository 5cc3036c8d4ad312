package models

import (
	"fiber-erp/controllers/idgen"
	"fiber-erp/types"
	"time"

	"gorm.io/gorm"
)

const (
	JobWorkStatusPending   = "PENDING"
	JobWorkStatusCompleted = "COMPLETED"
)

// JobWork sends a single in-stock item out for external processing. Creation
// writes no custody fields; the pending row itself is the claim. The inward
// that receives the item back flips it to COMPLETED.
type JobWork struct {
	gorm.Model
	ID         types.SnowflakeID `json:"id" gorm:"primaryKey"`
	JobWorkNo  string            `json:"job_work_no" gorm:"unique"`
	ItemID     types.SnowflakeID `json:"item_id" gorm:"index"`
	VendorID   uint              `json:"vendor_id"`
	LocationID uint              `json:"location_id"`
	Status     string            `json:"status" gorm:"default:'PENDING'"`

	ExpectedReturnDate string     `json:"expected_return_date" gorm:"type:date"`
	CompletedAt        *time.Time `json:"completed_at"`
	Remarks            string     `json:"remarks"`

	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

func (j *JobWork) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == 0 {
		j.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

type FormJobWork struct {
	ItemID             types.SnowflakeID `json:"item_id" validate:"required"`
	VendorID           uint              `json:"vendor_id" validate:"required"`
	ExpectedReturnDate string            `json:"expected_return_date"`
	Remarks            string            `json:"remarks"`
}
