package repositories

import (
	"errors"
	"fmt"

	"fiber-erp/controllers/helpers"
	"fiber-erp/models"
	"fiber-erp/services"
	"fiber-erp/types"
	"fiber-erp/utils"

	"gorm.io/gorm"
)

type JobWorkRepository struct {
	db *gorm.DB
}

func NewJobWorkRepository(db *gorm.DB) *JobWorkRepository {
	return &JobWorkRepository{db: db}
}

// Create opens a job work for one in-stock item. No custody write happens:
// the pending row is the claim, and the return inward completes it.
func (r *JobWorkRepository) Create(form *models.FormJobWork, scope Scope) (*models.JobWork, error) {
	unlock := services.LockItems(form.ItemID)
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

	item, err := NewItemRepository(tx).GetActiveByID(form.ItemID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	stateRepo := NewItemStateRepository(tx)
	state, err := stateRepo.GetState(item.ID, 0)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if state != models.StateInStock {
		tx.Rollback()
		return nil, models.NewStateConflict(item.ItemCode, state,
			"item %s is %s, only in-stock items can be sent for job work", item.ItemCode, state)
	}

	jobWorkNo, err := utils.GenerateCode(tx, "JW", scope.LocationID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	jw := models.JobWork{
		JobWorkNo:          jobWorkNo,
		ItemID:             item.ID,
		VendorID:           form.VendorID,
		LocationID:         scope.LocationID,
		Status:             models.JobWorkStatusPending,
		ExpectedReturnDate: form.ExpectedReturnDate,
		Remarks:            form.Remarks,
		CreatedBy:          scope.UserID,
		UpdatedBy:          scope.UserID,
	}
	if err := tx.Create(&jw).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := helpers.InsertTransactionHistory(tx, jw.JobWorkNo, "CREATED", "JOB_WORK", form.Remarks, scope.UserID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := stateRepo.RefreshCachedState(item.ID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &jw, nil
}

// Update edits vendor and schedule fields while the job work is pending.
// The item itself cannot be swapped; cancel and reissue instead.
func (r *JobWorkRepository) Update(id types.SnowflakeID, form *models.FormJobWork, scope Scope) (*models.JobWork, error) {
	var jw models.JobWork
	if err := r.db.First(&jw, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if jw.Status != models.JobWorkStatusPending {
		return nil, models.NewStateConflict(jw.JobWorkNo, jw.Status,
			"only pending job works can be edited, job work %s is %s", jw.JobWorkNo, jw.Status)
	}
	if form.ItemID != 0 && form.ItemID != jw.ItemID {
		return nil, fmt.Errorf("%w: the item of a job work cannot be changed", models.ErrValidation)
	}

	jw.VendorID = form.VendorID
	jw.ExpectedReturnDate = form.ExpectedReturnDate
	jw.Remarks = form.Remarks
	jw.UpdatedBy = scope.UserID
	if err := r.db.Save(&jw).Error; err != nil {
		return nil, err
	}
	return &jw, nil
}

// Cancel withdraws a pending job work and releases the item's claim.
func (r *JobWorkRepository) Cancel(id types.SnowflakeID, scope Scope) error {
	var jw models.JobWork
	if err := r.db.First(&jw, "id = ?", id).Error; err != nil {
		return err
	}

	unlock := services.LockItems(jw.ItemID)
	defer unlock()

	tx := r.db.Begin()
	if tx.Error != nil {
		return errors.New("failed to start transaction")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.First(&jw, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return err
	}
	if jw.Status != models.JobWorkStatusPending {
		tx.Rollback()
		return models.NewStateConflict(jw.JobWorkNo, jw.Status,
			"only pending job works can be cancelled, job work %s is %s", jw.JobWorkNo, jw.Status)
	}

	if err := tx.Model(&models.JobWork{}).Where("id = ?", jw.ID).
		Update("deleted_by", scope.UserID).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&jw).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := helpers.InsertTransactionHistory(tx, jw.JobWorkNo, "CANCELLED", "JOB_WORK", "", scope.UserID); err != nil {
		tx.Rollback()
		return err
	}
	if err := NewItemStateRepository(tx).RefreshCachedState(jw.ItemID); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (r *JobWorkRepository) GetByID(id types.SnowflakeID) (*models.JobWork, error) {
	var jw models.JobWork
	if err := r.db.First(&jw, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &jw, nil
}

func (r *JobWorkRepository) List() ([]models.JobWork, error) {
	var jws []models.JobWork
	if err := r.db.Order("created_at desc").Find(&jws).Error; err != nil {
		return nil, err
	}
	return jws, nil
}
