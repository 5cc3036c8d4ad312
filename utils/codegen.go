package utils

import (
	"fiber-erp/models"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GenerateCode hands out the next human-readable document number for a
// prefix within a location, e.g. IND/2/000014. The counter row is read and
// bumped inside the caller's transaction, so a rolled back document never
// burns a number for good.
func GenerateCode(tx *gorm.DB, prefix string, locationID uint) (string, error) {
	var doc models.DocumentNumber

	err := numberLookup(tx).Where("prefix = ? AND location_id = ?", prefix, locationID).First(&doc).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return "", err
		}
		doc = models.DocumentNumber{Prefix: prefix, LocationID: locationID}
	}

	doc.LastNumber++
	if err := tx.Save(&doc).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%d/%06d", prefix, locationID, doc.LastNumber), nil
}

// numberLookup takes a row lock on the counter so two concurrent
// transactions cannot read the same LastNumber. Sqlite has no row locks
// and admits a single writer at a time.
func numberLookup(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
