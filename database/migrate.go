// database/migrate.go
package database

import (
	"fiber-erp/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.LoginLog{},
		&models.Vendor{},
		&models.Location{},
		&models.Category{},
		&models.Uom{},
		&models.DocumentNumber{},
		&models.Item{},
		&models.Indent{},
		&models.IndentItem{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.Inward{},
		&models.InwardLine{},
		&models.QcEntry{},
		&models.QcItem{},
		&models.JobWork{},
		&models.Outward{},
		&models.OutwardLine{},
		&models.Movement{},
		&models.TransactionHistory{},
	)
}
