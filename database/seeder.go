// database/seeder.go
package database

import (
	"log"

	"fiber-erp/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) {
	SeedPermissions(db)
	SeedRoles(db)
	SeedUserMaster(db)
	SeedLocations(db)
	SeedCategories(db)
	SeedUoms(db)
}

func SeedPermissions(db *gorm.DB) {
	permissions := []models.Permission{
		{Name: "item:manage", Description: "Create, rename and deactivate items"},
		{Name: "indent:manage", Description: "Create and edit purchase indents"},
		{Name: "indent:approve", Description: "Approve, reject and revert indents"},
		{Name: "order:manage", Description: "Create and edit purchase orders"},
		{Name: "order:approve", Description: "Approve and revert purchase orders"},
		{Name: "inward:manage", Description: "Create and edit inwards"},
		{Name: "qc:manage", Description: "Create and resolve QC entries"},
		{Name: "jobwork:manage", Description: "Create and cancel job works"},
		{Name: "outward:manage", Description: "Create and cancel outwards"},
		{Name: "movement:manage", Description: "Record custody movements"},
		{Name: "master:manage", Description: "Maintain master data"},
	}

	for _, p := range permissions {
		var existing models.Permission
		if err := db.Where("name = ?", p.Name).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				db.Create(&p)
			}
		}
	}
}

func SeedRoles(db *gorm.DB) {
	var admin models.Role
	err := db.Where("name = ?", "admin").First(&admin).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("Unexpected DB error: %v", err)
		}
		admin = models.Role{Name: "admin", Description: "Full access"}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("Failed to create admin role: %v", err)
		}
	}

	var permissions []models.Permission
	db.Find(&permissions)
	db.Model(&admin).Association("Permissions").Replace(permissions)
}

func SeedUserMaster(db *gorm.DB) {
	var existing models.User
	err := db.Where("username = ?", "admin").First(&existing).Error
	if err == nil {
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatalf("Unexpected DB error: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	var adminRole models.Role
	db.Where("name = ?", "admin").First(&adminRole)

	user := models.User{
		Username:   "admin",
		Password:   string(hashed),
		Name:       "Administrator",
		Email:      "admin@erp.local",
		CompanyID:  1,
		LocationID: 1,
		Roles:      []models.Role{adminRole},
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
}

func SeedLocations(db *gorm.DB) {
	locations := []models.Location{
		{LocationCode: "HO", Name: "Head Office Store", IsActive: true},
	}

	for _, l := range locations {
		var existing models.Location
		if err := db.Where("location_code = ?", l.LocationCode).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				db.Create(&l)
			}
		}
	}
}

func SeedCategories(db *gorm.DB) {
	categories := []models.Category{
		{Code: "MACHINE", Name: "MACHINE"},
		{Code: "TOOL", Name: "TOOL"},
		{Code: "INSTRUMENT", Name: "INSTRUMENT"},
	}

	for _, c := range categories {
		var existing models.Category
		if err := db.Where("code = ?", c.Code).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				db.Create(&c)
			}
		}
	}
}

func SeedUoms(db *gorm.DB) {
	uoms := []models.Uom{
		{Code: "PCS", Name: "Pieces"},
		{Code: "SET", Name: "Set"},
		{Code: "UNIT", Name: "Unit"},
	}

	for _, u := range uoms {
		var existing models.Uom
		if err := db.Where("code = ?", u.Code).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				db.Create(&u)
			}
		}
	}
}
