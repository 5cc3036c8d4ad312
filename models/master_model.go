package models

import (
	"gorm.io/gorm"
)

// Vendor is any external party an item can be with: supplier, job worker,
// or ad hoc outward destination.
type Vendor struct {
	gorm.Model
	VendorCode string `json:"vendor_code" gorm:"unique"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	IsActive   bool   `json:"is_active" gorm:"default:true"`
	CreatedBy  int
	UpdatedBy  int
	DeletedBy  int
}

type Location struct {
	gorm.Model
	LocationCode string `json:"location_code" gorm:"unique"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	IsActive     bool   `json:"is_active" gorm:"default:true"`
	CreatedBy    int
	UpdatedBy    int
	DeletedBy    int
}

type Category struct {
	gorm.Model
	Code      string `json:"code" gorm:"unique"`
	Name      string `json:"name"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

type Uom struct {
	gorm.Model
	Code      string `json:"code" gorm:"unique"`
	Name      string `json:"name"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}

// DocumentNumber keeps the per-prefix, per-location running counter behind
// utils.GenerateCode.
type DocumentNumber struct {
	gorm.Model
	Prefix     string `gorm:"index:idx_doc_prefix_location,unique"`
	LocationID uint   `gorm:"index:idx_doc_prefix_location,unique"`
	LastNumber int    `gorm:"default:0"`
}
