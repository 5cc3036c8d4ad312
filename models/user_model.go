package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Username   string       `json:"username" gorm:"unique"`
	Password   string       `json:"password"`
	Name       string       `json:"name"`
	Email      string       `json:"email" gorm:"unique"`
	CompanyID  int          `json:"company_id"`
	LocationID uint         `json:"location_id"`
	Roles      []Role       `gorm:"many2many:user_roles;"`
	CreatedBy  int
	UpdatedBy  int
	DeletedBy  int
}

// Role Model
type Role struct {
	gorm.Model
	Name        string
	Description string
	Permissions []Permission `gorm:"many2many:role_permissions;"`
}

// Permission Model
type Permission struct {
	gorm.Model
	Name        string
	Description string
}

type LoginLog struct {
	gorm.Model
	UserID    uint   `json:"user_id"`
	SessionID string `json:"session_id"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}
