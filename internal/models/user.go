package models

import "gorm.io/gorm"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleTecnico    UserRole = "tecnico"
	RoleCapturista UserRole = "capturista"
)

type User struct {
	gorm.Model
	Username     string   `gorm:"uniqueIndex;size:50;not null"`
	FullName     string   `gorm:"size:255"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null"`
}
