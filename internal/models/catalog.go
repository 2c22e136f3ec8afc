package models

import "gorm.io/gorm"

// Área física donde vive un activo (piso, laboratorio, oficina...).
type Area struct {
	gorm.Model
	Name       string `gorm:"size:100;not null"`
	Department string `gorm:"size:100"`
}

// Categoría de activo (equipo de cómputo, mobiliario, periférico...).
type Category struct {
	gorm.Model
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"type:text"`
}
