package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	AssetStatusActive = "ACTIVO"
	AssetStatusBaja   = "BAJA"
)

type Asset struct {
	gorm.Model
	CategoryID uint
	Category   Category

	AreaID uint
	Area   Area

	OwnerName    string `gorm:"size:255"`
	OwnerContact string `gorm:"size:255"`

	Brand     string `gorm:"size:100"`
	ModelName string `gorm:"size:100;column:model"`

	// Estado libre; sólo el flujo de baja escribe "BAJA".
	Status string `gorm:"size:50;not null;default:ACTIVO"`

	PurchaseDate *time.Time
	ListPrice    float64
	SerialNumber string `gorm:"size:100;uniqueIndex"`
}
