package models

import (
	"time"

	"gorm.io/gorm"
)

type IncidenceStatus string

const (
	IncidenceOpen       IncidenceStatus = "ABIERTA"
	IncidenceInProgress IncidenceStatus = "EN_PROCESO"
	IncidenceClosed     IncidenceStatus = "CERRADA"
	IncidenceCancelled  IncidenceStatus = "CANCELADA"
)

// ValidIncidenceStatus reporta si s es uno de los cuatro estados conocidos.
func ValidIncidenceStatus(s IncidenceStatus) bool {
	switch s {
	case IncidenceOpen, IncidenceInProgress, IncidenceClosed, IncidenceCancelled:
		return true
	}
	return false
}

type Incidence struct {
	gorm.Model
	Description string          `gorm:"type:text;not null"`
	Status      IncidenceStatus `gorm:"type:varchar(20);not null"`
	Type        string          `gorm:"size:50"`
	Origin      string          `gorm:"size:50"`
	Priority    string          `gorm:"size:20"`

	// Exactamente uno de {ReporterID, Contact*} va poblado.
	ReporterID *uint
	Reporter   *User

	ContactName string `gorm:"size:255"`
	ContactType string `gorm:"size:50"`
	ContactData string `gorm:"size:255"`

	AssetID uint
	Asset   Asset

	// Nulo salvo en estado CERRADA.
	ClosedAt *time.Time

	Diagnostics []Diagnostic
}
