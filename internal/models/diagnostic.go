package models

import (
	"time"

	"gorm.io/gorm"
)

type Diagnostic struct {
	gorm.Model
	IncidenceID uint
	Incidence   Incidence

	// Desnormalizado de la incidencia para consultas de reporte.
	AssetID uint
	Asset   Asset

	TechnicianID uint
	Technician   User

	Narrative      string `gorm:"type:text;not null"`
	DiagnosticDate time.Time

	// Campos estructurados; el motivo/autorizó sólo aplican cuando
	// el diagnóstico propone baja.
	UsageTime    string `gorm:"size:255"`
	Motive       string `gorm:"type:text"`
	AuthorizedBy string `gorm:"size:255"`
	Observations string `gorm:"type:text"`

	// Especificaciones opcionales según el tipo de activo.
	Processor string `gorm:"size:100"`
	RAM       string `gorm:"size:50"`
	Storage   string `gorm:"size:50"`
}
