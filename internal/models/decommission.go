package models

import (
	"time"

	"gorm.io/gorm"
)

// Decommission — acta de baja de un activo. Siempre referencia exactamente
// un diagnóstico; el índice único sobre AssetID impide dos bajas para el
// mismo activo.
type Decommission struct {
	gorm.Model
	AssetID uint `gorm:"uniqueIndex;not null"`
	Asset   Asset

	DiagnosticID uint `gorm:"uniqueIndex;not null"`
	Diagnostic   Diagnostic

	Date        time.Time
	ReprintedAt *time.Time

	// Vacío hasta la primera impresión; ver workflow.GenerateFolio.
	Folio string `gorm:"size:32"`
}
