package workflow

import (
	"fmt"

	"gestion-activos/internal/models"
)

// GenerateFolio devuelve el folio legible del acta de baja. Si el registro
// ya trae folio almacenado se respeta tal cual; si no, se deriva de la
// fecha de baja y el identificador: BAJ-YYYYMMDD-NNNNNN.
func GenerateFolio(d *models.Decommission) string {
	if d.Folio != "" {
		return d.Folio
	}
	return fmt.Sprintf("BAJ-%s-%06d", d.Date.Format("20060102"), d.ID)
}
