// Package workflow contiene la lógica de negocio con invariantes: el alta
// transaccional de diagnósticos con baja condicional y la transición de
// estado de incidencias.
package workflow

import (
	"errors"
	"log/slog"
	"time"

	"gestion-activos/internal/evidence"
	"gestion-activos/internal/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// EvidenceStore es el canal secundario de imágenes; se invoca después del
// commit y sus fallas sólo se registran en bitácora.
type EvidenceStore interface {
	Put(diagnosticID uint, images []evidence.Image) error
}

type Service struct {
	db       *gorm.DB
	validate *validator.Validate
	evidence EvidenceStore

	// Captura de especificaciones técnicas; se fija al arranque.
	specColumns bool
}

func NewService(db *gorm.DB, ev EvidenceStore, specColumns bool) *Service {
	return &Service{
		db:          db,
		validate:    validator.New(),
		evidence:    ev,
		specColumns: specColumns,
	}
}

// SubmissionInput es la carga ya ligada de la forma de diagnóstico.
// Cuando Decommission es "SI", motivo y autorización se vuelven
// obligatorios.
type SubmissionInput struct {
	Narrative      string `validate:"required,min=10"`
	DiagnosticDate string `validate:"omitempty,datetime=2006-01-02"`
	Signature      string `validate:"required,min=3"`
	UsageTime      string

	Decommission string `validate:"omitempty,oneof=SI NO"`
	Motive       string `validate:"required_if=Decommission SI"`
	AuthorizedBy string `validate:"required_if=Decommission SI"`
	Observations string

	Processor string
	RAM       string
	Storage   string

	Images []evidence.Image `validate:"-"`
}

type SubmissionResult struct {
	DiagnosticID uint
	Decommission *models.Decommission
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Narrative":
		return "El diagnóstico debe tener al menos 10 caracteres"
	case "DiagnosticDate":
		return "La fecha del diagnóstico no es válida (AAAA-MM-DD)"
	case "Signature":
		return "La firma del técnico es obligatoria"
	case "Decommission":
		return "El indicador de baja debe ser SI o NO"
	case "Motive":
		return "El motivo es obligatorio cuando se solicita la baja"
	case "AuthorizedBy":
		return "Indique quién autoriza la baja"
	}
	return "Dato no válido: " + fe.Field()
}

// SubmitDiagnostic registra un diagnóstico contra una incidencia abierta y,
// si se solicita, levanta el acta de baja y marca el activo como BAJA — todo
// o nada dentro de una transacción. La evidencia se persiste después del
// commit como mejor esfuerzo.
func (s *Service) SubmitDiagnostic(incidenceID, technicianID uint, in SubmissionInput) (*SubmissionResult, error) {
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			ve := &ValidationError{}
			for _, fe := range verrs {
				ve.Messages = append(ve.Messages, fieldMessage(fe))
			}
			return nil, ve
		}
		return nil, err
	}

	if !s.specColumns {
		in.Processor, in.RAM, in.Storage = "", "", ""
	}

	var inc models.Incidence
	if err := s.db.First(&inc, incidenceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if inc.Status == models.IncidenceClosed {
		return nil, ErrIncidenceClosed
	}

	diagDate := time.Now()
	if in.DiagnosticDate != "" {
		d, err := time.Parse("2006-01-02", in.DiagnosticDate)
		if err == nil {
			diagDate = d
		}
	}

	diag := models.Diagnostic{
		IncidenceID:    inc.ID,
		AssetID:        inc.AssetID,
		TechnicianID:   technicianID,
		Narrative:      in.Narrative,
		DiagnosticDate: diagDate,
		UsageTime:      in.UsageTime,
		Observations:   in.Observations,
		Processor:      in.Processor,
		RAM:            in.RAM,
		Storage:        in.Storage,
	}

	var baja *models.Decommission

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var asset models.Asset
		if err := tx.First(&asset, inc.AssetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if in.Decommission == "SI" {
			diag.Motive = in.Motive
			diag.AuthorizedBy = in.AuthorizedBy
		}

		if err := tx.Create(&diag).Error; err != nil {
			return err
		}

		if in.Decommission != "SI" {
			return nil
		}

		baja = &models.Decommission{
			AssetID:      asset.ID,
			DiagnosticID: diag.ID,
			Date:         diagDate,
		}
		if err := tx.Create(baja).Error; err != nil {
			return err
		}

		// Guardia contra la doble baja: sólo un escritor puede voltear el
		// estado; cero renglones afectados significa que alguien ganó antes.
		res := tx.Model(&models.Asset{}).
			Where("id = ? AND status <> ?", asset.ID, models.AssetStatusBaja).
			Update("status", models.AssetStatusBaja)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyDecommissioned
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(in.Images) > 0 && s.evidence != nil {
		if err := s.evidence.Put(diag.ID, in.Images); err != nil {
			// la evidencia es suplementaria: el diagnóstico ya quedó firme
			slog.Error("failed to persist evidence",
				"diagnostic_id", diag.ID, "error", err)
		}
	}

	return &SubmissionResult{
		DiagnosticID: diag.ID,
		Decommission: baja,
	}, nil
}
