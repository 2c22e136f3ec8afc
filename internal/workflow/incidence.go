package workflow

import (
	"errors"
	"time"

	"gestion-activos/internal/models"

	"gorm.io/gorm"
)

// TransitionIncidence actualiza el estado de una incidencia. Al pasar a
// CERRADA se sella la fecha de cierre con la hora actual; cualquier otro
// destino la limpia. Un estado desconocido se rechaza antes de tocar la
// base; una incidencia CANCELADA es inmutable.
func (s *Service) TransitionIncidence(incidenceID uint, target models.IncidenceStatus) error {
	if !models.ValidIncidenceStatus(target) {
		return ErrInvalidStatus
	}

	var inc models.Incidence
	if err := s.db.First(&inc, incidenceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if inc.Status == models.IncidenceCancelled {
		return ErrIncidenceCancelled
	}

	var closedAt *time.Time
	if target == models.IncidenceClosed {
		now := time.Now()
		closedAt = &now
	}

	return s.db.Model(&models.Incidence{}).
		Where("id = ?", inc.ID).
		Updates(map[string]interface{}{
			"status":    target,
			"closed_at": closedAt,
		}).Error
}
