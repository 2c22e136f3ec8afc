package workflow

import (
	"errors"
	"strings"
)

var (
	ErrNotFound              = errors.New("registro no encontrado")
	ErrIncidenceClosed       = errors.New("la incidencia ya está cerrada")
	ErrIncidenceCancelled    = errors.New("la incidencia está cancelada")
	ErrInvalidStatus         = errors.New("estado de incidencia no válido")
	ErrAlreadyDecommissioned = errors.New("el activo ya fue dado de baja")
)

// ValidationError agrupa los mensajes de campo para re-pintar la forma.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}
