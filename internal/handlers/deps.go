package handlers

import (
	"gestion-activos/internal/evidence"
	"gestion-activos/internal/workflow"
)

var (
	flow      *workflow.Service
	evStore   *evidence.Store
	showSpecs bool
)

// Init conecta los servicios compartidos por los handlers.
func Init(svc *workflow.Service, ev *evidence.Store, specColumns bool) {
	flow = svc
	evStore = ev
	showSpecs = specColumns
}
