package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gestion-activos/internal/database"
	"gestion-activos/internal/evidence"
	"gestion-activos/internal/models"
	"gestion-activos/internal/signature"
	"gestion-activos/internal/workflow"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// FORMA DE DIAGNÓSTICO

func ShowNewDiagnostic(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "ID de incidencia no válido")
		return
	}

	var inc models.Incidence
	if err := database.DB.Preload("Asset").First(&inc, id).Error; err != nil {
		c.String(http.StatusNotFound, "Incidencia no encontrada")
		return
	}

	var warning string
	if inc.Status == models.IncidenceClosed {
		warning = "La incidencia está cerrada; no admite nuevos diagnósticos"
	}

	render(c, http.StatusOK, "diagnosticos_new.html", gin.H{
		"incidence": inc,
		"ShowSpecs": showSpecs,
		"warning":   warning,
		"errors":    []string{},
		"form":      gin.H{},
	})
}

func readSubmissionForm(c *gin.Context) workflow.SubmissionInput {
	return workflow.SubmissionInput{
		Narrative:      strings.TrimSpace(c.PostForm("diagnostico")),
		DiagnosticDate: strings.TrimSpace(c.PostForm("fecha_diagnostico")),
		Signature:      strings.TrimSpace(c.PostForm("firma")),
		UsageTime:      strings.TrimSpace(c.PostForm("tiempo_uso")),
		Decommission:   strings.TrimSpace(c.PostForm("baja")),
		Motive:         strings.TrimSpace(c.PostForm("motivo")),
		AuthorizedBy:   strings.TrimSpace(c.PostForm("autorizo")),
		Observations:   strings.TrimSpace(c.PostForm("observaciones")),
		Processor:      strings.TrimSpace(c.PostForm("procesador")),
		RAM:            strings.TrimSpace(c.PostForm("ram")),
		Storage:        strings.TrimSpace(c.PostForm("almacenamiento")),
		Images:         evidence.ParseDataURLs(c.PostForm("evidencias")),
	}
}

// CreateDiagnostic ejecuta el flujo transaccional de diagnóstico/baja y
// construye la redirección de confirmación.
func CreateDiagnostic(c *gin.Context) {
	sess := sessions.Default(c)
	technicianID, ok := sess.Get("user_id").(uint)
	if !ok || technicianID == 0 {
		// sin sesión de técnico no hay validación que hacer
		c.Redirect(http.StatusFound, "/login")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "ID de incidencia no válido")
		return
	}

	input := readSubmissionForm(c)

	result, err := flow.SubmitDiagnostic(uint(id), technicianID, input)
	if err != nil {
		var verr *workflow.ValidationError
		switch {
		case errors.As(err, &verr):
			renderDiagnosticError(c, uint(id), input, verr.Messages)
		case errors.Is(err, workflow.ErrNotFound):
			c.String(http.StatusNotFound, "Incidencia o activo no encontrado")
		case errors.Is(err, workflow.ErrIncidenceClosed):
			renderDiagnosticError(c, uint(id), input,
				[]string{"La incidencia está cerrada; no admite nuevos diagnósticos"})
		case errors.Is(err, workflow.ErrAlreadyDecommissioned):
			renderDiagnosticError(c, uint(id), input,
				[]string{"El activo ya fue dado de baja por otro diagnóstico"})
		default:
			renderDiagnosticError(c, uint(id), input,
				[]string{"Error al guardar el diagnóstico; no se registró ningún cambio"})
		}
		return
	}

	// firma de consumo único para el PDF del diagnóstico
	signature.Store(c, result.DiagnosticID, input.Signature)

	database.CreateAuditLog(technicianID, "incidencia", uint(id), "diagnostico",
		fmt.Sprintf("Diagnóstico %d registrado", result.DiagnosticID))

	target := fmt.Sprintf("/incidencias/%d?exito=1&diagnostico=%d", id, result.DiagnosticID)
	if result.Decommission != nil {
		database.CreateAuditLog(technicianID, "baja", result.Decommission.ID, "create",
			fmt.Sprintf("Baja del activo %d", result.Decommission.AssetID))
		target += fmt.Sprintf("&baja=%d&fecha_baja=%s&reporte=/bajas/%d/pdf",
			result.Decommission.ID,
			result.Decommission.Date.Format("2006-01-02"),
			result.Decommission.ID)
	}

	c.Redirect(http.StatusFound, target)
}

func renderDiagnosticError(c *gin.Context, incidenceID uint, input workflow.SubmissionInput, msgs []string) {
	var inc models.Incidence
	if err := database.DB.Preload("Asset").First(&inc, incidenceID).Error; err != nil {
		c.String(http.StatusNotFound, "Incidencia no encontrada")
		return
	}

	// la forma se vuelve a pintar con lo capturado para no perder el texto
	render(c, http.StatusBadRequest, "diagnosticos_new.html", gin.H{
		"incidence": inc,
		"ShowSpecs": showSpecs,
		"warning":   "",
		"errors":    msgs,
		"form": gin.H{
			"diagnostico":       input.Narrative,
			"fecha_diagnostico": input.DiagnosticDate,
			"firma":             input.Signature,
			"tiempo_uso":        input.UsageTime,
			"baja":              input.Decommission,
			"motivo":            input.Motive,
			"autorizo":          input.AuthorizedBy,
			"observaciones":     input.Observations,
			"procesador":        input.Processor,
			"ram":               input.RAM,
			"almacenamiento":    input.Storage,
		},
	})
}
