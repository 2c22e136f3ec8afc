package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gestion-activos/internal/database"
	"gestion-activos/internal/models"
	"gestion-activos/internal/report"
	"gestion-activos/internal/signature"
	"gestion-activos/internal/workflow"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func sendPDF(c *gin.Context, filename string, pdf []byte) {
	disposition := "inline"
	if c.Query("descargar") == "1" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition",
		fmt.Sprintf(`%s; filename="%s"`, disposition, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// PDF DE DIAGNÓSTICO

func DiagnosticPDF(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "ID de diagnóstico no válido")
		return
	}

	var diag models.Diagnostic
	if err := database.DB.
		Preload("Incidence").
		Preload("Asset").
		Preload("Asset.Category").
		Preload("Asset.Area").
		Preload("Technician").
		First(&diag, id).Error; err != nil {
		c.String(http.StatusNotFound, "Diagnóstico no encontrado")
		return
	}

	var baja *models.Decommission
	var found models.Decommission
	if err := database.DB.Where("diagnostic_id = ?", diag.ID).First(&found).Error; err == nil {
		baja = &found
	}

	images, err := evStore.Get(diag.ID)
	if err != nil {
		// el reporte sale sin evidencia antes que fallar completo
		images = nil
	}

	// la firma se consume aquí: una segunda impresión sale sin ella
	sig, _ := signature.Consume(c, diag.ID)

	pdf, err := report.RenderDiagnostic(report.DiagnosticData{
		Diagnostic:   diag,
		Decommission: baja,
		Signature:    sig,
		Images:       images,
		ShowSpecs:    showSpecs,
	})
	if err != nil {
		c.String(http.StatusInternalServerError, "Error al generar el reporte")
		return
	}

	sendPDF(c, fmt.Sprintf("diagnostico-%d.pdf", diag.ID), pdf)
}

// PDF DE ACTA DE BAJA

func DecommissionPDF(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "ID de baja no válido")
		return
	}

	var baja models.Decommission
	if err := database.DB.
		Preload("Asset").
		Preload("Asset.Category").
		Preload("Asset.Area").
		Preload("Diagnostic").
		Preload("Diagnostic.Technician").
		First(&baja, id).Error; err != nil {
		c.String(http.StatusNotFound, "Acta de baja no encontrada")
		return
	}

	folio := workflow.GenerateFolio(&baja)

	// primera impresión: se fija el folio; las siguientes sellan reimpresión
	if baja.Folio == "" {
		database.DB.Model(&baja).Update("folio", folio)
	} else {
		now := time.Now()
		database.DB.Model(&baja).Update("reprinted_at", now)
		baja.ReprintedAt = &now

		sess := sessions.Default(c)
		if uid, ok := sess.Get("user_id").(uint); ok {
			database.CreateAuditLog(uid, "baja", baja.ID, "reprint", "Reimpresión del acta "+folio)
		}
	}

	pdf, err := report.RenderDecommission(report.DecommissionData{
		Decommission: baja,
		Folio:        folio,
	})
	if err != nil {
		c.String(http.StatusInternalServerError, "Error al generar el acta")
		return
	}

	sendPDF(c, fmt.Sprintf("acta-baja-%s.pdf", folio), pdf)
}

// LISTADO DE BAJAS

func ListDecommissions(c *gin.Context) {
	var bajas []models.Decommission
	database.DB.
		Preload("Asset").
		Preload("Diagnostic").
		Preload("Diagnostic.Technician").
		Order("date desc").
		Find(&bajas)

	folios := make(map[uint]string, len(bajas))
	for i := range bajas {
		folios[bajas[i].ID] = workflow.GenerateFolio(&bajas[i])
	}

	render(c, http.StatusOK, "bajas_list.html", gin.H{
		"bajas":  bajas,
		"folios": folios,
	})
}
