package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gestion-activos/internal/database"
	"gestion-activos/internal/models"
	"gestion-activos/internal/workflow"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// LISTADO DE INCIDENCIAS + filtros

func ListIncidences(c *gin.Context) {
	sess := sessions.Default(c)
	roleStr, _ := sess.Get("role").(string)
	role := models.UserRole(roleStr)

	statusStr := c.Query("estado")
	priorityStr := c.Query("prioridad")

	dbq := database.DB.Preload("Asset").Preload("Reporter").Order("created_at desc")

	if statusStr != "" {
		dbq = dbq.Where("status = ?", statusStr)
	}
	if priorityStr != "" {
		dbq = dbq.Where("priority = ?", priorityStr)
	}

	var incidences []models.Incidence
	if err := dbq.Find(&incidences).Error; err != nil {
		c.String(http.StatusInternalServerError, "Error al cargar las incidencias")
		return
	}

	render(c, http.StatusOK, "incidencias_list.html", gin.H{
		"incidences":      incidences,
		"FilterEstado":    statusStr,
		"FilterPrioridad": priorityStr,
		"exito":           c.Query("exito"),

		"IsAdmin":   role == models.RoleAdmin,
		"IsTecnico": role == models.RoleTecnico,
	})
}

// REGISTRO DE INCIDENCIA

func ShowNewIncidence(c *gin.Context) {
	var assets []models.Asset
	database.DB.Where("status <> ?", models.AssetStatusBaja).
		Order("serial_number asc").Find(&assets)

	render(c, http.StatusOK, "incidencias_new.html", gin.H{
		"assets": assets,
		"error":  "",
	})
}

func CreateIncidence(c *gin.Context) {
	description := strings.TrimSpace(c.PostForm("description"))
	assetIDStr := c.PostForm("asset_id")
	incType := strings.TrimSpace(c.PostForm("type"))
	origin := strings.TrimSpace(c.PostForm("origin"))
	priority := strings.TrimSpace(c.PostForm("priority"))
	contactName := strings.TrimSpace(c.PostForm("contact_name"))
	contactType := strings.TrimSpace(c.PostForm("contact_type"))
	contactData := strings.TrimSpace(c.PostForm("contact_data"))

	if len(description) < 10 {
		renderIncidenceError(c, "La descripción debe tener al menos 10 caracteres")
		return
	}

	switch priority {
	case "baja", "media", "alta":
	default:
		renderIncidenceError(c, "Prioridad no válida")
		return
	}

	aid, err := strconv.Atoi(assetIDStr)
	if err != nil || aid <= 0 {
		renderIncidenceError(c, "Seleccione un activo")
		return
	}

	var asset models.Asset
	if err := database.DB.First(&asset, aid).Error; err != nil {
		renderIncidenceError(c, "Activo no encontrado")
		return
	}

	inc := models.Incidence{
		Description: description,
		Status:      models.IncidenceOpen,
		Type:        incType,
		Origin:      origin,
		Priority:    priority,
		AssetID:     asset.ID,
	}

	// Exactamente un reportante: contacto externo completo o el usuario
	// de la sesión, nunca ambos.
	sess := sessions.Default(c)
	if contactName != "" {
		if contactType == "" || contactData == "" {
			renderIncidenceError(c, "Complete tipo y datos del contacto externo")
			return
		}
		inc.ContactName = contactName
		inc.ContactType = contactType
		inc.ContactData = contactData
	} else {
		uid, ok := sess.Get("user_id").(uint)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		inc.ReporterID = &uid
	}

	if err := database.DB.Create(&inc).Error; err != nil {
		renderIncidenceError(c, "Error al guardar la incidencia")
		return
	}

	if uid, ok := sess.Get("user_id").(uint); ok {
		database.CreateAuditLog(uid, "incidencia", inc.ID, "create",
			"Incidencia registrada: "+inc.Description)
	}

	c.Redirect(http.StatusFound, "/incidencias")
}

func renderIncidenceError(c *gin.Context, msg string) {
	var assets []models.Asset
	database.DB.Where("status <> ?", models.AssetStatusBaja).
		Order("serial_number asc").Find(&assets)

	render(c, http.StatusBadRequest, "incidencias_new.html", gin.H{
		"error":  msg,
		"assets": assets,
	})
}

// DETALLE

func ShowIncidenceDetail(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "ID de incidencia no válido")
		return
	}

	var inc models.Incidence
	if err := database.DB.
		Preload("Asset").
		Preload("Asset.Category").
		Preload("Asset.Area").
		Preload("Reporter").
		First(&inc, id).Error; err != nil {
		c.String(http.StatusNotFound, "Incidencia no encontrada")
		return
	}

	var diagnostics []models.Diagnostic
	database.DB.Preload("Technician").
		Where("incidence_id = ?", inc.ID).
		Order("created_at desc").
		Find(&diagnostics)

	sess := sessions.Default(c)
	roleStr, _ := sess.Get("role").(string)
	role := models.UserRole(roleStr)

	render(c, http.StatusOK, "incidencia_detail.html", gin.H{
		"incidence":   inc,
		"diagnostics": diagnostics,
		"exito":       c.Query("exito"),
		"diagnostico": c.Query("diagnostico"),
		"baja":        c.Query("baja"),
		"reporte":     c.Query("reporte"),

		"CanDiagnose": role == models.RoleAdmin || role == models.RoleTecnico,
	})
}

// CAMBIO DE ESTADO

func ChangeIncidenceStatus(c *gin.Context) {
	idStr := c.Param("id")
	statusStr := c.PostForm("estado")

	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "ID de incidencia no válido")
		return
	}

	err = flow.TransitionIncidence(uint(id), models.IncidenceStatus(statusStr))
	switch {
	case err == nil:
	case errors.Is(err, workflow.ErrNotFound):
		c.String(http.StatusNotFound, "Incidencia no encontrada")
		return
	case errors.Is(err, workflow.ErrInvalidStatus),
		errors.Is(err, workflow.ErrIncidenceCancelled):
		c.Redirect(http.StatusFound, "/incidencias/"+idStr+"?exito=0")
		return
	default:
		c.Redirect(http.StatusFound, "/incidencias/"+idStr+"?exito=0")
		return
	}

	sess := sessions.Default(c)
	if uid, ok := sess.Get("user_id").(uint); ok {
		database.CreateAuditLog(uid, "incidencia", uint(id), "status_change",
			"Estado cambiado a: "+statusStr)
	}

	c.Redirect(http.StatusFound, "/incidencias/"+idStr+"?exito=1")
}
