package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"gestion-activos/internal/database"
	"gestion-activos/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// LISTADO DE ACTIVOS

func ListAssets(c *gin.Context) {
	sess := sessions.Default(c)
	roleStr, _ := sess.Get("role").(string)

	statusFilter := c.Query("estado")

	dbq := database.DB.Preload("Category").Preload("Area").Order("id asc")
	if statusFilter != "" {
		dbq = dbq.Where("status = ?", statusFilter)
	}

	var assets []models.Asset
	dbq.Find(&assets)

	render(c, http.StatusOK, "activos_list.html", gin.H{
		"assets":       assets,
		"role":         roleStr,
		"FilterEstado": statusFilter,
	})
}

// ALTA DE ACTIVO

func ShowNewAsset(c *gin.Context) {
	var areas []models.Area
	database.DB.Order("name asc").Find(&areas)

	var categories []models.Category
	database.DB.Order("name asc").Find(&categories)

	render(c, http.StatusOK, "activos_new.html", gin.H{
		"areas":      areas,
		"categories": categories,
		"error":      "",
	})
}

func CreateAsset(c *gin.Context) {
	serial := strings.TrimSpace(c.PostForm("serial_number"))
	brand := strings.TrimSpace(c.PostForm("brand"))
	model := strings.TrimSpace(c.PostForm("model"))
	ownerName := strings.TrimSpace(c.PostForm("owner_name"))
	ownerContact := strings.TrimSpace(c.PostForm("owner_contact"))
	categoryIDStr := c.PostForm("category_id")
	areaIDStr := c.PostForm("area_id")
	purchaseDateStr := c.PostForm("purchase_date")
	listPriceStr := c.PostForm("list_price")

	if len(serial) < 3 {
		renderAssetError(c, "El número de serie debe tener al menos 3 caracteres")
		return
	}
	if brand == "" || model == "" {
		renderAssetError(c, "Marca y modelo son obligatorios")
		return
	}

	var category models.Category
	if err := database.DB.First(&category, categoryIDStr).Error; err != nil {
		renderAssetError(c, "Categoría no encontrada")
		return
	}

	var area models.Area
	if err := database.DB.First(&area, areaIDStr).Error; err != nil {
		renderAssetError(c, "Área no encontrada")
		return
	}

	var purchaseDate *time.Time
	if purchaseDateStr != "" {
		if t, err := time.Parse("2006-01-02", purchaseDateStr); err == nil {
			purchaseDate = &t
		}
	}

	var listPrice float64
	if listPriceStr != "" {
		p, err := strconv.ParseFloat(listPriceStr, 64)
		if err != nil || p < 0 {
			renderAssetError(c, "Precio de lista no válido")
			return
		}
		listPrice = p
	}

	var count int64
	database.DB.Model(&models.Asset{}).
		Where("serial_number = ?", serial).
		Count(&count)
	if count > 0 {
		renderAssetError(c, "Ya existe un activo con ese número de serie")
		return
	}

	asset := models.Asset{
		CategoryID:   category.ID,
		AreaID:       area.ID,
		OwnerName:    ownerName,
		OwnerContact: ownerContact,
		Brand:        brand,
		ModelName:    model,
		Status:       models.AssetStatusActive,
		PurchaseDate: purchaseDate,
		ListPrice:    listPrice,
		SerialNumber: serial,
	}

	if err := database.DB.Create(&asset).Error; err != nil {
		renderAssetError(c, "Error al guardar el activo")
		return
	}

	sess := sessions.Default(c)
	if uid, ok := sess.Get("user_id").(uint); ok {
		database.CreateAuditLog(uid, "activo", asset.ID, "create",
			"Alta de activo: "+asset.Brand+" "+asset.ModelName+" ("+asset.SerialNumber+")")
	}

	c.Redirect(http.StatusFound, "/activos")
}

func renderAssetError(c *gin.Context, msg string) {
	var areas []models.Area
	database.DB.Order("name asc").Find(&areas)

	var categories []models.Category
	database.DB.Order("name asc").Find(&categories)

	render(c, http.StatusBadRequest, "activos_new.html", gin.H{
		"error":      msg,
		"areas":      areas,
		"categories": categories,
	})
}

// DETALLE

func ShowAssetDetail(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		c.String(http.StatusBadRequest, "ID de activo no válido")
		return
	}

	var asset models.Asset
	if err := database.DB.
		Preload("Category").
		Preload("Area").
		First(&asset, id).Error; err != nil {
		c.String(http.StatusNotFound, "Activo no encontrado")
		return
	}

	var incidences []models.Incidence
	database.DB.Where("asset_id = ?", asset.ID).
		Order("created_at desc").
		Find(&incidences)

	render(c, http.StatusOK, "activo_detail.html", gin.H{
		"asset":      asset,
		"incidences": incidences,
	})
}
