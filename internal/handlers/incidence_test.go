package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"gestion-activos/internal/database"
	"gestion-activos/internal/models"
	"gestion-activos/internal/workflow"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Area{},
		&models.Category{},
		&models.Asset{},
		&models.Incidence{},
		&models.Diagnostic{},
		&models.Decommission{},
		&models.AuditLog{},
	))
	database.DB = db

	Init(workflow.NewService(db, nil, true), nil, true)

	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("secret"))))
	r.POST("/incidencias/:id/estado", ChangeIncidenceStatus)
	r.POST("/incidencias/:id/diagnosticos", CreateDiagnostic)
	return r
}

func seedIncidence(t *testing.T, status models.IncidenceStatus) models.Incidence {
	t.Helper()

	asset := models.Asset{SerialNumber: "SN-test", Status: models.AssetStatusActive}
	require.NoError(t, database.DB.Create(&asset).Error)

	inc := models.Incidence{
		Description: "El equipo no responde al encendido",
		Status:      status,
		Priority:    "media",
		AssetID:     asset.ID,
		ContactName: "Externo",
		ContactType: "telefono",
		ContactData: "555-0100",
	}
	require.NoError(t, database.DB.Create(&inc).Error)
	return inc
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChangeIncidenceStatusSuccess(t *testing.T) {
	r := setupTest(t)
	inc := seedIncidence(t, models.IncidenceOpen)

	w := postForm(r, "/incidencias/1/estado", url.Values{"estado": {"CERRADA"}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "exito=1")

	var got models.Incidence
	require.NoError(t, database.DB.First(&got, inc.ID).Error)
	assert.Equal(t, models.IncidenceClosed, got.Status)
	assert.NotNil(t, got.ClosedAt)
}

func TestChangeIncidenceStatusInvalid(t *testing.T) {
	r := setupTest(t)
	inc := seedIncidence(t, models.IncidenceOpen)

	w := postForm(r, "/incidencias/1/estado", url.Values{"estado": {"RESUELTA"}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "exito=0")

	var got models.Incidence
	require.NoError(t, database.DB.First(&got, inc.ID).Error)
	assert.Equal(t, models.IncidenceOpen, got.Status)
}

func TestChangeIncidenceStatusNotFound(t *testing.T) {
	r := setupTest(t)

	w := postForm(r, "/incidencias/999/estado", url.Values{"estado": {"CERRADA"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Sin técnico en sesión el alta de diagnóstico es una falla de
// autenticación, no de validación: redirige a login sin tocar nada.
func TestCreateDiagnosticWithoutSession(t *testing.T) {
	r := setupTest(t)
	seedIncidence(t, models.IncidenceOpen)

	w := postForm(r, "/incidencias/1/diagnosticos", url.Values{
		"diagnostico": {"Diagnóstico de prueba suficiente"},
		"firma":       {"Juan Pérez"},
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	var diagCount int64
	database.DB.Model(&models.Diagnostic{}).Count(&diagCount)
	assert.EqualValues(t, 0, diagCount)
}
