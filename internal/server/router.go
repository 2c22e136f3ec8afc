package server

import (
	"html/template"
	"net/http"

	"gestion-activos/internal/config"
	"gestion-activos/internal/database"
	"gestion-activos/internal/evidence"
	"gestion-activos/internal/handlers"
	"gestion-activos/internal/middleware"
	"gestion-activos/internal/models"
	"gestion-activos/internal/workflow"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Static("/static", "./web/static")

	r.SetFuncMap(template.FuncMap{
		"eq": func(a, b interface{}) bool { return a == b },
	})
	r.LoadHTMLGlob("web/templates/*.html")

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("activos_session", store))

	r.Use(middleware.AccessLog())
	r.Use(middleware.InjectUser())

	evStore := evidence.NewStore(cfg.EvidenceDir)
	flow := workflow.NewService(database.DB, evStore, cfg.AssetSpecColumns)
	handlers.Init(flow, evStore, cfg.AssetSpecColumns)

	// PORTADA
	r.GET("/", handlers.IndexPage)

	// AUTH
	r.GET("/login", handlers.ShowLogin)
	r.POST("/login", handlers.Login)
	r.GET("/logout", handlers.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	// registro de usuarios — sólo admin
	auth.GET("/registro",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ShowRegister,
	)
	auth.POST("/registro",
		middleware.RequireRole(models.RoleAdmin),
		handlers.Register,
	)

	// ACTIVOS
	auth.GET("/activos", handlers.ListAssets)
	auth.GET("/activos/nuevo",
		middleware.RequireRole(models.RoleAdmin, models.RoleCapturista),
		handlers.ShowNewAsset,
	)
	auth.POST("/activos/nuevo",
		middleware.RequireRole(models.RoleAdmin, models.RoleCapturista),
		handlers.CreateAsset,
	)
	auth.GET("/activos/:id", handlers.ShowAssetDetail)

	// INCIDENCIAS
	auth.GET("/incidencias", handlers.ListIncidences)
	auth.GET("/incidencias/nueva", handlers.ShowNewIncidence)
	auth.POST("/incidencias/nueva", handlers.CreateIncidence)
	auth.GET("/incidencias/:id", handlers.ShowIncidenceDetail)
	auth.POST("/incidencias/:id/estado", handlers.ChangeIncidenceStatus)

	// DIAGNÓSTICOS — técnicos y admin
	auth.GET("/incidencias/:id/diagnosticos/nuevo",
		middleware.RequireRole(models.RoleAdmin, models.RoleTecnico),
		handlers.ShowNewDiagnostic,
	)
	auth.POST("/incidencias/:id/diagnosticos",
		middleware.RequireRole(models.RoleAdmin, models.RoleTecnico),
		handlers.CreateDiagnostic,
	)
	auth.GET("/diagnosticos/:id/pdf",
		middleware.RequireRole(models.RoleAdmin, models.RoleTecnico),
		handlers.DiagnosticPDF,
	)

	// BAJAS — vista restringida
	auth.GET("/bajas",
		middleware.RequireRole(models.RoleAdmin, models.RoleTecnico),
		handlers.ListDecommissions,
	)
	auth.GET("/bajas/:id/pdf",
		middleware.RequireRole(models.RoleAdmin, models.RoleTecnico),
		handlers.DecommissionPDF,
	)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
