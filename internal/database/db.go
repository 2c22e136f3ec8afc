package database

import (
	"log"
	"os"
	"time"

	"gestion-activos/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn string) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			log.Println("connected to DB successfully")
			break
		}

		log.Printf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatalf("failed to connect to db after %d attempts: %v", maxAttempts, err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Area{},
		&models.Category{},
		&models.Asset{},
		&models.Incidence{},
		&models.Diagnostic{},
		&models.Decommission{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	createDefaultAdmin()
	seedDefaultUsers()
	seedCatalogs()
}

// catálogos mínimos para que el alta de activos funcione de inmediato
func seedCatalogs() {
	var count int64
	if err := DB.Model(&models.Category{}).Count(&count).Error; err == nil && count == 0 {
		categories := []models.Category{
			{Name: "Equipo de cómputo"},
			{Name: "Periférico"},
			{Name: "Mobiliario"},
		}
		if err := DB.Create(&categories).Error; err != nil {
			log.Printf("failed to seed categories: %v", err)
		}
	}

	if err := DB.Model(&models.Area{}).Count(&count).Error; err == nil && count == 0 {
		areas := []models.Area{
			{Name: "Sistemas", Department: "Tecnologías de la Información"},
			{Name: "Dirección", Department: "Administración"},
		}
		if err := DB.Create(&areas).Error; err != nil {
			log.Printf("failed to seed areas: %v", err)
		}
	}
}

// el admin sólo se crea desde código/entorno, nunca desde la forma de registro
func createDefaultAdmin() {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin@activos.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	var count int64
	if err := DB.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		log.Printf("failed to check admin user: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash default admin password: %v", err)
		return
	}

	admin := models.User{
		Username:     username,
		FullName:     "Administrador",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}

	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("failed to create default admin: %v", err)
		return
	}

	log.Printf("created default admin user: %s", username)
}

// cuentas de demostración (técnico y capturista)
func seedDefaultUsers() {
	type seedUser struct {
		Username string
		FullName string
		Password string
		Role     models.UserRole
	}

	users := []seedUser{
		{
			Username: "tecnico@activos.local",
			FullName: "Técnico de Soporte",
			Password: "Tecnico123!",
			Role:     models.RoleTecnico,
		},
		{
			Username: "captura@activos.local",
			FullName: "Mesa de Captura",
			Password: "Captura123!",
			Role:     models.RoleCapturista,
		},
	}

	for _, u := range users {
		var count int64
		if err := DB.Model(&models.User{}).
			Where("username = ?", u.Username).
			Count(&count).Error; err != nil {
			log.Printf("failed to check seed user %s: %v", u.Username, err)
			continue
		}
		if count > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("failed to hash password for %s: %v", u.Username, err)
			continue
		}

		user := models.User{
			Username:     u.Username,
			FullName:     u.FullName,
			PasswordHash: string(hash),
			Role:         u.Role,
		}

		if err := DB.Create(&user).Error; err != nil {
			log.Printf("failed to create seed user %s: %v", u.Username, err)
			continue
		}

		log.Printf("created seed user: %s (role=%s)", u.Username, u.Role)
	}
}
