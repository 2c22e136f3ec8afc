package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string
	EvidenceDir   string
	LogLevel      string

	// Si el inventario captura especificaciones técnicas
	// (procesador/RAM/almacenamiento). Se resuelve una sola vez al
	// arranque y se pasa hacia abajo; no hay descubrimiento de esquema
	// en caliente.
	AssetSpecColumns bool
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:            os.Getenv("DB_DSN"),
		ServerPort:       os.Getenv("SERVER_PORT"),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		EvidenceDir:      os.Getenv("EVIDENCE_DIR"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		AssetSpecColumns: true,
	}

	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set")
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.EvidenceDir == "" {
		cfg.EvidenceDir = "./data/evidencias"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	switch os.Getenv("ASSET_SPEC_COLUMNS") {
	case "0", "false", "no":
		cfg.AssetSpecColumns = false
	}

	return cfg
}
