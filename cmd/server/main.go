package main

import (
	"fmt"
	"log"

	"gestion-activos/internal/config"
	"gestion-activos/internal/database"
	"gestion-activos/internal/logger"
	"gestion-activos/internal/server"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	database.Init(cfg.DBDSN)

	r := server.NewRouter(cfg)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
