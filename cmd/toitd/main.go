package main

import (
	"log"

	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/config"
	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/infra/db"
	httpinfra "github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/infra/http"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()

	store, err := db.NewStore(cfg)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}

	srv := httpinfra.NewServer(cfg, store)
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
