package db

import (
	"fmt"
	"log"

	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Store struct {
	DB *gorm.DB
}

func NewStore(cfg config.Config) (*Store, error) {
	if cfg.PostgresDSN == "" {
		log.Printf("POSTGRES_DSN not set; starting in no-db mode.")
		return &Store{DB: nil}, nil
	}

	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := gdb.AutoMigrate(
		&ProfileModel{},
		&ClientMembershipModel{},
		&ClientModel{},
		&BuildingModel{},
		&RoofBasinModel{},
		&WarrantyModel{},
		&InterventionModel{},
		&RateLimitBucketModel{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{DB: gdb}, nil
}
