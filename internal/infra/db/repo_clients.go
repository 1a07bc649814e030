package db

import (
	"context"
	"time"

	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []ClientModel
	if err := r.db.WithContext(ctx).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}
	clients := make([]domain.Client, 0, len(models))
	for _, m := range models {
		clients = append(clients, domain.Client{
			ID:        m.ID,
			Name:      m.Name,
			Email:     m.Email,
			Phone:     m.Phone,
			CreatedAt: m.CreatedAt,
		})
	}
	return clients, nil
}

func (r *ClientRepository) Create(ctx context.Context, client domain.Client) (domain.Client, error) {
	if r.db == nil {
		return domain.Client{}, errDBUnavailable
	}
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}
	model := ClientModel{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		CreatedAt: client.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Client{}, err
	}
	return client, nil
}
