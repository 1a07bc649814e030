package db

import (
	"context"
	"errors"

	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/domain"

	"gorm.io/gorm"
)

var errDBUnavailable = errors.New("database unavailable")

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetProfileByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	if r.db == nil {
		return domain.Profile{}, errDBUnavailable
	}
	var model ProfileModel
	err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Profile{}, domain.ErrNotFound
		}
		return domain.Profile{}, err
	}
	return toDomainProfile(model), nil
}

func toDomainProfile(model ProfileModel) domain.Profile {
	profile := domain.Profile{
		UserID:   model.UserID,
		Role:     domain.Role(model.Role),
		FullName: model.FullName,
		IsActive: model.IsActive,
	}
	if model.ClientID != nil {
		profile.ClientID = *model.ClientID
	}
	return profile
}
