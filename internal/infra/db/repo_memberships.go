package db

import (
	"context"

	"gorm.io/gorm"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) ListTenantIDsByUserID(ctx context.Context, userID string) ([]string, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var clientIDs []string
	err := r.db.WithContext(ctx).
		Model(&ClientMembershipModel{}).
		Where("user_id = ?", userID).
		Pluck("client_id", &clientIDs).Error
	if err != nil {
		return nil, err
	}
	return clientIDs, nil
}
