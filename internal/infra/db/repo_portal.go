package db

import (
	"context"
	"errors"
	"time"

	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PortalRepository serves the tenant-scoped asset queries. Every query
// filters on the caller's tenant grant set; an empty set short-circuits to
// an empty result without touching the database.
type PortalRepository struct {
	db *gorm.DB
}

func NewPortalRepository(db *gorm.DB) *PortalRepository {
	return &PortalRepository{db: db}
}

func (r *PortalRepository) ListBuildingsByTenants(ctx context.Context, tenantIDs []string) ([]domain.Building, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	if len(tenantIDs) == 0 {
		return []domain.Building{}, nil
	}
	var models []BuildingModel
	err := r.db.WithContext(ctx).
		Where("client_id IN ?", tenantIDs).
		Order("name").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	buildings := make([]domain.Building, 0, len(models))
	for _, m := range models {
		buildings = append(buildings, domain.Building{
			ID:        m.ID,
			ClientID:  m.ClientID,
			Name:      m.Name,
			Address:   m.Address,
			City:      m.City,
			CreatedAt: m.CreatedAt,
		})
	}
	return buildings, nil
}

func (r *PortalRepository) GetBuilding(ctx context.Context, buildingID string) (domain.Building, error) {
	if r.db == nil {
		return domain.Building{}, errDBUnavailable
	}
	var model BuildingModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", buildingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Building{}, domain.ErrNotFound
		}
		return domain.Building{}, err
	}
	return domain.Building{
		ID:        model.ID,
		ClientID:  model.ClientID,
		Name:      model.Name,
		Address:   model.Address,
		City:      model.City,
		CreatedAt: model.CreatedAt,
	}, nil
}

func (r *PortalRepository) ListBasinsByBuilding(ctx context.Context, buildingID string) ([]domain.RoofBasin, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []RoofBasinModel
	err := r.db.WithContext(ctx).
		Where("building_id = ?", buildingID).
		Order("label").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	basins := make([]domain.RoofBasin, 0, len(models))
	for _, m := range models {
		basins = append(basins, domain.RoofBasin{
			ID:           m.ID,
			BuildingID:   m.BuildingID,
			ClientID:     m.ClientID,
			Label:        m.Label,
			AreaSqM:      m.AreaSqM,
			MaterialSpec: m.MaterialSpec,
			CreatedAt:    m.CreatedAt,
		})
	}
	return basins, nil
}

func (r *PortalRepository) ListWarrantiesByTenants(ctx context.Context, tenantIDs []string) ([]domain.Warranty, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	if len(tenantIDs) == 0 {
		return []domain.Warranty{}, nil
	}
	var models []WarrantyModel
	err := r.db.WithContext(ctx).
		Where("client_id IN ?", tenantIDs).
		Order("expires_on").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	warranties := make([]domain.Warranty, 0, len(models))
	for _, m := range models {
		warranties = append(warranties, domain.Warranty{
			ID:         m.ID,
			ClientID:   m.ClientID,
			BuildingID: m.BuildingID,
			BasinID:    m.BasinID,
			Provider:   m.Provider,
			StartsOn:   m.StartsOn,
			ExpiresOn:  m.ExpiresOn,
			CreatedAt:  m.CreatedAt,
		})
	}
	return warranties, nil
}

func (r *PortalRepository) ListInterventionsByTenants(ctx context.Context, tenantIDs []string) ([]domain.Intervention, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	if len(tenantIDs) == 0 {
		return []domain.Intervention{}, nil
	}
	var models []InterventionModel
	err := r.db.WithContext(ctx).
		Where("client_id IN ?", tenantIDs).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	interventions := make([]domain.Intervention, 0, len(models))
	for _, m := range models {
		interventions = append(interventions, toDomainIntervention(m))
	}
	return interventions, nil
}

func (r *PortalRepository) CreateIntervention(ctx context.Context, intervention domain.Intervention) (domain.Intervention, error) {
	if r.db == nil {
		return domain.Intervention{}, errDBUnavailable
	}
	if intervention.ID == "" {
		intervention.ID = uuid.NewString()
	}
	if intervention.Status == "" {
		intervention.Status = domain.InterventionRequested
	}
	if intervention.CreatedAt.IsZero() {
		intervention.CreatedAt = time.Now().UTC()
	}
	model := InterventionModel{
		ID:          intervention.ID,
		ClientID:    intervention.ClientID,
		BuildingID:  intervention.BuildingID,
		BasinID:     intervention.BasinID,
		Status:      string(intervention.Status),
		Description: intervention.Description,
		RequestedBy: intervention.RequestedBy,
		CreatedAt:   intervention.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Intervention{}, err
	}
	return intervention, nil
}

func toDomainIntervention(m InterventionModel) domain.Intervention {
	return domain.Intervention{
		ID:          m.ID,
		ClientID:    m.ClientID,
		BuildingID:  m.BuildingID,
		BasinID:     m.BasinID,
		Status:      domain.InterventionStatus(m.Status),
		Description: m.Description,
		RequestedBy: m.RequestedBy,
		CreatedAt:   m.CreatedAt,
	}
}
