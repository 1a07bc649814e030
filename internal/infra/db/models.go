package db

import "time"

type ProfileModel struct {
	UserID    string    `gorm:"type:uuid;primaryKey"`
	Role      string    `gorm:"not null"`
	FullName  string    ``
	ClientID  *string   `gorm:"type:uuid;index"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ProfileModel) TableName() string {
	return "profiles"
}

// ClientMembershipModel grants a user access to a client beyond the primary
// one on their profile.
type ClientMembershipModel struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    string    `gorm:"type:uuid;index;not null"`
	ClientID  string    `gorm:"type:uuid;index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (ClientMembershipModel) TableName() string {
	return "client_memberships"
}

type ClientModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Email     string    ``
	Phone     string    ``
	CreatedAt time.Time `gorm:"not null"`
}

func (ClientModel) TableName() string {
	return "clients"
}

type BuildingModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ClientID  string    `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"not null"`
	Address   string    ``
	City      string    ``
	CreatedAt time.Time `gorm:"not null"`
}

func (BuildingModel) TableName() string {
	return "buildings"
}

type RoofBasinModel struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	BuildingID   string    `gorm:"type:uuid;index;not null"`
	ClientID     string    `gorm:"type:uuid;index;not null"`
	Label        string    `gorm:"not null"`
	AreaSqM      float64   ``
	MaterialSpec string    `gorm:"type:jsonb"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (RoofBasinModel) TableName() string {
	return "roof_basins"
}

type WarrantyModel struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	ClientID   string    `gorm:"type:uuid;index;not null"`
	BuildingID string    `gorm:"type:uuid;index;not null"`
	BasinID    string    `gorm:"type:uuid;index"`
	Provider   string    `gorm:"not null"`
	StartsOn   time.Time `gorm:"not null"`
	ExpiresOn  time.Time `gorm:"index;not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (WarrantyModel) TableName() string {
	return "warranties"
}

type InterventionModel struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	ClientID    string    `gorm:"type:uuid;index;not null"`
	BuildingID  string    `gorm:"type:uuid;index;not null"`
	BasinID     string    `gorm:"type:uuid;index"`
	Status      string    `gorm:"index;not null"`
	Description string    ``
	RequestedBy string    `gorm:"type:uuid;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (InterventionModel) TableName() string {
	return "interventions"
}

// RateLimitBucketModel backs the postgres rate limiter; rows are upserted
// with a single atomic statement, never read-modify-written.
type RateLimitBucketModel struct {
	Key       string    `gorm:"primaryKey"`
	Count     int64     `gorm:"not null"`
	WindowEnd time.Time `gorm:"not null"`
}

func (RateLimitBucketModel) TableName() string {
	return "rate_limit_buckets"
}
