package domain

import "time"

// Client is a tenant: a customer account whose buildings, basins, warranties
// and interventions are isolated from every other client.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

type Building struct {
	ID        string
	ClientID  string
	Name      string
	Address   string
	City      string
	CreatedAt time.Time
}

// RoofBasin is a drainage section of a building's roof. Material composition
// is stored as free-form layers recorded during inspections.
type RoofBasin struct {
	ID           string
	BuildingID   string
	ClientID     string
	Label        string
	AreaSqM      float64
	MaterialSpec string
	CreatedAt    time.Time
}

type Warranty struct {
	ID         string
	ClientID   string
	BuildingID string
	BasinID    string
	Provider   string
	StartsOn   time.Time
	ExpiresOn  time.Time
	CreatedAt  time.Time
}

type InterventionStatus string

const (
	InterventionRequested InterventionStatus = "requested"
	InterventionPlanned   InterventionStatus = "planned"
	InterventionDone      InterventionStatus = "done"
)

type Intervention struct {
	ID          string
	ClientID    string
	BuildingID  string
	BasinID     string
	Status      InterventionStatus
	Description string
	RequestedBy string
	CreatedAt   time.Time
}
