package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ClientStore interface {
	List(ctx context.Context) ([]domain.Client, error)
	Create(ctx context.Context, client domain.Client) (domain.Client, error)
}

type PortalStore interface {
	ListBuildingsByTenants(ctx context.Context, tenantIDs []string) ([]domain.Building, error)
	GetBuilding(ctx context.Context, buildingID string) (domain.Building, error)
	ListBasinsByBuilding(ctx context.Context, buildingID string) ([]domain.RoofBasin, error)
	ListWarrantiesByTenants(ctx context.Context, tenantIDs []string) ([]domain.Warranty, error)
	ListInterventionsByTenants(ctx context.Context, tenantIDs []string) ([]domain.Intervention, error)
	CreateIntervention(ctx context.Context, intervention domain.Intervention) (domain.Intervention, error)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type clientResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at"`
}

type createClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type buildingResponse struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
}

type basinResponse struct {
	ID           string  `json:"id"`
	BuildingID   string  `json:"building_id"`
	Label        string  `json:"label"`
	AreaSqM      float64 `json:"area_sq_m,omitempty"`
	MaterialSpec string  `json:"material_spec,omitempty"`
}

type warrantyResponse struct {
	ID         string `json:"id"`
	ClientID   string `json:"client_id"`
	BuildingID string `json:"building_id"`
	BasinID    string `json:"basin_id,omitempty"`
	Provider   string `json:"provider"`
	StartsOn   string `json:"starts_on"`
	ExpiresOn  string `json:"expires_on"`
}

type interventionResponse struct {
	ID          string `json:"id"`
	ClientID    string `json:"client_id"`
	BuildingID  string `json:"building_id"`
	BasinID     string `json:"basin_id,omitempty"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type createInterventionRequest struct {
	ClientID    string `json:"client_id"`
	BuildingID  string `json:"building_id"`
	BasinID     string `json:"basin_id"`
	Description string `json:"description"`
}

func (s *Server) handleListClients(c *gin.Context) {
	if _, ok := authContext(c); !ok {
		return
	}
	if s.clients == nil {
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	clients, err := s.clients.List(c.Request.Context())
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	out := make([]clientResponse, 0, len(clients))
	for _, client := range clients {
		out = append(out, toClientResponse(client))
	}
	c.JSON(http.StatusOK, gin.H{"clients": out})
}

func (s *Server) handleCreateClient(c *gin.Context) {
	if _, ok := authContext(c); !ok {
		return
	}
	if s.clients == nil {
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "name is required")
		return
	}
	client, err := s.clients.Create(c.Request.Context(), domain.Client{
		Name:  req.Name,
		Email: strings.TrimSpace(req.Email),
		Phone: strings.TrimSpace(req.Phone),
	})
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toClientResponse(client))
}

// handleListBuildings tolerates an empty tenant scope: a caller with no
// grants sees an empty portal, not an error.
func (s *Server) handleListBuildings(c *gin.Context) {
	authCtx, ok := authContext(c)
	if !ok {
		return
	}
	if s.portal == nil {
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	buildings, err := s.portal.ListBuildingsByTenants(c.Request.Context(), authCtx.TenantIDs)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	out := make([]buildingResponse, 0, len(buildings))
	for _, b := range buildings {
		out = append(out, buildingResponse{
			ID:       b.ID,
			ClientID: b.ClientID,
			Name:     b.Name,
			Address:  b.Address,
			City:     b.City,
		})
	}
	c.JSON(http.StatusOK, gin.H{"buildings": out})
}

func (s *Server) handleListBasins(c *gin.Context) {
	authCtx, ok := authContext(c)
	if !ok {
		return
	}
	if s.portal == nil {
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	buildingID, ok := parseUUIDParam(c, "building_id")
	if !ok {
		return
	}
	building, err := s.portal.GetBuilding(c.Request.Context(), buildingID)
	if err != nil {
		// A building outside the caller's scope and a nonexistent building
		// answer identically so ids cannot be probed.
		if errors.Is(err, domain.ErrNotFound) {
			writeErrorCode(c, http.StatusForbidden, "FORBIDDEN", "access denied")
			return
		}
		s.writeStoreError(c, err)
		return
	}
	if !authCtx.HasTenant(building.ClientID) {
		writeErrorCode(c, http.StatusForbidden, "FORBIDDEN", "access denied")
		return
	}
	basins, err := s.portal.ListBasinsByBuilding(c.Request.Context(), buildingID)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	out := make([]basinResponse, 0, len(basins))
	for _, basin := range basins {
		out = append(out, basinResponse{
			ID:           basin.ID,
			BuildingID:   basin.BuildingID,
			Label:        basin.Label,
			AreaSqM:      basin.AreaSqM,
			MaterialSpec: basin.MaterialSpec,
		})
	}
	c.JSON(http.StatusOK, gin.H{"basins": out})
}

func (s *Server) handleListWarranties(c *gin.Context) {
	authCtx, ok := authContext(c)
	if !ok {
		return
	}
	if s.portal == nil {
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	warranties, err := s.portal.ListWarrantiesByTenants(c.Request.Context(), authCtx.TenantIDs)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	out := make([]warrantyResponse, 0, len(warranties))
	for _, w := range warranties {
		out = append(out, warrantyResponse{
			ID:         w.ID,
			ClientID:   w.ClientID,
			BuildingID: w.BuildingID,
			BasinID:    w.BasinID,
			Provider:   w.Provider,
			StartsOn:   w.StartsOn.UTC().Format(time.RFC3339),
			ExpiresOn:  w.ExpiresOn.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"warranties": out})
}

func (s *Server) handleListInterventions(c *gin.Context) {
	authCtx, ok := authContext(c)
	if !ok {
		return
	}
	if s.portal == nil {
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	interventions, err := s.portal.ListInterventionsByTenants(c.Request.Context(), authCtx.TenantIDs)
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	out := make([]interventionResponse, 0, len(interventions))
	for _, i := range interventions {
		out = append(out, toInterventionResponse(i))
	}
	c.JSON(http.StatusOK, gin.H{"interventions": out})
}

// handleCreateIntervention is the one client endpoint that rejects an empty
// tenant scope: there is nothing a caller without grants may mutate.
func (s *Server) handleCreateIntervention(c *gin.Context) {
	authCtx, ok := authContext(c)
	if !ok {
		return
	}
	if s.portal == nil {
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if len(authCtx.TenantIDs) == 0 {
		writeErrorCode(c, http.StatusForbidden, "FORBIDDEN", "access denied")
		return
	}
	var req createInterventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	clientID := strings.TrimSpace(req.ClientID)
	if clientID == "" {
		clientID = authCtx.Profile.ClientID
	}
	if clientID == "" || !authCtx.HasTenant(clientID) {
		writeErrorCode(c, http.StatusForbidden, "FORBIDDEN", "access denied")
		return
	}
	buildingID := strings.TrimSpace(req.BuildingID)
	if buildingID == "" {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "building_id is required")
		return
	}
	building, err := s.portal.GetBuilding(c.Request.Context(), buildingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeErrorCode(c, http.StatusForbidden, "FORBIDDEN", "access denied")
			return
		}
		s.writeStoreError(c, err)
		return
	}
	if building.ClientID != clientID {
		writeErrorCode(c, http.StatusForbidden, "FORBIDDEN", "access denied")
		return
	}

	intervention, err := s.portal.CreateIntervention(c.Request.Context(), domain.Intervention{
		ClientID:    clientID,
		BuildingID:  buildingID,
		BasinID:     strings.TrimSpace(req.BasinID),
		Description: strings.TrimSpace(req.Description),
		RequestedBy: authCtx.Identity.UserID,
	})
	if err != nil {
		s.writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toInterventionResponse(intervention))
}

func (s *Server) handleNoRoute(c *gin.Context) {
	writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "route not found")
}

func toClientResponse(client domain.Client) clientResponse {
	return clientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		CreatedAt: client.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toInterventionResponse(i domain.Intervention) interventionResponse {
	return interventionResponse{
		ID:          i.ID,
		ClientID:    i.ClientID,
		BuildingID:  i.BuildingID,
		BasinID:     i.BasinID,
		Status:      string(i.Status),
		Description: i.Description,
		CreatedAt:   i.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func parseUUIDParam(c *gin.Context, name string) (string, bool) {
	value := strings.TrimSpace(c.Param(name))
	if value == "" {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", name+" is required")
		return "", false
	}
	if _, err := uuid.Parse(value); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", name+" must be a UUID")
		return "", false
	}
	return value, true
}

func (s *Server) writeStoreError(c *gin.Context, err error) {
	s.logger.Error("store failure",
		"error", err.Error(), "request_id", requestID(c))
	writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Code: code, Message: message})
}
