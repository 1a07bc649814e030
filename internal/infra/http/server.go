package http

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/config"
	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/domain"
	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/infra/auth/identityapi"
	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/infra/auth/rbac"
	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/infra/db"
	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/infra/policyopa"
	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/infra/ratelimit"
	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/obs"
	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/usecase"

	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg    config.Config
	store  *db.Store
	r      *gin.Engine
	logger *slog.Logger

	adminGuard  *usecase.Guard
	clientGuard *usecase.Guard

	clients ClientStore
	portal  PortalStore

	rateLimiter         domain.RateLimiter
	readPolicy          domain.RateLimitPolicy
	writePolicy         domain.RateLimitPolicy
	rateLimitFailClosed bool

	authInitErr error
}

type ServerDeps struct {
	Logger      *slog.Logger
	Identity    domain.IdentityProvider
	Profiles    domain.ProfileRepository
	Memberships domain.MembershipRepository
	Authorizer  domain.Authorizer
	RateLimiter domain.RateLimiter
	Clients     ClientStore
	Portal      PortalStore
}

func NewServer(cfg config.Config, store *db.Store) *Server {
	deps := ServerDeps{}
	var authInitErr error

	identity, err := identityapi.NewClient(cfg)
	if err != nil {
		authInitErr = err
	} else {
		deps.Identity = identity
	}

	if cfg.PolicyBundlePath != "" {
		authorizer, err := policyAuthorizer(context.Background(), cfg.PolicyBundlePath)
		if err != nil {
			if authInitErr == nil {
				authInitErr = err
			}
		} else {
			deps.Authorizer = authorizer
		}
	}

	if store != nil && store.DB != nil {
		deps.Profiles = db.NewProfileRepository(store.DB)
		deps.Memberships = db.NewMembershipRepository(store.DB)
		deps.Clients = db.NewClientRepository(store.DB)
		deps.Portal = db.NewPortalRepository(store.DB)
	}
	deps.RateLimiter = buildRateLimiter(cfg, store)

	s := NewServerWithDeps(cfg, deps)
	s.store = store
	s.authInitErr = authInitErr
	return s
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	logger := deps.Logger
	if logger == nil {
		logger = obs.NewLogger(cfg.LogLevel)
	}
	authorizer := deps.Authorizer
	if authorizer == nil {
		authorizer = rbac.NewAuthorizer()
	}

	guardDeps := usecase.GuardDeps{
		Identity:    deps.Identity,
		Profiles:    deps.Profiles,
		Memberships: deps.Memberships,
		Authorizer:  authorizer,
		Timeout:     cfg.AuthTimeout(),
	}

	s := &Server{
		cfg:         cfg,
		r:           r,
		logger:      logger,
		adminGuard:  usecase.RequireAdmin(guardDeps),
		clientGuard: usecase.RequireClient(guardDeps),
		clients:     deps.Clients,
		portal:      deps.Portal,
		rateLimiter: deps.RateLimiter,
		readPolicy: domain.RateLimitPolicy{
			MaxRequests:   cfg.RateLimitRequests,
			WindowSeconds: cfg.RateLimitWindowSeconds,
			KeyPrefix:     "rl:read",
		},
		writePolicy: domain.RateLimitPolicy{
			MaxRequests:   cfg.RateLimitWriteRequests,
			WindowSeconds: cfg.RateLimitWriteWindowSeconds,
			KeyPrefix:     "rl:write",
		},
		rateLimitFailClosed: cfg.RateLimitFailClosed,
	}
	s.routes()
	return s
}

// policyAuthorizer returns a nil interface on failure. Storing a failed
// *policyopa.Engine directly would give the interface a typed nil and defeat
// the rbac fallback in NewServerWithDeps.
func policyAuthorizer(ctx context.Context, bundlePath string) (domain.Authorizer, error) {
	engine, err := policyopa.NewEngineFromBundlePath(ctx, bundlePath)
	if err != nil {
		return nil, err
	}
	return engine, nil
}

func buildRateLimiter(cfg config.Config, store *db.Store) domain.RateLimiter {
	if cfg.RateLimitRequests <= 0 && cfg.RateLimitWriteRequests <= 0 {
		return nil
	}
	mode := strings.ToLower(strings.TrimSpace(cfg.RateLimitStore))
	switch mode {
	case "memory":
		return ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{MaxKeys: cfg.RateLimitMaxKeys})
	case "redis":
		if limiter, err := ratelimit.NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, nil); err == nil {
			return limiter
		}
	case "db":
		if store != nil && store.DB != nil {
			return db.NewRateLimiter(store.DB)
		}
	default:
		if cfg.RedisAddr != "" {
			if limiter, err := ratelimit.NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, nil); err == nil {
				return limiter
			}
		}
		if store != nil && store.DB != nil {
			return db.NewRateLimiter(store.DB)
		}
	}
	return ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{MaxKeys: cfg.RateLimitMaxKeys})
}

func (s *Server) routes() {
	s.r.Use(s.requestID(), s.cors())

	s.r.GET("/healthz", func(c *gin.Context) {
		dbMode := "no-db"
		if s.store != nil && s.store.DB != nil {
			dbMode = "db"
		}
		c.JSON(200, gin.H{"status": "ok", "mode": dbMode})
	})

	v1 := s.r.Group("/v1")
	{
		v1.GET("/clients", s.requireAdmin(), s.handleListClients)
		v1.POST("/clients", requireCSRF(), s.requireAdmin(), s.handleCreateClient)

		v1.GET("/buildings", s.requireClient(), s.handleListBuildings)
		v1.GET("/buildings/:building_id/basins", s.requireClient(), s.handleListBasins)
		v1.GET("/warranties", s.requireClient(), s.handleListWarranties)
		v1.GET("/interventions", s.requireClient(), s.handleListInterventions)
		v1.POST("/interventions", requireCSRF(), s.requireClient(), s.handleCreateIntervention)
	}

	s.r.NoRoute(s.handleNoRoute)
}

func (s *Server) Run() error {
	if s.authInitErr != nil {
		return s.authInitErr
	}
	if s.adminGuard == nil || s.clientGuard == nil {
		return errors.New("guards not initialized")
	}
	return s.r.Run(s.cfg.HTTPAddr)
}
