// Package usecase holds the authorization guards. Each guard is a linear
// pipeline of stages over a per-request state; the first failing stage
// aborts the run and its error reaches the transport layer unchanged.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/domain"
	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/infra/auth/bearer"
)

const defaultCollaboratorTimeout = 5 * time.Second

type GuardDeps struct {
	Identity    domain.IdentityProvider
	Profiles    domain.ProfileRepository
	Memberships domain.MembershipRepository
	Authorizer  domain.Authorizer

	// Timeout bounds each collaborator call; a hung identity or store
	// lookup must not hold the request open.
	Timeout time.Duration
}

// Gate runs between identity resolution and profile resolution. It lets the
// transport layer throttle a caller before any store lookups are spent on a
// request that will be refused anyway.
type Gate func(ctx context.Context, identity domain.Identity) error

type guardState struct {
	authorization string
	credential    string
	gate          Gate
	identity      domain.Identity
	profile       domain.Profile
	tenantIDs     []string
}

type stage func(ctx context.Context, st *guardState) error

type Guard struct {
	deps   GuardDeps
	role   domain.Role
	stages []stage
}

// RequireAdmin authorizes callers whose profile carries the admin role.
func RequireAdmin(deps GuardDeps) *Guard {
	g := &Guard{deps: deps, role: domain.RoleAdmin}
	g.stages = []stage{g.extractCredential, g.resolveIdentity, g.checkGate, g.resolveProfile, g.checkRole}
	return g
}

// RequireClient authorizes active client callers and resolves their tenant
// grant set. The set may be empty; each endpoint decides what that means.
func RequireClient(deps GuardDeps) *Guard {
	g := &Guard{deps: deps, role: domain.RoleClient}
	g.stages = []stage{g.extractCredential, g.resolveIdentity, g.checkGate, g.resolveProfile, g.checkRole, g.resolveTenantScope}
	return g
}

// Authorize runs the pipeline against one request's Authorization header
// value and returns either a fully resolved caller context or the first
// stage failure. Guards never retry collaborator calls.
func (g *Guard) Authorize(ctx context.Context, authorization string) (domain.AuthContext, error) {
	return g.AuthorizeGated(ctx, authorization, nil)
}

// AuthorizeGated is Authorize with a per-request gate. A gate failure aborts
// the pipeline before the profile and membership stores are consulted.
func (g *Guard) AuthorizeGated(ctx context.Context, authorization string, gate Gate) (domain.AuthContext, error) {
	st := &guardState{authorization: authorization, gate: gate}
	for _, run := range g.stages {
		if err := run(ctx, st); err != nil {
			return domain.AuthContext{}, err
		}
	}
	return domain.AuthContext{
		Identity:  st.identity,
		Profile:   st.profile,
		TenantIDs: st.tenantIDs,
	}, nil
}

func (g *Guard) extractCredential(_ context.Context, st *guardState) error {
	st.credential = bearer.Token(st.authorization)
	if st.credential == "" {
		return &domain.AccessError{Code: "MISSING_CREDENTIAL", Err: domain.ErrUnauthenticated}
	}
	return nil
}

func (g *Guard) resolveIdentity(ctx context.Context, st *guardState) error {
	if g.deps.Identity == nil {
		return &domain.AccessError{Code: "IDENTITY_PROVIDER_UNSET", Err: domain.ErrInternal}
	}
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()
	identity, err := g.deps.Identity.VerifyCredential(ctx, st.credential)
	if err != nil {
		// Only a rejected credential is unauthenticated. A provider that is
		// down or timing out is an internal failure; mapping it to 401 would
		// tell callers their credential is bad when it was never checked.
		if !errors.Is(err, domain.ErrUnauthenticated) {
			return &domain.AccessError{
				Code: "IDENTITY_LOOKUP_FAILED",
				Err:  fmt.Errorf("%w: %v", domain.ErrInternal, err),
			}
		}
		return &domain.AccessError{Code: "INVALID_CREDENTIAL", Err: err}
	}
	st.identity = identity
	return nil
}

func (g *Guard) checkGate(ctx context.Context, st *guardState) error {
	if st.gate == nil {
		return nil
	}
	return st.gate(ctx, st.identity)
}

func (g *Guard) resolveProfile(ctx context.Context, st *guardState) error {
	if g.deps.Profiles == nil {
		return &domain.AccessError{Code: "PROFILE_STORE_UNSET", Err: domain.ErrInternal}
	}
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()
	profile, err := g.deps.Profiles.GetProfileByUserID(ctx, st.identity.UserID)
	if err != nil {
		// An absent profile denies the same way a wrong role does, so the
		// response never reveals whether the account exists.
		if isNotFound(err) {
			return &domain.AccessError{Code: "PROFILE_NOT_FOUND", Err: domain.ErrForbidden}
		}
		return &domain.AccessError{
			Code: "PROFILE_LOOKUP_FAILED",
			Err:  fmt.Errorf("%w: %v", domain.ErrInternal, err),
		}
	}
	st.profile = profile
	return nil
}

func (g *Guard) checkRole(ctx context.Context, st *guardState) error {
	if g.deps.Authorizer == nil {
		return &domain.AccessError{Code: "AUTHORIZER_UNSET", Err: domain.ErrInternal}
	}
	if err := g.deps.Authorizer.Require(ctx, st.profile, g.role); err != nil {
		if _, ok := domain.IsAccessError(err); ok {
			return err
		}
		return &domain.AccessError{
			Code: "POLICY_EVALUATION_FAILED",
			Err:  fmt.Errorf("%w: %v", domain.ErrInternal, err),
		}
	}
	return nil
}

func (g *Guard) resolveTenantScope(ctx context.Context, st *guardState) error {
	if g.deps.Memberships == nil {
		return &domain.AccessError{Code: "MEMBERSHIP_STORE_UNSET", Err: domain.ErrInternal}
	}
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()
	tenantIDs, err := ResolveTenantScope(ctx, g.deps.Memberships, st.profile)
	if err != nil {
		return &domain.AccessError{
			Code: "TENANT_SCOPE_FAILED",
			Err:  fmt.Errorf("%w: %v", domain.ErrInternal, err),
		}
	}
	st.tenantIDs = tenantIDs
	return nil
}

func (g *Guard) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := g.deps.Timeout
	if timeout <= 0 {
		timeout = defaultCollaboratorTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
