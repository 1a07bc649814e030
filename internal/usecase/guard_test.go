package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/domain"
	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/infra/auth/rbac"
)

type stubIdentityProvider struct {
	identity domain.Identity
	err      error
}

func (s stubIdentityProvider) VerifyCredential(context.Context, string) (domain.Identity, error) {
	return s.identity, s.err
}

type stubProfileRepo struct {
	profile domain.Profile
	err     error
}

func (s stubProfileRepo) GetProfileByUserID(context.Context, string) (domain.Profile, error) {
	return s.profile, s.err
}

type stubMembershipRepo struct {
	tenantIDs []string
	err       error
}

func (s stubMembershipRepo) ListTenantIDsByUserID(context.Context, string) ([]string, error) {
	return s.tenantIDs, s.err
}

func adminProfile() domain.Profile {
	return domain.Profile{UserID: "admin-1", Role: domain.RoleAdmin, IsActive: true}
}

func clientProfile() domain.Profile {
	return domain.Profile{UserID: "u1", Role: domain.RoleClient, ClientID: "c1", IsActive: true}
}

func depsFor(identity stubIdentityProvider, profiles stubProfileRepo, memberships stubMembershipRepo) GuardDeps {
	return GuardDeps{
		Identity:    identity,
		Profiles:    profiles,
		Memberships: memberships,
		Authorizer:  rbac.NewAuthorizer(),
	}
}

func TestGuardsRejectMissingCredential(t *testing.T) {
	deps := depsFor(stubIdentityProvider{}, stubProfileRepo{}, stubMembershipRepo{})
	for _, guard := range []*Guard{RequireAdmin(deps), RequireClient(deps)} {
		for _, header := range []string{"", "Basic abc", "Bearer"} {
			_, err := guard.Authorize(context.Background(), header)
			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("header %q: expected ErrUnauthenticated, got %v", header, err)
			}
		}
	}
}

func TestGuardsRejectInvalidCredentialAsUnauthenticated(t *testing.T) {
	// A rejected credential must never surface as forbidden.
	deps := depsFor(
		stubIdentityProvider{err: domain.ErrUnauthenticated},
		stubProfileRepo{profile: adminProfile()},
		stubMembershipRepo{},
	)
	for _, guard := range []*Guard{RequireAdmin(deps), RequireClient(deps)} {
		_, err := guard.Authorize(context.Background(), "Bearer rejected")
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
		if errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("invalid credential must not map to forbidden: %v", err)
		}
	}
}

func TestGuardsMapIdentityProviderFailureToInternal(t *testing.T) {
	// A provider that is down never saw the credential; the caller must get
	// an internal error, not an invalid-credential response.
	deps := depsFor(
		stubIdentityProvider{err: context.DeadlineExceeded},
		stubProfileRepo{profile: adminProfile()},
		stubMembershipRepo{},
	)
	for _, guard := range []*Guard{RequireAdmin(deps), RequireClient(deps)} {
		_, err := guard.Authorize(context.Background(), "Bearer tok")
		if !errors.Is(err, domain.ErrInternal) {
			t.Fatalf("expected ErrInternal, got %v", err)
		}
		if errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("provider outage must not map to unauthenticated: %v", err)
		}
		access, ok := domain.IsAccessError(err)
		if !ok || access.Code != "IDENTITY_LOOKUP_FAILED" {
			t.Fatalf("unexpected access error: %v", err)
		}
	}
}

type countingProfileRepo struct {
	stubProfileRepo
	calls int
}

func (s *countingProfileRepo) GetProfileByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	s.calls++
	return s.stubProfileRepo.GetProfileByUserID(ctx, userID)
}

func TestGateRunsAfterIdentityBeforeProfile(t *testing.T) {
	profiles := &countingProfileRepo{stubProfileRepo: stubProfileRepo{profile: clientProfile()}}
	deps := GuardDeps{
		Identity:    stubIdentityProvider{identity: domain.Identity{UserID: "u1"}},
		Profiles:    profiles,
		Memberships: stubMembershipRepo{},
		Authorizer:  rbac.NewAuthorizer(),
	}
	guard := RequireClient(deps)

	var gated domain.Identity
	denied := errors.New("over limit")
	_, err := guard.AuthorizeGated(context.Background(), "Bearer tok", func(_ context.Context, identity domain.Identity) error {
		gated = identity
		return denied
	})
	if !errors.Is(err, denied) {
		t.Fatalf("expected gate error, got %v", err)
	}
	if gated.UserID != "u1" {
		t.Fatalf("gate saw identity %+v, want resolved caller", gated)
	}
	if profiles.calls != 0 {
		t.Fatalf("profile store consulted %d times on a gated request", profiles.calls)
	}

	if _, err := guard.AuthorizeGated(context.Background(), "Bearer tok", func(context.Context, domain.Identity) error {
		return nil
	}); err != nil {
		t.Fatalf("passing gate must not block authorization: %v", err)
	}
	if profiles.calls != 1 {
		t.Fatalf("profile lookups = %d, want 1", profiles.calls)
	}
}

func TestRequireAdminRejectsClientRole(t *testing.T) {
	deps := depsFor(
		stubIdentityProvider{identity: domain.Identity{UserID: "u1"}},
		stubProfileRepo{profile: clientProfile()},
		stubMembershipRepo{},
	)
	_, err := RequireAdmin(deps).Authorize(context.Background(), "Bearer tok")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireClientRejectsAdminRole(t *testing.T) {
	deps := depsFor(
		stubIdentityProvider{identity: domain.Identity{UserID: "admin-1"}},
		stubProfileRepo{profile: adminProfile()},
		stubMembershipRepo{},
	)
	_, err := RequireClient(deps).Authorize(context.Background(), "Bearer tok")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireClientRejectsInactiveProfile(t *testing.T) {
	profile := clientProfile()
	profile.IsActive = false
	deps := depsFor(
		stubIdentityProvider{identity: domain.Identity{UserID: "u1"}},
		stubProfileRepo{profile: profile},
		stubMembershipRepo{tenantIDs: []string{"c1", "c2"}},
	)
	_, err := RequireClient(deps).Authorize(context.Background(), "Bearer tok")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden regardless of grants, got %v", err)
	}
}

func TestGuardsMapAbsentProfileToForbidden(t *testing.T) {
	deps := depsFor(
		stubIdentityProvider{identity: domain.Identity{UserID: "ghost"}},
		stubProfileRepo{err: domain.ErrNotFound},
		stubMembershipRepo{},
	)
	for _, guard := range []*Guard{RequireAdmin(deps), RequireClient(deps)} {
		_, err := guard.Authorize(context.Background(), "Bearer tok")
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
		access, ok := domain.IsAccessError(err)
		if !ok || access.Code != "PROFILE_NOT_FOUND" {
			t.Fatalf("unexpected access error: %v", err)
		}
	}
}

func TestGuardsMapProfileStoreErrorToInternal(t *testing.T) {
	deps := depsFor(
		stubIdentityProvider{identity: domain.Identity{UserID: "u1"}},
		stubProfileRepo{err: errors.New("connection reset")},
		stubMembershipRepo{},
	)
	for _, guard := range []*Guard{RequireAdmin(deps), RequireClient(deps)} {
		_, err := guard.Authorize(context.Background(), "Bearer tok")
		if !errors.Is(err, domain.ErrInternal) {
			t.Fatalf("expected ErrInternal, got %v", err)
		}
	}
}

func TestRequireClientMapsMembershipErrorToInternal(t *testing.T) {
	deps := depsFor(
		stubIdentityProvider{identity: domain.Identity{UserID: "u1"}},
		stubProfileRepo{profile: clientProfile()},
		stubMembershipRepo{err: errors.New("connection reset")},
	)
	_, err := RequireClient(deps).Authorize(context.Background(), "Bearer tok")
	if !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestRequireAdminSuccess(t *testing.T) {
	deps := depsFor(
		stubIdentityProvider{identity: domain.Identity{UserID: "admin-1", Email: "a@example.com"}},
		stubProfileRepo{profile: adminProfile()},
		stubMembershipRepo{},
	)
	authCtx, err := RequireAdmin(deps).Authorize(context.Background(), "Bearer tok")
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if authCtx.Profile.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role: %s", authCtx.Profile.Role)
	}
	if authCtx.Identity.UserID != "admin-1" {
		t.Fatalf("unexpected identity: %+v", authCtx.Identity)
	}
	if len(authCtx.TenantIDs) != 0 {
		t.Fatalf("admin context must not carry tenant scope: %v", authCtx.TenantIDs)
	}
}

func TestRequireClientSuccessMergesScope(t *testing.T) {
	deps := depsFor(
		stubIdentityProvider{identity: domain.Identity{UserID: "u1"}},
		stubProfileRepo{profile: clientProfile()},
		stubMembershipRepo{tenantIDs: []string{"c2"}},
	)
	authCtx, err := RequireClient(deps).Authorize(context.Background(), "Bearer tok")
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if len(authCtx.TenantIDs) != 2 || !authCtx.HasTenant("c1") || !authCtx.HasTenant("c2") {
		t.Fatalf("unexpected scope: %v", authCtx.TenantIDs)
	}
}

func TestRequireClientAllowsEmptyScope(t *testing.T) {
	profile := clientProfile()
	profile.ClientID = ""
	deps := depsFor(
		stubIdentityProvider{identity: domain.Identity{UserID: "u1"}},
		stubProfileRepo{profile: profile},
		stubMembershipRepo{},
	)
	authCtx, err := RequireClient(deps).Authorize(context.Background(), "Bearer tok")
	if err != nil {
		t.Fatalf("empty scope is not a guard failure: %v", err)
	}
	if len(authCtx.TenantIDs) != 0 {
		t.Fatalf("expected empty scope, got %v", authCtx.TenantIDs)
	}
}
