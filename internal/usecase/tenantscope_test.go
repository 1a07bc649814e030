package usecase

import (
	"context"
	"sort"
	"testing"

	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/domain"
)

func resolveScope(t *testing.T, clientID string, granted []string) []string {
	t.Helper()
	profile := domain.Profile{UserID: "u1", Role: domain.RoleClient, ClientID: clientID, IsActive: true}
	scope, err := ResolveTenantScope(context.Background(), stubMembershipRepo{tenantIDs: granted}, profile)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return scope
}

func TestResolveTenantScopeDeduplicates(t *testing.T) {
	scope := resolveScope(t, "A", []string{"A", "B"})
	sort.Strings(scope)
	if len(scope) != 2 || scope[0] != "A" || scope[1] != "B" {
		t.Fatalf("unexpected scope: %v", scope)
	}
}

func TestResolveTenantScopePrimaryOnly(t *testing.T) {
	scope := resolveScope(t, "A", nil)
	if len(scope) != 1 || scope[0] != "A" {
		t.Fatalf("unexpected scope: %v", scope)
	}
}

func TestResolveTenantScopeMembershipsOnly(t *testing.T) {
	scope := resolveScope(t, "", []string{"B", "C", "B"})
	sort.Strings(scope)
	if len(scope) != 2 || scope[0] != "B" || scope[1] != "C" {
		t.Fatalf("unexpected scope: %v", scope)
	}
}

func TestResolveTenantScopeEmpty(t *testing.T) {
	scope := resolveScope(t, "", nil)
	if len(scope) != 0 {
		t.Fatalf("expected empty scope, got %v", scope)
	}
}
