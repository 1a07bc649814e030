// Package rbac holds the default role policy for guard pipelines: an exact
// role match, plus the suspended-account rule for client callers.
package rbac

import (
	"context"

	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/domain"
)

type Authorizer struct{}

func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

// Require denies with the same sentinel for every failure mode so callers
// cannot distinguish a wrong role from a suspended account. The internal
// code is for server logs only.
func (a *Authorizer) Require(_ context.Context, profile domain.Profile, role domain.Role) error {
	if profile.UserID == "" {
		return &domain.AccessError{Code: "PROFILE_MISSING", Err: domain.ErrForbidden}
	}
	if profile.Role != role {
		return &domain.AccessError{Code: "ROLE_MISMATCH", Err: domain.ErrForbidden}
	}
	if role == domain.RoleClient && !profile.IsActive {
		return &domain.AccessError{Code: "ACCOUNT_INACTIVE", Err: domain.ErrForbidden}
	}
	return nil
}
