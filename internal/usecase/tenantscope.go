package usecase

import (
	"context"
	"errors"

	"github.com/MatJoubCT/plateforme-conseil-toit-sub001/internal/domain"
)

// ResolveTenantScope builds the set of tenant ids the caller may act on:
// the profile's primary client plus every membership grant, deduplicated.
// An empty result is a valid scope, not an error.
func ResolveTenantScope(ctx context.Context, memberships domain.MembershipRepository, profile domain.Profile) ([]string, error) {
	granted, err := memberships.ListTenantIDsByUserID(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(granted)+1)
	scope := make([]string, 0, len(granted)+1)
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		scope = append(scope, id)
	}

	add(profile.ClientID)
	for _, id := range granted {
		add(id)
	}
	return scope, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
