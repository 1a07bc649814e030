package domain

import "context"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Identity is the verified subject of a request, independent of role or
// tenant. It is produced once per request from a bearer credential and is
// never persisted.
type Identity struct {
	UserID string
	Email  string
}

// Profile is the authorization-relevant record attached to an identity.
// ClientID is the primary tenant for client accounts; empty when unassigned.
type Profile struct {
	UserID   string
	Role     Role
	FullName string
	ClientID string
	IsActive bool
}

// AuthContext is handed to business handlers after a guard succeeds.
// TenantIDs is populated only for client callers and may be empty; handlers
// decide what an empty scope means for their endpoint.
type AuthContext struct {
	Identity  Identity
	Profile   Profile
	TenantIDs []string
}

func (a AuthContext) HasTenant(tenantID string) bool {
	for _, id := range a.TenantIDs {
		if id == tenantID {
			return true
		}
	}
	return false
}

type IdentityProvider interface {
	VerifyCredential(ctx context.Context, credential string) (Identity, error)
}

// ProfileRepository returns ErrNotFound when no profile row exists for the
// user id; guards translate that into the same denial as a wrong role.
type ProfileRepository interface {
	GetProfileByUserID(ctx context.Context, userID string) (Profile, error)
}

type MembershipRepository interface {
	ListTenantIDsByUserID(ctx context.Context, userID string) ([]string, error)
}

type Authorizer interface {
	Require(ctx context.Context, profile Profile, role Role) error
}
