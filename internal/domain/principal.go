package domain

import (
	"context"
	"errors"
	"strings"
)

// Principal is the authenticated caller. The ledger trusts it as given and
// scopes every read and write to AgencyID.
type Principal struct {
	UserID   string
	AgencyID string
	Role     Role
}

// Validate checks that the principal can be used to scope queries.
func (p Principal) Validate() error {
	if strings.TrimSpace(p.UserID) == "" || strings.TrimSpace(p.AgencyID) == "" {
		return ErrUnauthenticated
	}
	return nil
}

// Role represents a user's access level inside an agency.
type Role string

const (
	RoleDeveloper      Role = "developer"
	RoleManager        Role = "manager"
	RoleAdministrative Role = "administrative"
	RoleLeader         Role = "leader"
	RoleSeller         Role = "seller"
)

var validRoles = map[Role]bool{
	RoleDeveloper:      true,
	RoleManager:        true,
	RoleAdministrative: true,
	RoleLeader:         true,
	RoleSeller:         true,
}

// ParseRole normalizes a role name.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// Authentication errors
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token has expired")
)

type principalKey struct{}

// WithPrincipal stores the caller in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
