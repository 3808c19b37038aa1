package access

import (
	"context"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/usecase"
)

// StaticPolicy grants permissions from a fixed role table.
type StaticPolicy struct {
	grants map[domain.Role]map[string]bool
}

// DefaultGrants is the role table used by the server.
var DefaultGrants = map[domain.Role][]string{
	domain.RoleDeveloper:      {usecase.PermissionReceipts, usecase.PermissionReceiptsForm, usecase.PermissionCredits, usecase.PermissionCreditsAdmin},
	domain.RoleManager:        {usecase.PermissionReceipts, usecase.PermissionReceiptsForm, usecase.PermissionCredits, usecase.PermissionCreditsAdmin},
	domain.RoleAdministrative: {usecase.PermissionReceipts, usecase.PermissionReceiptsForm, usecase.PermissionCredits, usecase.PermissionCreditsAdmin},
	domain.RoleLeader:         {usecase.PermissionReceipts, usecase.PermissionReceiptsForm, usecase.PermissionCredits},
	domain.RoleSeller:         {usecase.PermissionReceipts, usecase.PermissionCredits},
}

// NewStaticPolicy builds a policy from role → permission lists.
func NewStaticPolicy(grants map[domain.Role][]string) *StaticPolicy {
	p := &StaticPolicy{grants: make(map[domain.Role]map[string]bool, len(grants))}
	for role, perms := range grants {
		set := make(map[string]bool, len(perms))
		for _, perm := range perms {
			set[perm] = true
		}
		p.grants[role] = set
	}
	return p
}

// Allowed implements usecase.AccessPolicy.
func (p *StaticPolicy) Allowed(_ context.Context, role domain.Role, permission string) bool {
	return p.grants[role][permission]
}
