package domain

import "strings"

// Role is a dashboard access level. Roles form a strict total order used by
// route guards; unknown strings rank below every valid role.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// AllRoles contains all valid roles in descending rank order.
var AllRoles = []Role{RoleAdmin, RoleManager, RoleUser}

var roleRanks = map[Role]int{
	RoleAdmin:   3,
	RoleManager: 2,
	RoleUser:    1,
}

// Rank returns the role's position in the hierarchy. Unrecognized roles
// rank 0 and therefore never satisfy a minimum-role check.
func (r Role) Rank() int {
	return roleRanks[r]
}

// IsValid checks if a role is valid.
func (r Role) IsValid() bool {
	_, ok := roleRanks[r]
	return ok
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// MeetsMinimum reports whether the role ranks at or above required. This is
// the hierarchical check used for route guards: a guard requiring manager
// admits both manager and admin.
func (r Role) MeetsMinimum(required Role) bool {
	return r.Rank() >= required.Rank()
}

// MatchesAny reports whether the role is one of allowed, compared
// case-insensitively. Unlike MeetsMinimum this is plain set membership:
// an allow-list of [manager] does not admit admin. An empty list matches
// nothing.
func (r Role) MatchesAny(allowed ...Role) bool {
	for _, a := range allowed {
		if strings.EqualFold(string(r), string(a)) {
			return true
		}
	}
	return false
}

// MatchesAll reports whether the role equals every entry of required,
// case-insensitively. A principal holds exactly one role, so this only
// passes for an empty list or a list of roles all equal to r.
func (r Role) MatchesAll(required ...Role) bool {
	for _, q := range required {
		if !strings.EqualFold(string(r), string(q)) {
			return false
		}
	}
	return true
}
