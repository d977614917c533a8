package domain

import (
	"errors"
	"strings"
)

var ErrUnknownRole = errors.New("unknown role")

// Role is a platform role. Roles are totally ordered by privilege:
// owner > admin > moderator > user.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"

	// NoRole stands for an unassigned user.
	NoRole Role = ""
)

// hierarchy lists roles from most to least privileged. A role's position is
// its hierarchy index.
var hierarchy = []Role{RoleOwner, RoleAdmin, RoleModerator, RoleUser}

// Comparison is the privilege of one role relative to another.
type Comparison int

const (
	Lower  Comparison = -1
	Equal  Comparison = 0
	Higher Comparison = 1
)

func (c Comparison) String() string {
	switch c {
	case Lower:
		return "lower"
	case Higher:
		return "higher"
	default:
		return "equal"
	}
}

// ParseRole converts a role name into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return NoRole, ErrUnknownRole
	}
	return r, nil
}

// AllRoles returns every role, most privileged first.
func AllRoles() []Role {
	out := make([]Role, len(hierarchy))
	copy(out, hierarchy)
	return out
}

// RoleAt returns the role at a hierarchy index.
func RoleAt(index int) (Role, bool) {
	if index < 0 || index >= len(hierarchy) {
		return NoRole, false
	}
	return hierarchy[index], true
}

func (r Role) String() string { return string(r) }

// IsValid reports whether r is one of the catalog roles.
func (r Role) IsValid() bool {
	return r.HierarchyIndex() >= 0
}

// HierarchyIndex is 0 for owner and grows as privilege drops. Unknown roles
// return -1.
func (r Role) HierarchyIndex() int {
	for i, h := range hierarchy {
		if h == r {
			return i
		}
	}
	return -1
}

// Lower returns the next less privileged role.
func (r Role) Lower() (Role, bool) {
	idx := r.HierarchyIndex()
	if idx < 0 {
		return NoRole, false
	}
	return RoleAt(idx + 1)
}

// IsLowest reports whether no role ranks below r.
func (r Role) IsLowest() bool {
	return r == hierarchy[len(hierarchy)-1]
}

// IsLowerThan reports whether r carries less privilege than other.
func (r Role) IsLowerThan(other Role) bool {
	return Compare(r, other) == Lower
}

// Compare returns the privilege of a relative to b.
func Compare(a, b Role) Comparison {
	ai, bi := a.HierarchyIndex(), b.HierarchyIndex()
	switch {
	case ai == bi:
		return Equal
	case ai > bi:
		return Lower
	default:
		return Higher
	}
}
