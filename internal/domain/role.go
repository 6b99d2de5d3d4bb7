package domain

// Role type to distinguish between user roles
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleManager    Role = "MANAGER"
	RoleMember     Role = "MEMBER"
)

// IsValid reports whether r is one of the three known roles.
func (r Role) IsValid() bool {
	return r == RoleSuperAdmin || r == RoleManager || r == RoleMember
}

// Principal is the authenticated caller. Each role carries its own context:
// a manager is bound to one gym, a member to one gym and one member record.
type Principal struct {
	Role     Role   `json:"role"`
	GymID    string `json:"gymId,omitempty"`
	MemberID string `json:"memberId,omitempty"`
}

func SuperAdmin() Principal {
	return Principal{Role: RoleSuperAdmin}
}

func Manager(gymID string) Principal {
	return Principal{Role: RoleManager, GymID: gymID}
}

func MemberOf(gymID, memberID string) Principal {
	return Principal{Role: RoleMember, GymID: gymID, MemberID: memberID}
}

// Valid reports whether the principal carries the context its role requires.
func (p Principal) Valid() bool {
	switch p.Role {
	case RoleSuperAdmin:
		return true
	case RoleManager:
		return p.GymID != ""
	case RoleMember:
		return p.GymID != "" && p.MemberID != ""
	}
	return false
}

// ManagesGym reports whether the principal may administer members and
// billing of the given gym.
func (p Principal) ManagesGym(gymID string) bool {
	return p.Role == RoleManager && p.GymID == gymID
}
