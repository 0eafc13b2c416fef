package domain

// Role is the requester's role within a single project. It is derived, never
// stored: the leader is recorded on the project, members in the member set,
// and everyone else is RoleNone.
type Role int

const (
	RoleNone Role = iota
	RoleMember
	RoleLeader
)

func (r Role) String() string {
	switch r {
	case RoleLeader:
		return "leader"
	case RoleMember:
		return "member"
	default:
		return "none"
	}
}
