package model

// Role identifies which part of the approval pipeline a user belongs to.
type Role string

const (
	RoleContractor Role = "contractor"
	RoleEPB        Role = "epb"
	RoleSupervisor Role = "supervisor"
	RoleGeneral    Role = "general"
	RoleTreasury   Role = "treasury"
)

var validRoles = map[Role]bool{
	RoleContractor: true,
	RoleEPB:        true,
	RoleSupervisor: true,
	RoleGeneral:    true,
	RoleTreasury:   true,
}

// responsibleRoles maps a target state to the role that owns it. Returned
// accounts go back to the original submitter and are resolved separately.
var responsibleRoles = map[State]Role{
	StateSubmitted:        RoleEPB,
	StateReviewEPB:        RoleEPB,
	StateReviewSupervisor: RoleSupervisor,
	StateReviewGeneral:    RoleGeneral,
	StateReviewTreasury:   RoleTreasury,
	StatePaid:             RoleTreasury,
	StateReturned:         RoleContractor,
}

// IsValid reports whether the role is one of the five known roles.
func (r Role) IsValid() bool {
	return validRoles[r]
}

func (r Role) String() string {
	return string(r)
}

// ResponsibleRole returns the role owning the given state.
func ResponsibleRole(s State) (Role, bool) {
	role, ok := responsibleRoles[s]
	return role, ok
}

// StageOwnedBy returns the review stage a reviewing role works, if any.
func StageOwnedBy(r Role) (State, bool) {
	switch r {
	case RoleEPB:
		return StateReviewEPB, true
	case RoleSupervisor:
		return StateReviewSupervisor, true
	case RoleGeneral:
		return StateReviewGeneral, true
	case RoleTreasury:
		return StateReviewTreasury, true
	}
	return "", false
}
