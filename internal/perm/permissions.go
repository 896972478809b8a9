// Package perm holds the static role-permission table consulted before
// every state-changing operation.
package perm

import "github.com/camivel/cuentastrack/internal/domain/model"

// Permission names an action a role may perform.
type Permission string

const (
	Submit     Permission = "submit"
	Approve    Permission = "approve"
	Return     Permission = "return"
	Pay        Permission = "pay"
	ViewOwn    Permission = "view_own"
	ViewAll    Permission = "view_all"
	ViewStatus Permission = "view_status"
	Dashboard  Permission = "dashboard"
)

type roleEntry struct {
	permissions map[Permission]bool
	states      map[model.State]bool
	description string
}

var table = map[model.Role]roleEntry{
	model.RoleContractor: {
		permissions: set(Submit, ViewOwn, ViewStatus),
		states:      states(model.StateSubmitted, model.StateReturned),
		description: "Submits invoices and views their progress",
	},
	model.RoleEPB: {
		permissions: set(Approve, Return, ViewAll, Dashboard),
		states:      states(model.StateReviewEPB),
		description: "First-instance review",
	},
	model.RoleSupervisor: {
		permissions: set(Approve, Return, ViewAll, Dashboard),
		states:      states(model.StateReviewSupervisor),
		description: "Supervises and approves invoices",
	},
	model.RoleGeneral: {
		permissions: set(Approve, Return, ViewAll, Dashboard),
		states:      states(model.StateReviewGeneral),
		description: "Final review before treasury",
	},
	model.RoleTreasury: {
		permissions: set(Approve, Return, Pay, ViewAll, Dashboard),
		states:      states(model.StateReviewTreasury, model.StatePaid),
		description: "Performs the final payment",
	},
}

// Allowed reports whether the role holds the permission.
func Allowed(role model.Role, p Permission) bool {
	return table[role].permissions[p]
}

// CanActIn reports whether the role may act on accounts in the state.
func CanActIn(role model.Role, s model.State) bool {
	return table[role].states[s]
}

// Description returns the human summary of a role.
func Description(role model.Role) string {
	return table[role].description
}

func set(ps ...Permission) map[Permission]bool {
	m := make(map[Permission]bool, len(ps))
	for _, p := range ps {
		m[p] = true
	}
	return m
}

func states(ss ...model.State) map[model.State]bool {
	m := make(map[model.State]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}
