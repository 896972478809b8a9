package model

// Milestone names stamped outside the per-stage tables.
const (
	MilestoneSubmission = "submission"
	MilestonePayment    = "payment"
)

// startMilestones maps a review stage to the name of its "review started"
// timestamp. An explicit table, so no milestone name is ever derived from a
// state string.
var startMilestones = map[State]string{
	StateReviewEPB:        "review_epb_start",
	StateReviewSupervisor: "review_supervisor_start",
	StateReviewGeneral:    "review_general_start",
	StateReviewTreasury:   "review_treasury_start",
}

var assignedMilestones = map[State]string{
	StateReviewEPB:        "assigned_epb",
	StateReviewSupervisor: "assigned_review_supervisor",
	StateReviewGeneral:    "assigned_review_general",
	StateReviewTreasury:   "assigned_review_treasury",
}

// StartMilestone returns the "review started" timestamp name for a stage.
func StartMilestone(s State) (string, bool) {
	name, ok := startMilestones[s]
	return name, ok
}

// AssignedMilestone returns the "owner assigned" timestamp name for a stage.
func AssignedMilestone(s State) (string, bool) {
	name, ok := assignedMilestones[s]
	return name, ok
}
