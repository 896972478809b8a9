package model

// State describes where an account sits in the approval pipeline.
type State string

const (
	StateSubmitted        State = "submitted"
	StateReviewEPB        State = "review_epb"
	StateReviewSupervisor State = "review_supervisor"
	StateReviewGeneral    State = "review_general"
	StateReviewTreasury   State = "review_treasury"
	StatePaid             State = "paid"
	StateReturned         State = "returned_for_correction"
)

var validStates = map[State]bool{
	StateSubmitted:        true,
	StateReviewEPB:        true,
	StateReviewSupervisor: true,
	StateReviewGeneral:    true,
	StateReviewTreasury:   true,
	StatePaid:             true,
	StateReturned:         true,
}

// forwardEdges is the linear approval pipeline, one edge per state.
var forwardEdges = map[State]State{
	StateSubmitted:        StateReviewEPB,
	StateReviewEPB:        StateReviewSupervisor,
	StateReviewSupervisor: StateReviewGeneral,
	StateReviewGeneral:    StateReviewTreasury,
	StateReviewTreasury:   StatePaid,
}

// ReviewStates lists the stages owned by a reviewing role, in pipeline order.
var ReviewStates = []State{
	StateReviewEPB,
	StateReviewSupervisor,
	StateReviewGeneral,
	StateReviewTreasury,
}

// IsValid reports whether the state belongs to the closed state set.
func (s State) IsValid() bool {
	return validStates[s]
}

// IsTerminal reports whether no further transition exists from the state.
func (s State) IsTerminal() bool {
	return s == StatePaid
}

// Next returns the forward edge target, if the state has one.
func (s State) Next() (State, bool) {
	next, ok := forwardEdges[s]
	return next, ok
}

func (s State) String() string {
	return string(s)
}
