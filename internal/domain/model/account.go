package model

import (
	"fmt"
	"time"
)

// Account is an invoice record moving through the approval pipeline.
type Account struct {
	ID             int64
	Number         string
	SubmitterID    int64
	SubmitterName  string
	ContractNumber string
	ActNumber      string
	Amount         float64
	Description    string
	CurrentState   State

	// OwnerID/OwnerName cache the user responsible for the next action.
	// OwnerID zero means unassigned.
	OwnerID   int64
	OwnerName string

	// Milestones maps a milestone name to the instant it was reached.
	// Entries are never removed; a key is only overwritten on same-stage
	// re-entry.
	Milestones map[string]time.Time

	// History is append-only and its last entry's state always equals
	// CurrentState.
	History []Movement

	// Alerts are derived on read and never persisted.
	Alerts []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccountNumber formats the human-readable code for a newly allocated
// account id, CC-YYYYMMDD-NNN.
func AccountNumber(t time.Time, id int64) string {
	return fmt.Sprintf("CC-%s-%03d", t.Format("20060102"), id)
}

// LastMovement returns the most recent history entry, or nil for an empty
// history.
func (a *Account) LastMovement() *Movement {
	if len(a.History) == 0 {
		return nil
	}
	return &a.History[len(a.History)-1]
}

// Clone returns a deep copy so a caller can mutate without sharing the
// milestone map or history slice.
func (a *Account) Clone() *Account {
	cp := *a
	cp.Milestones = make(map[string]time.Time, len(a.Milestones))
	for k, v := range a.Milestones {
		cp.Milestones[k] = v
	}
	cp.History = append([]Movement(nil), a.History...)
	cp.Alerts = append([]string(nil), a.Alerts...)
	return &cp
}
