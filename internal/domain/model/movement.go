package model

import "time"

// ActionKind classifies a movement in the account history.
type ActionKind string

const (
	ActionSubmission ActionKind = "submission"
	ActionAssignment ActionKind = "assignment"
	ActionApproval   ActionKind = "approval"
	ActionReturn     ActionKind = "return"
	ActionPayment    ActionKind = "payment"
)

// CorrectionType tags a return movement with the kind of fix requested.
type CorrectionType string

const (
	CorrectionDocumentation CorrectionType = "documentation"
	CorrectionCalculations  CorrectionType = "calculations"
	CorrectionInformation   CorrectionType = "information"
	CorrectionProcedure     CorrectionType = "procedure"
	CorrectionOther         CorrectionType = "other"
)

var validCorrections = map[CorrectionType]bool{
	CorrectionDocumentation: true,
	CorrectionCalculations:  true,
	CorrectionInformation:   true,
	CorrectionProcedure:     true,
	CorrectionOther:         true,
}

// IsValid reports whether the correction type is known. The empty value is
// valid because the tag is optional.
func (c CorrectionType) IsValid() bool {
	return c == "" || validCorrections[c]
}

// Movement is one immutable history entry recorded on a state transition.
type Movement struct {
	State          State
	ActorID        int64
	ActorName      string
	RecordedAt     time.Time
	Action         ActionKind
	Comment        string
	CorrectionType CorrectionType
	AssignedID     int64
	AssignedName   string
}
