package dto

import (
	"time"

	"github.com/camivel/cuentastrack/internal/domain/model"
)

// SubmitAccountRequest carries a new invoice.
type SubmitAccountRequest struct {
	ContractNumber string  `json:"contract_number"`
	ActNumber      string  `json:"act_number"`
	Amount         float64 `json:"amount"`
	Description    string  `json:"description"`
}

// ReturnRequest carries the reviewer's correction request.
type ReturnRequest struct {
	Comment        string `json:"comment"`
	CorrectionType string `json:"correction_type"`
}

// MovementResponse is one history entry.
type MovementResponse struct {
	State          string    `json:"state"`
	ActorID        int64     `json:"actor_id,omitempty"`
	ActorName      string    `json:"actor_name"`
	RecordedAt     time.Time `json:"recorded_at"`
	Action         string    `json:"action"`
	Comment        string    `json:"comment,omitempty"`
	CorrectionType string    `json:"correction_type,omitempty"`
	AssignedID     int64     `json:"assigned_id,omitempty"`
	AssignedName   string    `json:"assigned_name,omitempty"`
}

// AccountResponse is the full account view with history and derived alerts.
type AccountResponse struct {
	ID             int64                `json:"id"`
	Number         string               `json:"number"`
	SubmitterID    int64                `json:"submitter_id"`
	SubmitterName  string               `json:"submitter_name"`
	ContractNumber string               `json:"contract_number"`
	ActNumber      string               `json:"act_number"`
	Amount         float64              `json:"amount"`
	Description    string               `json:"description"`
	CurrentState   string               `json:"current_state"`
	OwnerID        int64                `json:"owner_id,omitempty"`
	OwnerName      string               `json:"owner_name,omitempty"`
	Milestones     map[string]time.Time `json:"milestones"`
	History        []MovementResponse   `json:"history"`
	Alerts         []string             `json:"alerts,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// NewAccountResponse maps a domain account to its response form.
func NewAccountResponse(a *model.Account) AccountResponse {
	resp := AccountResponse{
		ID:             a.ID,
		Number:         a.Number,
		SubmitterID:    a.SubmitterID,
		SubmitterName:  a.SubmitterName,
		ContractNumber: a.ContractNumber,
		ActNumber:      a.ActNumber,
		Amount:         a.Amount,
		Description:    a.Description,
		CurrentState:   string(a.CurrentState),
		OwnerID:        a.OwnerID,
		OwnerName:      a.OwnerName,
		Milestones:     a.Milestones,
		Alerts:         a.Alerts,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
	for _, mv := range a.History {
		resp.History = append(resp.History, MovementResponse{
			State:          string(mv.State),
			ActorID:        mv.ActorID,
			ActorName:      mv.ActorName,
			RecordedAt:     mv.RecordedAt,
			Action:         string(mv.Action),
			Comment:        mv.Comment,
			CorrectionType: string(mv.CorrectionType),
			AssignedID:     mv.AssignedID,
			AssignedName:   mv.AssignedName,
		})
	}
	return resp
}

// NewAccountResponses maps a slice of accounts.
func NewAccountResponses(accounts []model.Account) []AccountResponse {
	result := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		result = append(result, NewAccountResponse(&accounts[i]))
	}
	return result
}
