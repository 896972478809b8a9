package dto

import (
	"github.com/camivel/cuentastrack/internal/domain/model"
)

// DashboardResponse aggregates per-state account counts.
type DashboardResponse struct {
	Total   int            `json:"total"`
	ByState map[string]int `json:"by_state"`
}

// NewDashboardResponse maps domain counts to their response form.
func NewDashboardResponse(total int, byState map[model.State]int) DashboardResponse {
	resp := DashboardResponse{Total: total, ByState: make(map[string]int, len(byState))}
	for state, n := range byState {
		resp.ByState[string(state)] = n
	}
	return resp
}
