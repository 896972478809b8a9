package usecase

import (
	"fmt"
	"time"

	"github.com/camivel/cuentastrack/internal/domain/model"
)

// DefaultAlertThresholdDays is how long an account may sit in a review
// stage before an alert is raised.
const DefaultAlertThresholdDays = 3

// ComputeAlerts derives SLA alerts for the account's current stage. Alerts
// are recomputed on every read and never persisted; a cached copy would go
// stale the moment a day passes.
func ComputeAlerts(acc *model.Account, now time.Time, thresholdDays int) []string {
	if thresholdDays <= 0 {
		thresholdDays = DefaultAlertThresholdDays
	}

	name, ok := model.StartMilestone(acc.CurrentState)
	if !ok {
		return nil
	}
	started, ok := acc.Milestones[name]
	if !ok {
		return nil
	}

	days := calendarDaysBetween(started, now)
	if days <= thresholdDays {
		return nil
	}
	return []string{fmt.Sprintf("%s stage has taken %d days (limit %d)", acc.CurrentState, days, thresholdDays)}
}

// calendarDaysBetween counts whole calendar days, not business days.
func calendarDaysBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}
