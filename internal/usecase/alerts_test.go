package usecase_test

import (
	"testing"
	"time"

	"github.com/camivel/cuentastrack/internal/domain/model"
	"github.com/camivel/cuentastrack/internal/usecase"
)

func reviewAccount(started time.Time) *model.Account {
	return &model.Account{
		CurrentState: model.StateReviewEPB,
		Milestones: map[string]time.Time{
			"review_epb_start": started,
		},
	}
}

func TestComputeAlertsAfterThreshold(t *testing.T) {
	started := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	now := started.Add(4 * 24 * time.Hour)

	alerts := usecase.ComputeAlerts(reviewAccount(started), now, 3)
	if len(alerts) != 1 {
		t.Fatalf("alerts = %v, want one", alerts)
	}
	want := "review_epb stage has taken 4 days (limit 3)"
	if alerts[0] != want {
		t.Errorf("alert = %q, want %q", alerts[0], want)
	}
}

func TestComputeAlertsBoundaryIsStrict(t *testing.T) {
	started := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	now := started.Add(3 * 24 * time.Hour)

	if alerts := usecase.ComputeAlerts(reviewAccount(started), now, 3); len(alerts) != 0 {
		t.Errorf("exactly 3 days must not alert, got %v", alerts)
	}
}

func TestComputeAlertsSkipsNonReviewStates(t *testing.T) {
	started := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	now := started.Add(30 * 24 * time.Hour)

	acc := &model.Account{CurrentState: model.StatePaid, Milestones: map[string]time.Time{"payment": started}}
	if alerts := usecase.ComputeAlerts(acc, now, 3); alerts != nil {
		t.Errorf("paid account alerted: %v", alerts)
	}

	returned := &model.Account{CurrentState: model.StateReturned, Milestones: map[string]time.Time{}}
	if alerts := usecase.ComputeAlerts(returned, now, 3); alerts != nil {
		t.Errorf("returned account alerted: %v", alerts)
	}
}

func TestComputeAlertsWithoutStartMilestone(t *testing.T) {
	now := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)
	acc := &model.Account{CurrentState: model.StateReviewEPB, Milestones: map[string]time.Time{}}
	if alerts := usecase.ComputeAlerts(acc, now, 3); alerts != nil {
		t.Errorf("missing start milestone alerted: %v", alerts)
	}
}

func TestComputeAlertsDefaultThreshold(t *testing.T) {
	started := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	now := started.Add(4 * 24 * time.Hour)

	if alerts := usecase.ComputeAlerts(reviewAccount(started), now, 0); len(alerts) != 1 {
		t.Errorf("zero threshold must fall back to the default, got %v", alerts)
	}
}
