package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/camivel/cuentastrack/internal/domain/model"
	"github.com/camivel/cuentastrack/internal/test"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestAlertMonitorReportsOverdueAccounts(t *testing.T) {
	overdue := model.Account{
		Number:       "CC-20240315-001",
		CurrentState: model.StateReviewEPB,
		OwnerName:    "Administrador EPB",
		Alerts:       []string{"review_epb stage has taken 4 days (limit 3)"},
	}
	facade := &test.MonitorFacadeStub{Batches: [][]model.Account{{overdue}}}

	out := &lockedBuffer{}
	logger := slog.New(slog.NewJSONHandler(out, nil))
	monitor := NewAlertMonitor(facade, 5*time.Millisecond, 2, logger)

	monitor.Start(context.Background())
	deadline := time.After(time.Second)
	for !strings.Contains(out.String(), "stage overdue") {
		select {
		case <-deadline:
			monitor.Stop()
			t.Fatalf("no overdue report, log:\n%s", out.String())
		case <-time.After(5 * time.Millisecond):
		}
	}
	monitor.Stop()

	var entry map[string]any
	line := out.String()[strings.Index(out.String(), "{"):]
	if err := json.Unmarshal([]byte(line[:strings.Index(line, "\n")]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["number"] != "CC-20240315-001" || entry["state"] != "review_epb" {
		t.Errorf("entry = %v", entry)
	}
}

func TestAlertMonitorLogsSweepErrors(t *testing.T) {
	facade := &test.MonitorFacadeStub{
		OverdueFn: func(context.Context) ([]model.Account, error) {
			return nil, errors.New("storage offline")
		},
	}

	out := &lockedBuffer{}
	logger := slog.New(slog.NewJSONHandler(out, nil))
	monitor := NewAlertMonitor(facade, 5*time.Millisecond, 1, logger)

	monitor.Start(context.Background())
	deadline := time.After(time.Second)
	for !strings.Contains(out.String(), "overdue sweep failed") {
		select {
		case <-deadline:
			monitor.Stop()
			t.Fatalf("sweep error not logged, log:\n%s", out.String())
		case <-time.After(5 * time.Millisecond):
		}
	}
	monitor.Stop()
}

func TestAlertMonitorOutlivesStartContext(t *testing.T) {
	overdue := model.Account{
		Number:       "CC-20240315-001",
		CurrentState: model.StateReviewEPB,
		Alerts:       []string{"review_epb stage has taken 4 days (limit 3)"},
	}
	facade := &test.MonitorFacadeStub{Batches: [][]model.Account{{overdue}}}

	out := &lockedBuffer{}
	logger := slog.New(slog.NewJSONHandler(out, nil))
	monitor := NewAlertMonitor(facade, 5*time.Millisecond, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	monitor.Start(ctx)
	cancel()

	deadline := time.After(time.Second)
	for !strings.Contains(out.String(), "stage overdue") {
		select {
		case <-deadline:
			monitor.Stop()
			t.Fatalf("sweeping stopped with the start context, log:\n%s", out.String())
		case <-time.After(5 * time.Millisecond):
		}
	}
	monitor.Stop()
}

func TestAlertMonitorStopIsIdempotent(t *testing.T) {
	facade := &test.MonitorFacadeStub{}
	logger := slog.New(slog.NewJSONHandler(&lockedBuffer{}, nil))
	monitor := NewAlertMonitor(facade, time.Hour, 0, logger)

	monitor.Start(context.Background())
	monitor.Stop()
	monitor.Stop()
}
