package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/camivel/cuentastrack/internal/domain/model"
)

// TrackerFacade exposes the subset of application functionality required by the monitor.
type TrackerFacade interface {
	Overdue(ctx context.Context) ([]model.Account, error)
}

// AlertMonitor periodically sweeps in-review accounts and reports the ones
// whose current stage breached the alert threshold. It only observes:
// alerts stay derived and nothing is written back.
type AlertMonitor struct {
	facade        TrackerFacade
	sweepInterval time.Duration
	workers       int
	logger        *slog.Logger

	jobs   chan model.Account
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewAlertMonitor constructs the alert monitor worker pool.
func NewAlertMonitor(facade TrackerFacade, sweepInterval time.Duration, workers int, logger *slog.Logger) *AlertMonitor {
	if workers <= 0 {
		workers = 1
	}
	return &AlertMonitor{
		facade:        facade,
		sweepInterval: sweepInterval,
		workers:       workers,
		logger:        logger,
		jobs:          make(chan model.Account, workers*4),
	}
}

// Start launches background sweeping. The run context keeps ctx's values
// but not its cancellation: startup contexts end once startup returns, and
// the monitor must outlive them. Stop ends the run.
func (m *AlertMonitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.cancel = cancel

	for i := 0; i < m.workers; i++ {
		m.wg.Add(1)
		go m.worker(runCtx)
	}

	m.wg.Add(1)
	go m.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (m *AlertMonitor) Stop() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()

	m.wg.Wait()
}

func (m *AlertMonitor) dispatch(ctx context.Context) {
	defer m.wg.Done()
	defer close(m.jobs)
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

func (m *AlertMonitor) sweep(ctx context.Context) {
	accounts, err := m.facade.Overdue(ctx)
	if err != nil {
		m.logger.Error("overdue sweep failed", slog.String("error", err.Error()))
		return
	}
	for _, account := range accounts {
		select {
		case <-ctx.Done():
			return
		case m.jobs <- account:
		}
	}
}

func (m *AlertMonitor) worker(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case account, ok := <-m.jobs:
			if !ok {
				return
			}
			m.report(account)
		}
	}
}

func (m *AlertMonitor) report(account model.Account) {
	for _, alert := range account.Alerts {
		m.logger.Warn("stage overdue",
			slog.String("number", account.Number),
			slog.String("state", string(account.CurrentState)),
			slog.String("owner", account.OwnerName),
			slog.String("alert", alert),
		)
	}
}
