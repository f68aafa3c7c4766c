package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/budgetwise/budgetwise-backend/internal/domain"
	"github.com/budgetwise/budgetwise-backend/internal/websocket"
	"github.com/rs/zerolog"
)

// ReminderWorker periodically pushes payment.due events for occurrences that
// fall within the next LeadDays days. Each occurrence is announced once per
// process lifetime.
type ReminderWorker struct {
	scheduleService *ScheduleService
	workspaceRepo   domain.WorkspaceRepository
	publisher       websocket.EventPublisher
	logger          zerolog.Logger
	interval        time.Duration
	leadDays        int
	stopCh          chan struct{}
	doneCh          chan struct{}
	mu              sync.Mutex
	running         bool
	sent            map[string]time.Time
}

// ReminderWorkerConfig holds configuration for the reminder worker
type ReminderWorkerConfig struct {
	Interval time.Duration // How often to scan for due payments
	LeadDays int           // How many days ahead a payment counts as due
}

// DueReminder is the payload of a payment.due event
type DueReminder struct {
	PaymentID int32  `json:"paymentId"`
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Type      string `json:"type"`
	DueDate   string `json:"dueDate"`
	DaysUntil int    `json:"daysUntil"`
}

// DefaultReminderWorkerConfig returns the defaults used when nothing is configured
func DefaultReminderWorkerConfig() ReminderWorkerConfig {
	return ReminderWorkerConfig{
		Interval: 1 * time.Hour,
		LeadDays: 1,
	}
}

// NewReminderWorker creates a new reminder worker
func NewReminderWorker(
	scheduleService *ScheduleService,
	workspaceRepo domain.WorkspaceRepository,
	publisher websocket.EventPublisher,
	logger zerolog.Logger,
	config ReminderWorkerConfig,
) *ReminderWorker {
	if config.Interval <= 0 {
		config.Interval = 1 * time.Hour
	}
	if config.LeadDays < 0 || config.LeadDays > MaxUpcomingDays {
		config.LeadDays = 1
	}

	return &ReminderWorker{
		scheduleService: scheduleService,
		workspaceRepo:   workspaceRepo,
		publisher:       publisher,
		logger:          logger.With().Str("component", "reminder_worker").Logger(),
		interval:        config.Interval,
		leadDays:        config.LeadDays,
		stopCh:          make(chan struct{}),
		doneCh:          make(chan struct{}),
		sent:            make(map[string]time.Time),
	}
}

// Start begins the background scan
func (w *ReminderWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().
		Dur("interval", w.interval).
		Int("lead_days", w.leadDays).
		Msg("Starting reminder worker")

	go w.run(ctx)
}

// Stop gracefully stops the reminder worker
func (w *ReminderWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping reminder worker")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("Reminder worker stopped")
}

// IsRunning returns whether the worker is currently running
func (w *ReminderWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *ReminderWorker) run(ctx context.Context) {
	defer close(w.doneCh)
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	// Run immediately on startup
	w.remindAllWorkspaces(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.remindAllWorkspaces(ctx)
		}
	}
}

func (w *ReminderWorker) remindAllWorkspaces(ctx context.Context) {
	startTime := time.Now()

	workspaces, err := w.workspaceRepo.ListAll()
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to list workspaces for reminders")
		return
	}

	totalSent := 0
	totalErrors := 0
	for _, ws := range workspaces {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Context cancelled, stopping reminder scan")
			return
		case <-w.stopCh:
			w.logger.Info().Msg("Stop signal received, stopping reminder scan")
			return
		default:
		}

		sent, err := w.RemindWorkspace(ws.ID)
		if err != nil {
			w.logger.Error().Err(err).Int32("workspace_id", ws.ID).Msg("Failed to send reminders for workspace")
			totalErrors++
			continue
		}
		totalSent += sent
	}

	w.logger.Info().
		Int("workspaces", len(workspaces)).
		Int("reminders_sent", totalSent).
		Int("errors", totalErrors).
		Dur("elapsed", time.Since(startTime)).
		Msg("Completed reminder scan")
}

// RemindWorkspace publishes a payment.due event for every occurrence of the
// workspace's active payments within the lead window that has not been announced
// yet. It returns the number of events published.
func (w *ReminderWorker) RemindWorkspace(workspaceID int32) (int, error) {
	days := w.leadDays
	upcoming, err := w.scheduleService.Upcoming(workspaceID, &days)
	if err != nil {
		return 0, err
	}

	today := w.scheduleService.Today()

	w.mu.Lock()
	defer w.mu.Unlock()

	// Forget occurrences that are already in the past
	for key, due := range w.sent {
		if due.Before(today) {
			delete(w.sent, key)
		}
	}

	sent := 0
	for _, u := range upcoming {
		key := fmt.Sprintf("%d:%d:%s", workspaceID, u.ID, u.NextDate.Format("2006-01-02"))
		if _, ok := w.sent[key]; ok {
			continue
		}
		w.sent[key] = u.NextDate

		w.publisher.Publish(workspaceID, websocket.PaymentDue(DueReminder{
			PaymentID: u.ID,
			Name:      u.Name,
			Amount:    u.Amount.StringFixed(2),
			Type:      string(u.Type),
			DueDate:   u.NextDate.Format("2006-01-02"),
			DaysUntil: u.DaysUntil,
		}))
		sent++
	}
	return sent, nil
}
