package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/budgetwise/budgetwise-backend/internal/domain"
	"github.com/budgetwise/budgetwise-backend/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReminderWorker() (*ReminderWorker, *ScheduleService, *testutil.MockWorkspaceRepository, *testutil.MockEventPublisher) {
	svc, paymentRepo := setupScheduleServiceTest()
	paymentRepo.AddPayment(&domain.Payment{
		ID: 4, WorkspaceID: 1, Name: "Phone",
		Amount: decimal.NewFromInt(40), Type: domain.PaymentTypeExpense,
		Frequency: "monthly", StartDate: date(2026, 1, 16), IsActive: true,
	})

	workspaceRepo := testutil.NewMockWorkspaceRepository()
	workspaceRepo.AddWorkspace(&domain.Workspace{ID: 1, Auth0ID: "auth0|one", Name: "Personal"})

	publisher := testutil.NewMockEventPublisher()
	worker := NewReminderWorker(svc, workspaceRepo, publisher, zerolog.Nop(), ReminderWorkerConfig{
		Interval: 100 * time.Millisecond,
		LeadDays: 1,
	})
	return worker, svc, workspaceRepo, publisher
}

func TestReminderWorker_DefaultConfig(t *testing.T) {
	config := DefaultReminderWorkerConfig()

	assert.Equal(t, 1*time.Hour, config.Interval)
	assert.Equal(t, 1, config.LeadDays)
}

func TestReminderWorker_InvalidConfigFallsBack(t *testing.T) {
	svc, _ := setupScheduleServiceTest()
	worker := NewReminderWorker(svc, testutil.NewMockWorkspaceRepository(), testutil.NewMockEventPublisher(), zerolog.Nop(), ReminderWorkerConfig{
		Interval: 0,
		LeadDays: -5,
	})

	assert.Equal(t, 1*time.Hour, worker.interval)
	assert.Equal(t, 1, worker.leadDays)
}

func TestReminderWorker_RemindWorkspace(t *testing.T) {
	worker, _, _, publisher := setupReminderWorker()

	sent, err := worker.RemindWorkspace(1)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, int32(1), events[0].WorkspaceID)
	assert.Equal(t, "payment.due", events[0].Event.Type)

	reminder, ok := events[0].Event.Payload.(DueReminder)
	require.True(t, ok)
	assert.Equal(t, int32(4), reminder.PaymentID)
	assert.Equal(t, "Phone", reminder.Name)
	assert.Equal(t, "40.00", reminder.Amount)
	assert.Equal(t, "2026-01-16", reminder.DueDate)
	assert.Equal(t, 1, reminder.DaysUntil)
}

func TestReminderWorker_AnnouncesEachOccurrenceOnce(t *testing.T) {
	worker, svc, _, publisher := setupReminderWorker()

	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })

	sent, err := worker.RemindWorkspace(1)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	// Same occurrence on the next scan, and again once it is due today
	sent, err = worker.RemindWorkspace(1)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	now = time.Date(2026, 1, 16, 9, 0, 0, 0, time.UTC)
	sent, err = worker.RemindWorkspace(1)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	// Next month's occurrence is new
	now = time.Date(2026, 2, 15, 9, 0, 0, 0, time.UTC)
	sent, err = worker.RemindWorkspace(1)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	assert.Equal(t, []string{"payment.due", "payment.due"}, publisher.EventTypes())
	assert.Len(t, worker.sent, 1)
}

func TestReminderWorker_RemindWorkspaceError(t *testing.T) {
	svc, paymentRepo := setupScheduleServiceTest()
	paymentRepo.ListErr = errors.New("connection reset")

	worker := NewReminderWorker(svc, testutil.NewMockWorkspaceRepository(), testutil.NewMockEventPublisher(), zerolog.Nop(), DefaultReminderWorkerConfig())

	_, err := worker.RemindWorkspace(1)
	assert.Error(t, err)
}

func TestReminderWorker_StartStop(t *testing.T) {
	worker, _, _, publisher := setupReminderWorker()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker.Start(ctx)
	worker.Start(ctx)
	assert.True(t, worker.IsRunning())

	// The first scan runs immediately
	require.Eventually(t, func() bool {
		return len(publisher.Events()) == 1
	}, time.Second, 10*time.Millisecond)

	worker.Stop()
	assert.False(t, worker.IsRunning())

	// Stopping twice is a no-op
	worker.Stop()
}

func TestReminderWorker_ContextCancel(t *testing.T) {
	worker, _, _, _ := setupReminderWorker()

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)
	cancel()

	require.Eventually(t, func() bool {
		return !worker.IsRunning()
	}, time.Second, 10*time.Millisecond)
}

func TestReminderWorker_ListWorkspacesError(t *testing.T) {
	worker, _, workspaceRepo, publisher := setupReminderWorker()
	workspaceRepo.ListErr = errors.New("connection reset")

	worker.remindAllWorkspaces(context.Background())

	assert.Empty(t, publisher.Events())
}
