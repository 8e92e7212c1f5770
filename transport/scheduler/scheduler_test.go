package scheduler_test

import (
	"context"
	"testing"

	"innkeep/config"
	otelMocks "innkeep/infras/otel/mocks"
	icalMocks "innkeep/internal/domains/ical/mocks"
	icalDto "innkeep/internal/domains/ical/model/dto"
	taskMocks "innkeep/internal/domains/task/mocks"
	taskDto "innkeep/internal/domains/task/model/dto"
	"innkeep/shared"
	"innkeep/shared/constant"
	"innkeep/transport/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newScheduler(t *testing.T, syncCron string) (*icalMocks.MockICal, *taskMocks.MockTaskService, *scheduler.Scheduler) {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Scheduler.SyncCron = syncCron
	cfg.Scheduler.GenerateCron = "0 11 * * *"

	ical := icalMocks.NewMockICal(ctrl)
	task := taskMocks.NewMockTaskService(ctrl)

	s, err := scheduler.New(cfg, ical, task, otelMocks.NewOtel())
	require.NoError(t, err)

	return ical, task, s
}

func TestRegister(t *testing.T) {
	_, _, s := newScheduler(t, "*/30 * * * *")
	assert.NoError(t, s.Register())

	_, _, s = newScheduler(t, "not a cron")
	assert.Error(t, s.Register())
}

func TestJobsRunAsSystem(t *testing.T) {
	ical, task, s := newScheduler(t, "*/30 * * * *")

	ical.EXPECT().SyncAll(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (icalDto.SyncResult, error) {
			assert.Equal(t, constant.ContextSystem, shared.UserFromContext(ctx))

			return icalDto.SyncResult{Processed: 1, Errors: []string{"room 101 sync failed: fetch failed"}}, nil
		})
	task.EXPECT().Generate(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (taskDto.GenerateResult, error) {
			assert.Equal(t, constant.ContextSystem, shared.UserFromContext(ctx))

			return taskDto.GenerateResult{Message: taskDto.MessageGenerated, Created: 1}, nil
		})

	s.SyncCalendars()
	s.GenerateTasks()
}
