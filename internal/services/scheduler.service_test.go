package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name     string
	schedule Schedule
}

func (j *stubJob) Name() string { return j.name }

func (j *stubJob) Execute(ctx context.Context) error { return nil }

func (j *stubJob) Schedule() Schedule { return j.schedule }

func TestSchedulerService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	scheduler := NewSchedulerService()

	t.Run("start without jobs is a no-op", func(t *testing.T) {
		require.NoError(t, scheduler.Start(ctx))
		assert.False(t, scheduler.IsRunning())
		assert.Nil(t, scheduler.GetNextRunTime())
	})

	t.Run("registers and runs jobs", func(t *testing.T) {
		require.NoError(t, scheduler.AddJob(&stubJob{name: "hourly", schedule: Hourly}))
		require.NoError(t, scheduler.AddJob(&stubJob{name: "daily", schedule: Daily}))
		assert.Equal(t, 2, scheduler.GetJobCount())

		require.NoError(t, scheduler.Start(ctx))
		assert.True(t, scheduler.IsRunning())
		assert.NotNil(t, scheduler.GetNextRunTime())

		require.NoError(t, scheduler.Start(ctx))
		assert.True(t, scheduler.IsRunning())
	})

	t.Run("stop", func(t *testing.T) {
		require.NoError(t, scheduler.Stop(ctx))
		assert.False(t, scheduler.IsRunning())
		require.NoError(t, scheduler.Stop(ctx))
	})
}

func TestSchedulerService_RejectsUnknownSchedule(t *testing.T) {
	scheduler := NewSchedulerService()
	err := scheduler.AddJob(&stubJob{name: "odd", schedule: Schedule(42)})
	assert.Error(t, err)
	assert.Equal(t, 0, scheduler.GetJobCount())
}
