package jobs

import (
	"context"
	"errors"
	"testing"

	"maintlog/config"
	"maintlog/internal/repositories"
	"maintlog/internal/services"
	"maintlog/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLookupRepository struct {
	mock.Mock
}

func (m *MockLookupRepository) GetLookups(ctx context.Context) (*types.Lookups, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Lookups), args.Error(1)
}

func (m *MockLookupRepository) Refresh(ctx context.Context) (*types.Lookups, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Lookups), args.Error(1)
}

func TestLookupCacheRefreshJob_Execute(t *testing.T) {
	t.Run("refreshes lookups", func(t *testing.T) {
		lookups := &MockLookupRepository{}
		lookups.On("Refresh", mock.Anything).Return(&types.Lookups{Factories: []string{"F1"}}, nil)

		job := NewLookupCacheRefreshJob(lookups, Hourly)
		assert.Equal(t, "LookupCacheRefresh", job.Name())
		assert.Equal(t, services.Hourly, job.Schedule())

		require.NoError(t, job.Execute(context.Background()))
		lookups.AssertExpectations(t)
	})

	t.Run("returns refresh errors", func(t *testing.T) {
		lookups := &MockLookupRepository{}
		lookups.On("Refresh", mock.Anything).Return(nil, types.ErrQueryFailure)

		err := NewLookupCacheRefreshJob(lookups, Hourly).Execute(context.Background())
		assert.True(t, errors.Is(err, types.ErrQueryFailure))
	})
}

func TestRegisterAllJobs(t *testing.T) {
	repos := repositories.Repository{Lookup: &MockLookupRepository{}}

	tests := []struct {
		name     string
		config   config.Config
		expected int
	}{
		{
			name:     "memory store has nothing to refresh",
			config:   config.Config{StoreBackend: config.StoreBackendMemory},
			expected: 0,
		},
		{
			name:     "sql store without cache",
			config:   config.Config{StoreBackend: config.StoreBackendSQL},
			expected: 0,
		},
		{
			name: "sql store with cache",
			config: config.Config{
				StoreBackend:         config.StoreBackendSQL,
				DatabaseCacheAddress: "localhost",
				DatabaseCachePort:    6379,
			},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := services.NewSchedulerService()
			require.NoError(t, RegisterAllJobs(scheduler, tt.config, repos))
			assert.Equal(t, tt.expected, scheduler.GetJobCount())
		})
	}
}
