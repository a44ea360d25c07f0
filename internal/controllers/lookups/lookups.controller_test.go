package lookupsController

import (
	"context"
	"testing"

	"maintlog/config"
	"maintlog/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLookups(t *testing.T) {
	controller := New(repositories.NewMemory(config.Config{
		LookupFactories: "F1, F2",
		LookupStatuses:  "Open",
	}))

	lookups, err := controller.GetLookups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"F1", "F2"}, lookups.Factories)
	assert.Equal(t, []string{"Open"}, lookups.Statuses)
	assert.Empty(t, lookups.Personnel)
}
