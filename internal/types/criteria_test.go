package types

import (
	"errors"
	"testing"
	"time"

	"maintlog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTickets() []*models.MaintenanceTicket {
	return []*models.MaintenanceTicket{
		{
			ID:          "20240601-1",
			CreatedAt:   time.Date(2024, 6, 1, 8, 15, 0, 0, time.UTC),
			Factory:     "F1",
			Location:    "Line 3 conveyor",
			Status:      "Open",
			Personnel:   "Chen",
			Description: "belt slipping",
		},
		{
			ID:          "20240601-2",
			CreatedAt:   time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC),
			Factory:     "F2",
			Location:    "Press 7",
			Status:      "Closed",
			Personnel:   "Lin",
			Description: "",
		},
		{
			ID:          "20240602-1",
			CreatedAt:   time.Date(2024, 6, 2, 10, 45, 0, 0, time.UTC),
			Factory:     "F1",
			Location:    "Line 3 packer",
			Status:      "Open",
			Personnel:   "Wang",
			Description: "sensor fault on packer",
		},
	}
}

func TestSearchCriteria_BlankMatchesEverything(t *testing.T) {
	criteria := &SearchCriteria{
		ID:       "  ",
		Location: "\t",
		Status:   "",
	}

	for _, ticket := range sampleTickets() {
		assert.True(t, criteria.Matches(ticket), ticket.ID)
	}
	assert.True(t, criteria.IsEmpty())

	var nilCriteria *SearchCriteria
	assert.True(t, nilCriteria.Matches(sampleTickets()[0]))
	assert.True(t, nilCriteria.IsEmpty())
}

func TestSearchCriteria_StatusFilterPreservesOrder(t *testing.T) {
	criteria := &SearchCriteria{Status: "Open"}

	filtered := criteria.Filter(sampleTickets())

	require.Len(t, filtered, 2)
	assert.Equal(t, "20240601-1", filtered[0].ID)
	assert.Equal(t, "20240602-1", filtered[1].ID)
}

func TestSearchCriteria_Matches(t *testing.T) {
	tickets := sampleTickets()

	testCases := []struct {
		name     string
		criteria SearchCriteria
		expected []string
	}{
		{
			name:     "exact id",
			criteria: SearchCriteria{ID: "20240601-2"},
			expected: []string{"20240601-2"},
		},
		{
			name:     "id is not a prefix match",
			criteria: SearchCriteria{ID: "20240601"},
			expected: []string{},
		},
		{
			name:     "exact factory",
			criteria: SearchCriteria{Factory: "F1"},
			expected: []string{"20240601-1", "20240602-1"},
		},
		{
			name:     "factory is case-sensitive",
			criteria: SearchCriteria{Factory: "f1"},
			expected: []string{},
		},
		{
			name:     "location substring",
			criteria: SearchCriteria{Location: "Line 3"},
			expected: []string{"20240601-1", "20240602-1"},
		},
		{
			name:     "description substring",
			criteria: SearchCriteria{Description: "packer"},
			expected: []string{"20240602-1"},
		},
		{
			name:     "trimmed values",
			criteria: SearchCriteria{Personnel: "  Lin "},
			expected: []string{"20240601-2"},
		},
		{
			name:     "date with dashes",
			criteria: SearchCriteria{Date: "2024-06-01"},
			expected: []string{"20240601-1", "20240601-2"},
		},
		{
			name:     "date with slashes",
			criteria: SearchCriteria{Date: "2024/06/02"},
			expected: []string{"20240602-1"},
		},
		{
			name:     "compact date",
			criteria: SearchCriteria{Date: "20240602"},
			expected: []string{"20240602-1"},
		},
		{
			name:     "conjunction",
			criteria: SearchCriteria{Date: "2024-06-01", Factory: "F1", Status: "Open"},
			expected: []string{"20240601-1"},
		},
		{
			name:     "invalid date matches nothing",
			criteria: SearchCriteria{Date: "June first"},
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ids := []string{}
			for _, ticket := range tc.criteria.Filter(tickets) {
				ids = append(ids, ticket.ID)
			}
			assert.Equal(t, tc.expected, ids)
		})
	}
}

func TestSearchCriteria_Day(t *testing.T) {
	criteria := &SearchCriteria{Date: "2024/06/01"}

	day, ok, err := criteria.Day(time.UTC)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), day)

	_, ok, err = (&SearchCriteria{}).Day(time.UTC)
	assert.NoError(t, err)
	assert.False(t, ok)

	err = (&SearchCriteria{Date: "2024-13-45"}).Validate()
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestAllows(t *testing.T) {
	assert.True(t, Allows(nil, "anything"))
	assert.True(t, Allows([]string{"Open", "Closed"}, "Open"))
	assert.False(t, Allows([]string{"Open", "Closed"}, "Pending"))
}

func TestWrap(t *testing.T) {
	cause := errors.New("driver: bad connection")

	err := WrapErr(ErrQueryFailure, "failed to list tickets", cause)

	assert.True(t, errors.Is(err, ErrQueryFailure))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "not found: ticket 20240601-9", Wrap(ErrNotFound, "ticket 20240601-9").Error())
}
